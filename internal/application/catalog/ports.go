package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

// Snapshot productos activos y categorías cargados juntos. Nunca se modifica
// después de aplicado; cada recarga produce uno nuevo.
type Snapshot struct {
	Generation uint64            `json:"-"`
	Products   []entity.Product  `json:"products"`
	Categories []entity.Category `json:"categories"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// CategoryNames nombres de categoría en el orden del gateway.
func (s *Snapshot) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}
	return names
}

// SnapshotCache caché compartida entre instancias (Redis). Load devuelve nil, nil si no hay entrada.
type SnapshotCache interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	Drop(ctx context.Context) error
}
