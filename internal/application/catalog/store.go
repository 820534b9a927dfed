package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/aura-storefront/internal/domain"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

// sharedReloadTimeout tope de una recarga perezosa compartida entre peticiones.
const sharedReloadTimeout = 30 * time.Second

// Store mantiene el snapshot vigente del catálogo.
//
// Cada carga toma un número de generación; solo se aplica si es más nueva que la
// última aplicada, así una carga lenta que termina tarde no pisa datos recientes.
// Una carga cuyo contexto ya terminó no se aplica.
type Store struct {
	gateway repository.CatalogGateway
	cache   SnapshotCache
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time

	gen    atomic.Uint64
	reload singleflight.Group

	mu       sync.RWMutex
	current  *Snapshot
	applied  uint64
	stale    bool
	minFresh uint64 // cargas con generación <= minFresh empezaron antes de la última invalidación
}

// NewStore construye el store. cache puede ser nil; ttl <= 0 desactiva la expiración.
func NewStore(gateway repository.CatalogGateway, cache SnapshotCache, ttl time.Duration, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{gateway: gateway, cache: cache, ttl: ttl, log: log.Named("catalog.store"), now: time.Now}
}

// Snapshot devuelve el snapshot vigente; si falta o expiró consulta la caché compartida y,
// en último caso, recarga desde el gateway. Las recargas concurrentes se agrupan.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	cur, stale := s.current, s.stale
	s.mu.RUnlock()
	if cur != nil && !stale && s.fresh(cur) {
		return cur, nil
	}

	if !stale && s.cache != nil {
		snap, err := s.cache.Load(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("caché de catálogo no disponible")
		} else if snap != nil && s.fresh(snap) {
			gen := s.gen.Add(1)
			if applied := s.apply(gen, snap); applied != nil {
				return applied, nil
			}
		}
	}

	// La recarga compartida no depende del contexto de quien la inició: si ese cliente
	// se va, los demás siguen esperando el resultado con su propio contexto.
	ch := s.reload.DoChan("reload", func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReloadTimeout)
		defer cancel()
		return s.Reload(rctx)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Reload carga productos y categorías en paralelo. Ambas lecturas deben tener éxito;
// si alguna falla no se aplica nada y se devuelve domain.ErrLoadFailed.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	gen := s.gen.Add(1)

	var (
		productRows  []domcatalog.ProductRow
		categoryRows []domcatalog.CategoryRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListActiveProducts(gctx)
		if err != nil {
			return fmt.Errorf("productos: %w", err)
		}
		productRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("categorías: %w", err)
		}
		categoryRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrGatewayNotConfigured) {
			s.log.Error().Err(err).Uint64("generation", gen).Msg("carga de catálogo fallida")
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}
	if err := ctx.Err(); err != nil {
		s.log.Debug().Uint64("generation", gen).Msg("carga cancelada, resultado descartado")
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}

	products, err := domcatalog.NormalizeProductRows(productRows)
	if err != nil {
		s.log.Error().Err(err).Uint64("generation", gen).Msg("fila de producto inválida")
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}
	categories := make([]entity.Category, 0, len(categoryRows))
	for _, row := range categoryRows {
		categories = append(categories, domcatalog.NormalizeCategoryRow(row))
	}

	snap := &Snapshot{Products: products, Categories: categories, LoadedAt: s.now()}
	applied := s.apply(gen, snap)
	if applied == nil {
		return nil, fmt.Errorf("%w: snapshot vacío", domain.ErrLoadFailed)
	}
	if applied == snap && s.cache != nil {
		if err := s.cache.Save(ctx, snap, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo guardar el catálogo en caché")
		}
	}
	s.log.Debug().Uint64("generation", gen).Int("products", len(products)).Int("categories", len(categories)).Msg("catálogo cargado")
	return applied, nil
}

// Invalidate marca el snapshot como desactualizado y borra la entrada compartida.
// La siguiente lectura recarga desde el gateway.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.stale = true
	s.minFresh = s.gen.Load()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Drop(ctx); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo invalidar la caché de catálogo")
		}
	}
}

// apply instala snap si gen es la más nueva y devuelve el snapshot vigente tras el intento.
func (s *Store) apply(gen uint64, snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.applied {
		s.log.Debug().Uint64("generation", gen).Uint64("applied", s.applied).Msg("carga obsoleta descartada")
		return s.current
	}
	snap.Generation = gen
	s.current = snap
	s.applied = gen
	s.stale = gen <= s.minFresh
	return s.current
}

func (s *Store) fresh(snap *Snapshot) bool {
	return s.ttl <= 0 || s.now().Sub(snap.LoadedAt) < s.ttl
}
