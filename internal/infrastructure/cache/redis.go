// Package cache adaptadores Redis compartidos entre instancias: snapshot del catálogo
// y lista de sesiones revocadas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/config"
)

const (
	snapshotKey      = "aura:catalog:snapshot"
	revokedKeyPrefix = "aura:auth:revoked:"
)

var (
	_ appcatalog.SnapshotCache     = (*SnapshotCache)(nil)
	_ repository.SessionRevocations = (*Revocations)(nil)
)

// NewClient crea el cliente y comprueba la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// SnapshotCache guarda el snapshot serializado en JSON bajo una sola clave.
type SnapshotCache struct {
	rdb redis.Cmdable
	key string
}

// NewSnapshotCache usa la clave por defecto.
func NewSnapshotCache(rdb redis.Cmdable) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, key: snapshotKey}
}

// Load devuelve nil, nil si la clave no existe.
func (c *SnapshotCache) Load(ctx context.Context) (*appcatalog.Snapshot, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap appcatalog.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// entrada corrupta: se descarta y se trata como fallo de caché
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, fmt.Errorf("snapshot en caché ilegible: %w", err)
	}
	return &snap, nil
}

// Save ttl <= 0 guarda sin expiración.
func (c *SnapshotCache) Save(ctx context.Context, snap *appcatalog.Snapshot, ttl time.Duration) error {
	if snap == nil {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, c.key, raw, ttl).Err()
}

func (c *SnapshotCache) Drop(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}

// Revocations sesiones cerradas; cada clave expira cuando caduca el token.
type Revocations struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRevocations(rdb redis.Cmdable) *Revocations {
	return &Revocations{rdb: rdb, now: time.Now}
}

func (r *Revocations) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	if sessionID == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if until.IsZero() {
		ttl = 24 * time.Hour
	}
	if ttl <= 0 {
		// el token ya expiró por sí solo
		return nil
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+sessionID, 1, ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
