package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain/repository"
)

var _ repository.SessionRevocations = (*MemoryRevocations)(nil)

// MemoryRevocations lista de revocaciones en proceso; se usa cuando no hay Redis.
type MemoryRevocations struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewMemoryRevocations construye la lista vacía.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{until: make(map[string]time.Time), now: time.Now}
}

// Revoke marca la sesión hasta until. Las entradas vencidas se purgan aquí.
func (m *MemoryRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, t := range m.until {
		if !t.After(now) {
			delete(m.until, id)
		}
	}
	if until.IsZero() {
		until = now.Add(24 * time.Hour)
	}
	m.until[sessionID] = until
	return nil
}

// IsRevoked indica si la sesión sigue revocada.
func (m *MemoryRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.until[sessionID]
	return ok && t.After(m.now()), nil
}
