package repository

import (
	"context"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

// AuthGateway puerto hacia el proveedor de identidad (GoTrue o auth.users en Postgres).
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// User valida el token contra el proveedor y devuelve la sesión asociada.
	User(ctx context.Context, accessToken string) (*entity.Session, error)
}

// SessionRevocations lista de sesiones cerradas hasta que su token expira.
type SessionRevocations interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
