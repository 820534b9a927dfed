package entity

import "time"

// SessionUser usuario autenticado según el proveedor de identidad.
type SessionUser struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"` // app_metadata.role / app_metadata.roles
}

// HasRole indica si el usuario tiene el rol indicado.
func (u SessionUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session sesión emitida por el proveedor de autenticación.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	SessionID    string
	User         SessionUser
}
