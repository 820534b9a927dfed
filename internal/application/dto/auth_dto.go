package dto

import "time"

// LoginRequest credenciales de administración.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserResponse usuario de la sesión y su capacidad administrativa.
type SessionUserResponse struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"is_admin"`
}

// LoginResponse sesión emitida por el proveedor de identidad.
type LoginResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         SessionUserResponse `json:"user"`
}

// SessionResponse estado de la sesión actual.
type SessionResponse struct {
	ExpiresAt time.Time           `json:"expires_at"`
	User      SessionUserResponse `json:"user"`
}
