package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppMetadata metadatos controlados por el proveedor (no editables por el usuario).
// GoTrue los publica en el claim app_metadata; los roles se leen de role o roles.
type AppMetadata struct {
	Provider string   `json:"provider,omitempty"`
	Role     string   `json:"role,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Claims forma de los access tokens de Supabase Auth.
// Role es el rol de Postgres ("authenticated"), no un rol de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	SessionID   string      `json:"session_id,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// RoleSet une role y roles, sin vacíos ni duplicados.
func (m AppMetadata) RoleSet() []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range append([]string{m.Role}, m.Roles...) {
		if r != "" && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// AppRoles roles de aplicación declarados en app_metadata.
func (c *Claims) AppRoles() []string {
	return c.AppMetadata.RoleSet()
}

// GenerateParams datos para emitir un token con la misma forma que GoTrue.
type GenerateParams struct {
	Secret     string
	Issuer     string
	UserID     string
	Email      string
	SessionID  string
	Roles      []string
	ExpMinutes int
}

// Generate firma un access token HS256.
func Generate(p GenerateParams) (string, time.Time, error) {
	if p.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	exp := now.Add(time.Duration(p.ExpMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.UserID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:       p.Email,
		Role:        "authenticated",
		SessionID:   p.SessionID,
		AppMetadata: AppMetadata{Provider: "email", Roles: p.Roles},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("jwt: sub vacío")
	}
	return claims, nil
}

// ParseUnverified lee los claims sin validar la firma. Solo para tokens que el
// proveedor ya aceptó (p. ej. tras GET /auth/v1/user).
func ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
