package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/jwt"
)

var _ repository.AuthGateway = (*AuthGateway)(nil)

// AuthGateway implementación de repository.AuthGateway sobre GoTrue.
type AuthGateway struct {
	c *Client
}

// NewAuthGateway construye el adaptador.
func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

type goTrueUser struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	AppMetadata jwt.AppMetadata `json:"app_metadata"`
}

type goTrueSession struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	User         goTrueUser `json:"user"`
}

// SignIn grant_type=password. Credenciales inválidas llegan como *domain.GatewayError
// con el mensaje de GoTrue ("Invalid login credentials").
func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	q := url.Values{}
	q.Set("grant_type", "password")
	var out goTrueSession
	err := g.c.do(ctx, request{
		op: "auth.sign_in", method: http.MethodPost, path: "/auth/v1/token", query: q,
		body: map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}

	s := &entity.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         toSessionUser(out.User),
	}
	switch {
	case out.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(out.ExpiresAt, 0)
	case out.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	if claims, err := jwt.ParseUnverified(out.AccessToken); err == nil {
		s.SessionID = claims.SessionID
	}
	return s, nil
}

// SignOut revoca la sesión en GoTrue (scope local).
func (g *AuthGateway) SignOut(ctx context.Context, accessToken string) error {
	return g.c.do(ctx, request{
		op: "auth.sign_out", method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken,
	}, nil)
}

// User valida el token con GoTrue. La sesión y la expiración se leen de los claims
// una vez que GoTrue aceptó el token.
func (g *AuthGateway) User(ctx context.Context, accessToken string) (*entity.Session, error) {
	var u goTrueUser
	if err := g.c.do(ctx, request{
		op: "auth.user", method: http.MethodGet, path: "/auth/v1/user", bearer: accessToken,
	}, &u); err != nil {
		return nil, err
	}
	s := &entity.Session{AccessToken: accessToken, User: toSessionUser(u)}
	if claims, err := jwt.ParseUnverified(accessToken); err == nil {
		s.SessionID = claims.SessionID
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	return s, nil
}

func toSessionUser(u goTrueUser) entity.SessionUser {
	return entity.SessionUser{ID: u.ID, Email: u.Email, Roles: u.AppMetadata.RoleSet()}
}
