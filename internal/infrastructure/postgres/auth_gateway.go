package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/jwt"
)

var _ repository.AuthGateway = (*AuthGateway)(nil)

// invalidCredentials mismo código y mensaje que GoTrue.
func invalidCredentials() error {
	return &domain.GatewayError{Op: "auth.sign_in", Status: http.StatusBadRequest,
		Code: "invalid_credentials", Message: "Invalid login credentials", Err: domain.ErrUnauthorized}
}

// TokenConfig firma de los tokens emitidos; el secreto es el JWT secret del proyecto.
type TokenConfig struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// AuthGateway autentica contra auth.users (hash bcrypt de GoTrue) y emite tokens con
// los mismos claims que GoTrue. Los tokens no tienen estado en la base de datos.
type AuthGateway struct {
	q   Querier
	cfg TokenConfig
}

// NewAuthGateway construye el adaptador.
func NewAuthGateway(q Querier, cfg TokenConfig) *AuthGateway {
	return &AuthGateway{q: q, cfg: cfg}
}

func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	query := `
		SELECT id::text, email, encrypted_password, COALESCE(raw_app_meta_data, '{}'::jsonb)
		FROM auth.users
		WHERE lower(email) = lower($1)
		  AND deleted_at IS NULL
		  AND (banned_until IS NULL OR banned_until < now())`
	var (
		id, mail, hash string
		meta           []byte
	)
	err := g.q.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&id, &mail, &hash, &meta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, gatewayError("auth.sign_in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	var appMeta jwt.AppMetadata
	if err := json.Unmarshal(meta, &appMeta); err != nil {
		return nil, fmt.Errorf("app_metadata de %s: %w", id, err)
	}
	user := entity.SessionUser{ID: id, Email: mail, Roles: appMeta.RoleSet()}
	sessionID := uuid.New().String()
	token, exp, err := jwt.Generate(jwt.GenerateParams{
		Secret: g.cfg.Secret, Issuer: g.cfg.Issuer, UserID: id, Email: mail,
		SessionID: sessionID, Roles: user.Roles, ExpMinutes: g.cfg.ExpMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &entity.Session{AccessToken: token, ExpiresAt: exp, SessionID: sessionID, User: user}, nil
}

// SignOut no hay estado que borrar; la revocación la registra el caso de uso.
func (g *AuthGateway) SignOut(_ context.Context, _ string) error {
	return nil
}

func (g *AuthGateway) User(_ context.Context, accessToken string) (*entity.Session, error) {
	claims, err := jwt.Parse(g.cfg.Secret, accessToken)
	if err != nil {
		return nil, &domain.GatewayError{Op: "auth.user", Status: http.StatusUnauthorized, Message: "invalid JWT", Err: err}
	}
	s := &entity.Session{
		AccessToken: accessToken,
		SessionID:   claims.SessionID,
		User:        entity.SessionUser{ID: claims.Subject, Email: claims.Email, Roles: claims.AppRoles()},
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
