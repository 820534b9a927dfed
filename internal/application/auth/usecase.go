package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/aura-storefront/internal/application/dto"
	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/jwt"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

// Config verificación de tokens y política de administración.
type Config struct {
	// JWTSecret secreto del proyecto. Vacío: cada token se valida contra el proveedor.
	JWTSecret string
	Policy    AdminPolicy
}

// Principal sesión verificada de una petición.
type Principal struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	User        entity.SessionUser
	IsAdmin     bool
}

// UseCase casos de uso de sesión: login, logout y verificación de token.
type UseCase struct {
	gateway     repository.AuthGateway
	revocations repository.SessionRevocations
	cfg         Config
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(gateway repository.AuthGateway, revocations repository.SessionRevocations, cfg Config, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{gateway: gateway, revocations: revocations, cfg: cfg, log: log.Named("auth")}
}

// SignIn delega en el proveedor. Los errores del proveedor se devuelven tal cual
// (*domain.GatewayError) para mostrar su mensaje.
func (uc *UseCase) SignIn(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	session, err := uc.gateway.SignIn(ctx, email, password)
	if err != nil {
		uc.log.Warn().Err(err).Str("email", email).Msg("login rechazado")
		return nil, err
	}
	uc.log.Info().Str("user_id", session.User.ID).Msg("sesión iniciada")
	return &dto.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		User:         uc.userResponse(session.User),
	}, nil
}

// SignOut cierra la sesión en el proveedor y la marca como revocada hasta que expire su token.
// Un fallo del proveedor no impide la revocación local.
func (uc *UseCase) SignOut(ctx context.Context, p *Principal) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	if err := uc.gateway.SignOut(ctx, p.AccessToken); err != nil {
		uc.log.Warn().Err(err).Str("user_id", p.User.ID).Msg("logout en el proveedor falló")
	}
	if p.SessionID == "" || uc.revocations == nil {
		return nil
	}
	if err := uc.revocations.Revoke(ctx, p.SessionID, p.ExpiresAt); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// Verify valida el access token y comprueba que la sesión no esté revocada.
func (uc *UseCase) Verify(ctx context.Context, accessToken string) (*Principal, error) {
	p, err := uc.principal(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if p.SessionID != "" && uc.revocations != nil {
		revoked, err := uc.revocations.IsRevoked(ctx, p.SessionID)
		if err != nil {
			return nil, fmt.Errorf("consultar revocaciones: %w", err)
		}
		if revoked {
			return nil, domain.ErrSessionRevoked
		}
	}
	return p, nil
}

// Session describe la sesión verificada.
func (uc *UseCase) Session(p *Principal) dto.SessionResponse {
	return dto.SessionResponse{ExpiresAt: p.ExpiresAt, User: uc.userResponse(p.User)}
}

func (uc *UseCase) principal(ctx context.Context, accessToken string) (*Principal, error) {
	if uc.cfg.JWTSecret != "" {
		claims, err := jwt.Parse(uc.cfg.JWTSecret, accessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		user := entity.SessionUser{ID: claims.Subject, Email: claims.Email, Roles: claims.AppRoles()}
		p := &Principal{
			AccessToken: accessToken,
			SessionID:   claims.SessionID,
			User:        user,
			IsAdmin:     uc.cfg.Policy.IsAdmin(user),
		}
		if claims.ExpiresAt != nil {
			p.ExpiresAt = claims.ExpiresAt.Time
		}
		return p, nil
	}

	session, err := uc.gateway.User(ctx, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrGatewayNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return &Principal{
		AccessToken: accessToken,
		SessionID:   session.SessionID,
		ExpiresAt:   session.ExpiresAt,
		User:        session.User,
		IsAdmin:     uc.cfg.Policy.IsAdmin(session.User),
	}, nil
}

func (uc *UseCase) userResponse(u entity.SessionUser) dto.SessionUserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return dto.SessionUserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Roles:   roles,
		IsAdmin: uc.cfg.Policy.IsAdmin(u),
	}
}
