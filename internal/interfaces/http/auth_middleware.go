package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aura-storefront/internal/application/auth"
	"github.com/jhoicas/aura-storefront/internal/application/dto"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
)

// LocalPrincipal key en c.Locals para la sesión verificada.
const LocalPrincipal = "principal"

// SessionMiddleware valida el Bearer Token contra el caso de uso de auth y guarda el
// Principal en c.Locals. El token queda también en el contexto de usuario para que el
// gateway lo reenvíe en las mutaciones.
func SessionMiddleware(uc *auth.UseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		p, err := uc.Verify(c.UserContext(), tokenString)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalPrincipal, p)
		c.SetUserContext(repository.WithAccessToken(c.UserContext(), p.AccessToken))
		return c.Next()
	}
}

// RequireAdmin exige capacidad administrativa (después de SessionMiddleware).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if !p.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere una sesión de administración"})
		}
		return c.Next()
	}
}

// GetPrincipal devuelve la sesión verificada o nil.
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}
