package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aura-storefront/internal/application/dto"
	"github.com/jhoicas/aura-storefront/internal/domain"
)

const msgLoginFallback = "Error al iniciar sesión"

// errorStatus traduce errores de dominio a código HTTP, código de error y mensaje visible.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrGatewayNotConfigured):
		return fiber.StatusServiceUnavailable, "GATEWAY_NOT_CONFIGURED", "El servicio de datos no está configurado."
	case errors.Is(err, domain.ErrInvalidProduct):
		return fiber.StatusBadRequest, "INVALID_PRODUCT", domain.ErrInvalidProduct.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", domain.ErrProductNotFound.Error()
	case errors.Is(err, domain.ErrLoadFailed):
		return fiber.StatusBadGateway, "LOAD_FAILED", domain.ErrLoadFailed.Error()
	case errors.Is(err, domain.ErrSessionRevoked):
		return fiber.StatusUnauthorized, "SESSION_REVOKED", "La sesión fue cerrada; inicia sesión de nuevo."
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "token inválido o expirado"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "se requiere una sesión de administración"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "error interno"
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// writeMutationError responde a una mutación fallida devolviendo lo enviado.
// Los errores del gateway se reportan como 502 con su mensaje, salvo fila inexistente (404).
func writeMutationError(c *fiber.Ctx, err error, input interface{}) error {
	var ge *domain.GatewayError
	status, code, msg := errorStatus(err)
	switch {
	case errors.Is(err, domain.ErrGatewayNotConfigured),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidInput):
	case errors.As(err, &ge) && errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", "producto no encontrado"
	case errors.As(err, &ge):
		status, code, msg = fiber.StatusBadGateway, "MUTATION_FAILED", gatewayMessage(ge, "No se pudo guardar el producto.")
	}
	return c.Status(status).JSON(dto.MutationErrorResponse{Code: code, Message: msg, Input: input})
}

// gatewayMessage texto del proveedor o fallback.
func gatewayMessage(ge *domain.GatewayError, fallback string) string {
	if ge != nil && ge.Message != "" {
		return ge.Message
	}
	return fallback
}
