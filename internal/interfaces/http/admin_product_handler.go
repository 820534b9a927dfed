package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/application/dto"
)

// AdminProductHandler altas, cambios y bajas de productos (requiere sesión admin).
type AdminProductHandler struct {
	relay *appcatalog.MutationRelay
}

// NewAdminProductHandler construye el handler.
func NewAdminProductHandler(relay *appcatalog.MutationRelay) *AdminProductHandler {
	return &AdminProductHandler{relay: relay}
}

// Create godoc
// @Summary      Crear producto
// @Description  Tras el alta el catálogo se recarga completo.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, price y category_id son requeridos"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.MutationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.MutationErrorResponse
// @Router       /api/admin/products [post]
func (h *AdminProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input, missing := in.ToInput()
	if missing != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MutationErrorResponse{
			Code: "VALIDATION", Message: missing + " es requerido", Input: in,
		})
	}
	out, err := h.relay.CreateProduct(c.UserContext(), input)
	if err != nil {
		return writeMutationError(c, err, in)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductFromEntity(*out))
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.MutationErrorResponse
// @Failure      404   {object}  dto.MutationErrorResponse
// @Failure      502   {object}  dto.MutationErrorResponse
// @Router       /api/admin/products/{id} [patch]
func (h *AdminProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.relay.UpdateProduct(c.UserContext(), pathID(c), in.ToPatch())
	if err != nil {
		return writeMutationError(c, err, in)
	}
	return c.JSON(dto.ProductFromEntity(*out))
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         admin
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      400  {object}  dto.MutationErrorResponse
// @Failure      502  {object}  dto.MutationErrorResponse
// @Router       /api/admin/products/{id} [delete]
func (h *AdminProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.relay.DeleteProduct(c.UserContext(), pathID(c)); err != nil {
		return writeMutationError(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pathID 0 si no es un entero; el relay lo rechaza como producto no válido.
func pathID(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
