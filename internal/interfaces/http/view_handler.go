package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/application/dto"
	"github.com/jhoicas/aura-storefront/internal/application/pages"
	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/infrastructure/sitemap"
)

const exportTitle = "Catálogo AURA"

// CatalogPDFGenerator genera la lista de precios en PDF.
type CatalogPDFGenerator interface {
	GenerateCatalogPDF(ctx context.Context, title string, products []entity.Product) ([]byte, error)
}

// ViewHandler vistas públicas de la tienda.
type ViewHandler struct {
	svc     *appcatalog.Service
	pdf     CatalogPDFGenerator
	baseURL string
}

// NewViewHandler baseURL es la URL pública usada en sitemap.xml.
func NewViewHandler(svc *appcatalog.Service, pdf CatalogPDFGenerator, baseURL string) *ViewHandler {
	return &ViewHandler{svc: svc, pdf: pdf, baseURL: baseURL}
}

// Home godoc
// @Summary      Vista de inicio
// @Description  Productos más recientes; si el gateway falla devuelve los destacados fijos (fallback=true).
// @Tags         views
// @Produce      json
// @Success      200  {object}  dto.HomeView
// @Router       /api/views/home [get]
func (h *ViewHandler) Home(c *fiber.Ctx) error {
	return c.JSON(h.svc.Home(c.UserContext()))
}

// Catalog godoc
// @Summary      Vista de catálogo
// @Description  Filtro por categoría (nombre), búsqueda, orden y rango de precio, en ese orden.
// @Tags         views
// @Produce      json
// @Param        category   query  []string  false  "Nombre de categoría (repetible)"  collectionFormat(multi)
// @Param        q          query  string    false  "Texto en nombre o descripción"
// @Param        sort       query  string    false  "relevance | recent | price-asc | price-desc | name"
// @Param        min_price  query  number    false  "Precio mínimo (incluido)"
// @Param        max_price  query  number    false  "Precio máximo (incluido)"
// @Success      200  {object}  dto.CatalogView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/views/catalog [get]
func (h *ViewHandler) Catalog(c *fiber.Ctx) error {
	params, err := catalogParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Catalog(c.UserContext(), params)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductDetail godoc
// @Summary      Detalle de producto
// @Tags         views
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductDetailView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/views/products/{id} [get]
func (h *ViewHandler) ProductDetail(c *fiber.Ctx) error {
	out, err := h.svc.ProductDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// About godoc
// @Summary      Acerca de
// @Tags         views
// @Produce      json
// @Success      200  {object}  dto.AboutView
// @Router       /api/views/about [get]
func (h *ViewHandler) About(c *fiber.Ctx) error {
	return c.JSON(pages.About())
}

// Contact godoc
// @Summary      Contacto
// @Tags         views
// @Produce      json
// @Success      200  {object}  dto.ContactView
// @Router       /api/views/contact [get]
func (h *ViewHandler) Contact(c *fiber.Ctx) error {
	return c.JSON(pages.Contact())
}

// ExportPDF godoc
// @Summary      Lista de precios en PDF
// @Description  Mismos parámetros que la vista de catálogo.
// @Tags         views
// @Produce      application/pdf
// @Param        category   query  []string  false  "Nombre de categoría (repetible)"  collectionFormat(multi)
// @Param        q          query  string    false  "Texto en nombre o descripción"
// @Param        sort       query  string    false  "relevance | recent | price-asc | price-desc | name"
// @Param        min_price  query  number    false  "Precio mínimo (incluido)"
// @Param        max_price  query  number    false  "Precio máximo (incluido)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/catalog/export.pdf [get]
func (h *ViewHandler) ExportPDF(c *fiber.Ctx) error {
	params, err := catalogParams(c)
	if err != nil {
		return writeError(c, err)
	}
	products, err := h.svc.VisibleProducts(c.UserContext(), params)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.pdf.GenerateCatalogPDF(c.UserContext(), exportTitle, products)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: "no se pudo generar el PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalogo-aura.pdf"`)
	return c.Send(out)
}

// Sitemap godoc
// @Summary      sitemap.xml
// @Tags         views
// @Produce      xml
// @Success      200  {string}  string
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /sitemap.xml [get]
func (h *ViewHandler) Sitemap(c *fiber.Ctx) error {
	products, err := h.svc.ActiveProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := sitemap.Build(h.baseURL, products)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}

// catalogParams lee los filtros de la query. category se repite una vez por categoría.
func catalogParams(c *fiber.Ctx) (catalog.Params, error) {
	var p catalog.Params
	for _, raw := range c.Context().QueryArgs().PeekMulti("category") {
		if name := strings.TrimSpace(string(raw)); name != "" {
			p.SelectedCategoryNames = append(p.SelectedCategoryNames, name)
		}
	}
	p.Query = c.Query("q")

	sortKey, err := catalog.ParseSortKey(c.Query("sort"))
	if err != nil {
		return catalog.Params{}, err
	}
	p.Sort = sortKey

	if p.MinPrice, err = priceBound(c.Query("min_price"), "min_price"); err != nil {
		return catalog.Params{}, err
	}
	if p.MaxPrice, err = priceBound(c.Query("max_price"), "max_price"); err != nil {
		return catalog.Params{}, err
	}
	return p, nil
}

// priceBound vacío = sin límite.
func priceBound(raw, field string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s debe ser un número", domain.ErrInvalidInput, field)
	}
	return decimal.NewNullDecimal(d), nil
}
