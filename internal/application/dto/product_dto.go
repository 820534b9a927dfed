package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

// CategoryResponse categoría embebida en un producto.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductResponse producto listo para mostrar. Price es null si el gateway no trae un precio válido;
// PriceLabel siempre trae el texto a mostrar.
type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       *decimal.Decimal  `json:"price"`
	PriceLabel  string            `json:"price_label"`
	ImageURL    *string           `json:"image_url"`
	ImageURL2   *string           `json:"image_url_2"`
	CategoryID  *int64            `json:"category_id"`
	Category    *CategoryResponse `json:"category"`
	CreatedAt   *time.Time        `json:"created_at"`
}

// ProductFromEntity convierte un producto normalizado.
func ProductFromEntity(p entity.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceLabel:  catalog.FormatPrice(p.Price),
		ImageURL:    p.ImageURLPrimary,
		ImageURL2:   p.ImageURLSecondary,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
	if p.Price.Valid {
		d := p.Price.Decimal
		out.Price = &d
	}
	if p.Category != nil {
		out.Category = &CategoryResponse{ID: p.Category.ID, Name: p.Category.Name}
	}
	return out
}

// ProductsFromEntities convierte una lista; nunca devuelve nil.
func ProductsFromEntities(list []entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ProductFromEntity(p))
	}
	return out
}

// CreateProductRequest cuerpo de alta de producto (admin). price acepta número o string.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	ImageURL2   *string          `json:"image_url_2"`
	CategoryID  *int64           `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

// ToInput valida campos obligatorios y construye la entrada del gateway.
// Devuelve el nombre del primer campo que falta.
func (r CreateProductRequest) ToInput() (entity.ProductInput, string) {
	switch {
	case r.Name == "":
		return entity.ProductInput{}, "name"
	case r.Price == nil:
		return entity.ProductInput{}, "price"
	case r.CategoryID == nil:
		return entity.ProductInput{}, "category_id"
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return entity.ProductInput{
		Name:              r.Name,
		Description:       r.Description,
		Price:             decimal.NewNullDecimal(*r.Price),
		ImageURLPrimary:   r.ImageURL,
		ImageURLSecondary: r.ImageURL2,
		CategoryID:        r.CategoryID,
		IsActive:          active,
	}, ""
}

// UpdateProductRequest actualización parcial (admin); solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	ImageURL2   *string          `json:"image_url_2"`
	CategoryID  *int64           `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

// ToPatch construye el patch del gateway.
func (r UpdateProductRequest) ToPatch() entity.ProductPatch {
	patch := entity.ProductPatch{
		Name:              r.Name,
		Description:       r.Description,
		ImageURLPrimary:   r.ImageURL,
		ImageURLSecondary: r.ImageURL2,
		CategoryID:        r.CategoryID,
		IsActive:          r.IsActive,
	}
	if r.Price != nil {
		p := decimal.NewNullDecimal(*r.Price)
		patch.Price = &p
	}
	return patch
}
