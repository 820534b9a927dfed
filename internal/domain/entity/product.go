package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto activo del catálogo, ya normalizado desde la fila del gateway.
// Price puede venir vacío o inválido (Valid=false): se muestra como "Precio no disponible"
// y para ordenar o filtrar por precio cuenta como 0.
type Product struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Price             decimal.NullDecimal `json:"price"`
	ImageURLPrimary   *string             `json:"image_url"`
	ImageURLSecondary *string             `json:"image_url_2"`
	CategoryID        *int64              `json:"category_id"`
	Category          *Category           `json:"category"`
	IsActive          *bool               `json:"is_active"`
	CreatedAt         *time.Time          `json:"created_at"`
}

// CategoryName devuelve el nombre de la categoría resuelta o "" si no tiene.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// ProductInput datos para crear un producto en el gateway.
type ProductInput struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Price             decimal.NullDecimal `json:"price"`
	ImageURLPrimary   *string             `json:"image_url,omitempty"`
	ImageURLSecondary *string             `json:"image_url_2,omitempty"`
	CategoryID        *int64              `json:"category_id"`
	IsActive          bool                `json:"is_active"`
}

// ProductPatch actualización parcial; solo se envían los campos no nil.
type ProductPatch struct {
	Name              *string              `json:"name,omitempty"`
	Description       *string              `json:"description,omitempty"`
	Price             *decimal.NullDecimal `json:"price,omitempty"`
	ImageURLPrimary   *string              `json:"image_url,omitempty"`
	ImageURLSecondary *string              `json:"image_url_2,omitempty"`
	CategoryID        *int64               `json:"category_id,omitempty"`
	IsActive          *bool                `json:"is_active,omitempty"`
}

// IsEmpty indica si el patch no modifica ningún campo.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.ImageURLPrimary == nil && p.ImageURLSecondary == nil &&
		p.CategoryID == nil && p.IsActive == nil
}
