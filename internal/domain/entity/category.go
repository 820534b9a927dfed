package entity

import "time"

// Category representa una categoría de productos. Solo lectura para la tienda;
// se administra desde el panel del proveedor.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
