// Package catalog contiene la lógica pura del catálogo: normalización de filas del gateway,
// coerción de precios y el pipeline de consulta (filtros + ordenación).
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRow fila de products tal como la devuelve el gateway, con la relación categories embebida.
// Categories puede ser un objeto, un arreglo de un elemento o null según el proveedor.
type ProductRow struct {
	ID          *int64          `json:"id"`
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
	ImageURL    *string         `json:"image_url"`
	ImageURL2   *string         `json:"image_url_2"`
	CategoryID  *int64          `json:"category_id"`
	IsActive    *bool           `json:"is_active"`
	CreatedAt   *string         `json:"created_at"`
	Categories  json.RawMessage `json:"categories"`
}

// CategoryRow categoría embebida o listada por el gateway.
type CategoryRow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`
}

// timestampLayouts formatos aceptados para created_at (PostgREST devuelve RFC3339; Postgres en texto usa espacio).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// NormalizeProductRow convierte una fila del gateway en Product.
// Solo falla si la fila no trae id o name utilizables; el resto de campos son opcionales.
func NormalizeProductRow(row ProductRow) (entity.Product, error) {
	if row.ID == nil {
		return entity.Product{}, fmt.Errorf("%w: falta id", domain.ErrInvalidRow)
	}
	if row.Name == nil || strings.TrimSpace(*row.Name) == "" {
		return entity.Product{}, fmt.Errorf("%w: producto %d sin nombre", domain.ErrInvalidRow, *row.ID)
	}
	p := entity.Product{
		ID:                *row.ID,
		Name:              *row.Name,
		Price:             CoercePrice(row.Price),
		ImageURLPrimary:   row.ImageURL,
		ImageURLSecondary: row.ImageURL2,
		CategoryID:        row.CategoryID,
		IsActive:          row.IsActive,
		CreatedAt:         ParseTimestamp(row.CreatedAt),
	}
	if row.Description != nil {
		p.Description = *row.Description
	}
	// La categoría embebida debe ser la de category_id; si no coincide se descarta.
	if c := flattenCategory(row.Categories); c != nil && row.CategoryID != nil && c.ID == *row.CategoryID {
		p.Category = c
	}
	return p, nil
}

// NormalizeProductRows normaliza un lote; la primera fila inválida hace fallar la carga completa.
func NormalizeProductRows(rows []ProductRow) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(rows))
	for i, r := range rows {
		p, err := NormalizeProductRow(r)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// NormalizeCategoryRow convierte una categoría del gateway.
func NormalizeCategoryRow(row CategoryRow) entity.Category {
	return entity.Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   ParseTimestamp(row.CreatedAt),
	}
}

// flattenCategory acepta objeto, arreglo (toma el primero) o cualquier otra cosa (nil).
func flattenCategory(raw json.RawMessage) *entity.Category {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '[':
		var list []CategoryRow
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return nil
		}
		c := NormalizeCategoryRow(list[0])
		return &c
	case '{':
		var row CategoryRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil
		}
		c := NormalizeCategoryRow(row)
		return &c
	default:
		return nil
	}
}

// ParseTimestamp interpreta created_at; vacío o no interpretable devuelve nil.
func ParseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// CoercePrice convierte el precio crudo (número, string numérico o null) en NullDecimal.
// Strings vacíos o no numéricos quedan como precio no disponible.
func CoercePrice(raw json.RawMessage) decimal.NullDecimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.NullDecimal{}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
