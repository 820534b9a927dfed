package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
)

var _ repository.CatalogGateway = (*CatalogGateway)(nil)

// productJSON arma cada fila con la misma forma que devuelve PostgREST
// (categoría embebida como objeto o null), así la normalización es la misma para ambos drivers.
const productJSON = `json_build_object(
	'id', p.id, 'name', p.name, 'description', p.description, 'price', p.price,
	'image_url', p.image_url, 'image_url_2', p.image_url_2, 'category_id', p.category_id,
	'is_active', p.is_active, 'created_at', p.created_at,
	'categories', CASE WHEN c.id IS NULL THEN NULL ELSE json_build_object(
		'id', c.id, 'name', c.name, 'description', c.description, 'created_at', c.created_at) END)`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// CatalogGateway implementación de repository.CatalogGateway con conexión directa a Postgres.
// Las políticas RLS no aplican: la autorización de mutaciones la hace la capa HTTP.
type CatalogGateway struct {
	q Querier
}

// NewCatalogGateway construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogGateway(q Querier) *CatalogGateway {
	return &CatalogGateway{q: q}
}

func (g *CatalogGateway) ListActiveProducts(ctx context.Context) ([]catalog.ProductRow, error) {
	return g.queryProducts(ctx, "products.list",
		`SELECT `+productJSON+productFrom+` WHERE p.is_active = true ORDER BY p.id ASC`)
}

func (g *CatalogGateway) ListCategories(ctx context.Context) ([]catalog.CategoryRow, error) {
	rows, err := g.q.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, gatewayError("categories.list", err)
	}
	defer rows.Close()

	var out []catalog.CategoryRow
	for rows.Next() {
		var c catalog.CategoryRow
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, gatewayError("categories.list", err)
		}
		out = append(out, c)
	}
	return out, gatewayError("categories.list", rows.Err())
}

func (g *CatalogGateway) FindProductRows(ctx context.Context, id int64) ([]catalog.ProductRow, error) {
	return g.queryProducts(ctx, "products.get",
		`SELECT `+productJSON+productFrom+` WHERE p.id = $1`, id)
}

func (g *CatalogGateway) ListRelatedProducts(ctx context.Context, categoryID, excludeID int64, limit int) ([]catalog.ProductRow, error) {
	return g.queryProducts(ctx, "products.related",
		`SELECT `+productJSON+productFrom+`
		 WHERE p.category_id = $1 AND p.id <> $2 AND p.is_active = true
		 LIMIT $3`, categoryID, excludeID, limit)
}

func (g *CatalogGateway) ListRecentProducts(ctx context.Context, limit int) ([]catalog.ProductRow, error) {
	return g.queryProducts(ctx, "products.recent",
		`SELECT `+productJSON+productFrom+`
		 WHERE p.is_active = true ORDER BY p.created_at DESC NULLS LAST LIMIT $1`, limit)
}

func (g *CatalogGateway) InsertProduct(ctx context.Context, in entity.ProductInput) (catalog.ProductRow, error) {
	query := `
		WITH p AS (
			INSERT INTO products (name, description, price, image_url, image_url_2, category_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + productJSON + ` FROM p LEFT JOIN categories c ON c.id = p.category_id`
	return g.queryOne(ctx, "products.insert", query,
		in.Name, in.Description, in.Price, in.ImageURLPrimary, in.ImageURLSecondary, in.CategoryID, in.IsActive)
}

func (g *CatalogGateway) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (catalog.ProductRow, error) {
	set, args := updateAssignments(patch)
	if len(set) == 0 {
		return catalog.ProductRow{}, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		WITH p AS (
			UPDATE products SET %s WHERE id = $%d
			RETURNING *
		)
		SELECT `+productJSON+` FROM p LEFT JOIN categories c ON c.id = p.category_id`,
		strings.Join(set, ", "), len(args))
	return g.queryOne(ctx, "products.update", query, args...)
}

func (g *CatalogGateway) DeleteProduct(ctx context.Context, id int64) error {
	_, err := g.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return gatewayError("products.delete", err)
}

// updateAssignments SET col = $n solo para los campos presentes, en orden fijo.
func updateAssignments(patch entity.ProductPatch) ([]string, []any) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.ImageURLPrimary != nil {
		add("image_url", *patch.ImageURLPrimary)
	}
	if patch.ImageURLSecondary != nil {
		add("image_url_2", *patch.ImageURLSecondary)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	return set, args
}

func (g *CatalogGateway) queryProducts(ctx context.Context, op, query string, args ...any) ([]catalog.ProductRow, error) {
	rows, err := g.q.Query(ctx, query, args...)
	if err != nil {
		return nil, gatewayError(op, err)
	}
	defer rows.Close()

	var out []catalog.ProductRow
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, gatewayError(op, err)
		}
		r, err := decodeProductRow(raw)
		if err != nil {
			return nil, gatewayError(op, err)
		}
		out = append(out, r)
	}
	return out, gatewayError(op, rows.Err())
}

func (g *CatalogGateway) queryOne(ctx context.Context, op, query string, args ...any) (catalog.ProductRow, error) {
	var raw []byte
	if err := g.q.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return catalog.ProductRow{}, gatewayError(op, err)
	}
	r, err := decodeProductRow(raw)
	if err != nil {
		return catalog.ProductRow{}, gatewayError(op, err)
	}
	return r, nil
}

func decodeProductRow(raw []byte) (catalog.ProductRow, error) {
	var r catalog.ProductRow
	if err := json.Unmarshal(raw, &r); err != nil {
		return catalog.ProductRow{}, fmt.Errorf("decodificar fila: %w", err)
	}
	return r, nil
}
