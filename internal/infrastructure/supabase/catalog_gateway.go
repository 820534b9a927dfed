package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
)

var _ repository.CatalogGateway = (*CatalogGateway)(nil)

// productSelect columnas de products con la categoría embebida.
const productSelect = "id,name,description,price,image_url,image_url_2,category_id,is_active,created_at," +
	"categories(id,name,description,created_at)"

// CatalogGateway implementación de repository.CatalogGateway sobre PostgREST.
type CatalogGateway struct {
	c *Client
}

// NewCatalogGateway construye el adaptador.
func NewCatalogGateway(c *Client) *CatalogGateway {
	return &CatalogGateway{c: c}
}

func (g *CatalogGateway) ListActiveProducts(ctx context.Context) ([]catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	q.Set("is_active", "eq.true")
	q.Set("order", "id.asc")
	var rows []catalog.ProductRow
	err := g.c.do(ctx, request{op: "products.list", method: http.MethodGet, path: "/rest/v1/products", query: q}, &rows)
	return rows, err
}

func (g *CatalogGateway) ListCategories(ctx context.Context) ([]catalog.CategoryRow, error) {
	q := url.Values{}
	q.Set("select", "id,name")
	q.Set("order", "name.asc")
	var rows []catalog.CategoryRow
	err := g.c.do(ctx, request{op: "categories.list", method: http.MethodGet, path: "/rest/v1/categories", query: q}, &rows)
	return rows, err
}

func (g *CatalogGateway) FindProductRows(ctx context.Context, id int64) ([]catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	var rows []catalog.ProductRow
	err := g.c.do(ctx, request{op: "products.get", method: http.MethodGet, path: "/rest/v1/products", query: q}, &rows)
	return rows, err
}

func (g *CatalogGateway) ListRelatedProducts(ctx context.Context, categoryID, excludeID int64, limit int) ([]catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	q.Set("category_id", "eq."+strconv.FormatInt(categoryID, 10))
	q.Set("id", "neq."+strconv.FormatInt(excludeID, 10))
	q.Set("is_active", "eq.true")
	q.Set("limit", strconv.Itoa(limit))
	var rows []catalog.ProductRow
	err := g.c.do(ctx, request{op: "products.related", method: http.MethodGet, path: "/rest/v1/products", query: q}, &rows)
	return rows, err
}

func (g *CatalogGateway) ListRecentProducts(ctx context.Context, limit int) ([]catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	q.Set("is_active", "eq.true")
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))
	var rows []catalog.ProductRow
	err := g.c.do(ctx, request{op: "products.recent", method: http.MethodGet, path: "/rest/v1/products", query: q}, &rows)
	return rows, err
}

// InsertProduct POST con return=representation; PostgREST responde un arreglo.
func (g *CatalogGateway) InsertProduct(ctx context.Context, in entity.ProductInput) (catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	return g.mutate(ctx, request{
		op: "products.insert", method: http.MethodPost, path: "/rest/v1/products",
		query: q, body: []entity.ProductInput{in},
	})
}

func (g *CatalogGateway) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (catalog.ProductRow, error) {
	q := url.Values{}
	q.Set("select", productSelect)
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return g.mutate(ctx, request{
		op: "products.update", method: http.MethodPatch, path: "/rest/v1/products",
		query: q, body: patch,
	})
}

func (g *CatalogGateway) DeleteProduct(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return g.c.do(ctx, request{
		op: "products.delete", method: http.MethodDelete, path: "/rest/v1/products",
		query: q, bearer: repository.AccessToken(ctx),
	}, nil)
}

// mutate ejecuta la mutación con el token del usuario (RLS) y devuelve la primera fila.
func (g *CatalogGateway) mutate(ctx context.Context, r request) (catalog.ProductRow, error) {
	r.bearer = repository.AccessToken(ctx)
	r.headers = map[string]string{"Prefer": "return=representation"}
	var rows []catalog.ProductRow
	if err := g.c.do(ctx, r, &rows); err != nil {
		return catalog.ProductRow{}, err
	}
	if len(rows) == 0 {
		// Sin filas: el id no existe o RLS ocultó el resultado.
		return catalog.ProductRow{}, &domain.GatewayError{
			Op: r.op, Status: http.StatusNotFound, Code: "PGRST116",
			Message: "El producto no existe o no tienes permisos para modificarlo.",
			Err:     domain.ErrNotFound,
		}
	}
	return rows[0], nil
}
