package catalog_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/jhoicas/aura-storefront/internal/application/catalog"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubGateway gateway en memoria. onList se ejecuta en cada ListActiveProducts antes de responder.
type stubGateway struct {
	mu         sync.Mutex
	products   []domcatalog.ProductRow
	categories []domcatalog.CategoryRow
	nextID     int64

	productsErr error
	categoryErr error
	findRows    []domcatalog.ProductRow
	findErr     error
	relatedErr  error
	recent      []domcatalog.ProductRow
	recentErr   error
	mutationErr error
	onList      func(call int)
	// returned altera la fila que devuelven insert y update sin tocar lo almacenado.
	returned func(domcatalog.ProductRow) domcatalog.ProductRow

	listCalls int
	findCalls int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		products: []domcatalog.ProductRow{
			row(1, "Auriculares", "59.90", 1, "Electrónica"),
			row(2, "Camiseta", "19.5", 2, "Ropa"),
			row(3, "Lámpara", "34", 3, "Hogar"),
		},
		categories: []domcatalog.CategoryRow{{ID: 1, Name: "Electrónica"}, {ID: 3, Name: "Hogar"}, {ID: 2, Name: "Ropa"}},
		nextID:     4,
	}
}

func row(id int64, name, price string, categoryID int64, category string) domcatalog.ProductRow {
	active := true
	created := fmt.Sprintf("2024-01-%02dT10:00:00Z", id)
	r := domcatalog.ProductRow{ID: &id, Name: &name, Price: json.RawMessage(`"` + price + `"`), IsActive: &active, CreatedAt: &created}
	if categoryID != 0 {
		r.CategoryID = &categoryID
		r.Categories = json.RawMessage(fmt.Sprintf(`{"id":%d,"name":%q}`, categoryID, category))
	}
	return r
}

func rowWithoutName(id int64) domcatalog.ProductRow {
	return domcatalog.ProductRow{ID: &id}
}

func (g *stubGateway) setProducts(rows ...domcatalog.ProductRow) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.products = rows
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls
}

func (g *stubGateway) ListActiveProducts(_ context.Context) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	g.listCalls++
	call := g.listCalls
	rows := append([]domcatalog.ProductRow(nil), g.products...)
	err := g.productsErr
	hook := g.onList
	g.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return rows, err
}

func (g *stubGateway) ListCategories(_ context.Context) ([]domcatalog.CategoryRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domcatalog.CategoryRow(nil), g.categories...), g.categoryErr
}

func (g *stubGateway) FindProductRows(_ context.Context, _ int64) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.findCalls++
	return g.findRows, g.findErr
}

func (g *stubGateway) ListRelatedProducts(_ context.Context, categoryID, excludeID int64, limit int) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.relatedErr != nil {
		return nil, g.relatedErr
	}
	var out []domcatalog.ProductRow
	for _, r := range g.products {
		if r.CategoryID != nil && *r.CategoryID == categoryID && *r.ID != excludeID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *stubGateway) ListRecentProducts(_ context.Context, _ int) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recent, g.recentErr
}

func (g *stubGateway) InsertProduct(_ context.Context, in entity.ProductInput) (domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mutationErr != nil {
		return domcatalog.ProductRow{}, g.mutationErr
	}
	r := row(g.nextID, in.Name, in.Price.Decimal.String(), *in.CategoryID, "Electrónica")
	g.nextID++
	g.products = append(g.products, r)
	if g.returned != nil {
		return g.returned(r), nil
	}
	return r, nil
}

func (g *stubGateway) UpdateProduct(_ context.Context, id int64, patch entity.ProductPatch) (domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mutationErr != nil {
		return domcatalog.ProductRow{}, g.mutationErr
	}
	for i, r := range g.products {
		if *r.ID == id {
			if patch.Name != nil {
				name := *patch.Name
				g.products[i].Name = &name
			}
			if g.returned != nil {
				return g.returned(g.products[i]), nil
			}
			return g.products[i], nil
		}
	}
	return domcatalog.ProductRow{}, fmt.Errorf("producto %d no existe", id)
}

func (g *stubGateway) DeleteProduct(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mutationErr != nil {
		return g.mutationErr
	}
	for i, r := range g.products {
		if *r.ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			return nil
		}
	}
	return nil
}

// memoryCache caché compartida en memoria.
type memoryCache struct {
	mu    sync.Mutex
	snap  *catalog.Snapshot
	saves int
}

func (c *memoryCache) Load(_ context.Context) (*catalog.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, nil
	}
	cp := *c.snap
	return &cp, nil
}

func (c *memoryCache) Save(_ context.Context, snap *catalog.Snapshot, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *snap
	c.snap = &cp
	c.saves++
	return nil
}

func (c *memoryCache) Drop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	return nil
}

func productIDs(list []entity.Product) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}
