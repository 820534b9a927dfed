package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aura-storefront/internal/application/auth"
	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	apphttp "github.com/jhoicas/aura-storefront/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/aura-storefront/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "aura-storefront-test"
	testExpMin    = 60
	testBaseURL   = "https://aura.test"
)

// catalogStub gateway de catálogo en memoria.
type catalogStub struct {
	mu         sync.Mutex
	products   []domcatalog.ProductRow
	categories []domcatalog.CategoryRow
	nextID     int64

	listErr     error
	findRows    []domcatalog.ProductRow
	recentErr   error
	mutationErr error

	lastToken string
}

func newCatalogStub() *catalogStub {
	return &catalogStub{
		products: []domcatalog.ProductRow{
			productRow(1, "Auriculares", "59.90", 1, "Electrónica"),
			productRow(2, "Camiseta", "19.5", 2, "Ropa"),
			productRow(3, "Lámpara", "34", 3, "Hogar"),
		},
		categories: []domcatalog.CategoryRow{{ID: 1, Name: "Electrónica"}, {ID: 3, Name: "Hogar"}, {ID: 2, Name: "Ropa"}},
		nextID:     4,
	}
}

func productRow(id int64, name, price string, categoryID int64, category string) domcatalog.ProductRow {
	active := true
	created := fmt.Sprintf("2024-01-%02dT10:00:00Z", id)
	return domcatalog.ProductRow{
		ID: &id, Name: &name, Price: json.RawMessage(`"` + price + `"`),
		IsActive: &active, CreatedAt: &created, CategoryID: &categoryID,
		Categories: json.RawMessage(fmt.Sprintf(`{"id":%d,"name":%q}`, categoryID, category)),
	}
}

func (g *catalogStub) ListActiveProducts(context.Context) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]domcatalog.ProductRow(nil), g.products...), nil
}

func (g *catalogStub) ListCategories(context.Context) ([]domcatalog.CategoryRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domcatalog.CategoryRow(nil), g.categories...), nil
}

func (g *catalogStub) FindProductRows(_ context.Context, id int64) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.findRows != nil {
		return g.findRows, nil
	}
	for _, r := range g.products {
		if *r.ID == id {
			return []domcatalog.ProductRow{r}, nil
		}
	}
	return nil, nil
}

func (g *catalogStub) ListRelatedProducts(_ context.Context, categoryID, excludeID int64, limit int) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []domcatalog.ProductRow
	for _, r := range g.products {
		if *r.CategoryID == categoryID && *r.ID != excludeID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *catalogStub) ListRecentProducts(_ context.Context, limit int) ([]domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recentErr != nil {
		return nil, g.recentErr
	}
	out := make([]domcatalog.ProductRow, 0, limit)
	for i := len(g.products) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, g.products[i])
	}
	return out, nil
}

func (g *catalogStub) InsertProduct(ctx context.Context, in entity.ProductInput) (domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastToken = repository.AccessToken(ctx)
	if g.mutationErr != nil {
		return domcatalog.ProductRow{}, g.mutationErr
	}
	r := productRow(g.nextID, in.Name, in.Price.Decimal.String(), *in.CategoryID, "Nueva")
	g.nextID++
	g.products = append(g.products, r)
	return r, nil
}

func (g *catalogStub) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (domcatalog.ProductRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastToken = repository.AccessToken(ctx)
	if g.mutationErr != nil {
		return domcatalog.ProductRow{}, g.mutationErr
	}
	for i, r := range g.products {
		if *r.ID == id {
			if patch.Name != nil {
				name := *patch.Name
				g.products[i].Name = &name
			}
			return g.products[i], nil
		}
	}
	return domcatalog.ProductRow{}, &domain.GatewayError{Op: "products.update", Status: 404, Code: "PGRST116", Err: domain.ErrNotFound}
}

func (g *catalogStub) DeleteProduct(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastToken = repository.AccessToken(ctx)
	if g.mutationErr != nil {
		return g.mutationErr
	}
	for i, r := range g.products {
		if *r.ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			break
		}
	}
	return nil
}

func (g *catalogStub) token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastToken
}

// authStub proveedor de identidad.
type authStub struct {
	session   *entity.Session
	signInErr error
}

func (a *authStub) SignIn(context.Context, string, string) (*entity.Session, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return a.session, nil
}

func (a *authStub) SignOut(context.Context, string) error { return nil }

func (a *authStub) User(context.Context, string) (*entity.Session, error) {
	return nil, domain.ErrUnauthorized
}

// pdfStub devuelve los nombres recibidos como contenido.
type pdfStub struct{}

func (pdfStub) GenerateCatalogPDF(_ context.Context, title string, products []entity.Product) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("%PDF " + title)
	for _, p := range products {
		b.WriteString("|" + p.Name)
	}
	return b.Bytes(), nil
}

type testEnv struct {
	app     *fiber.App
	catalog *catalogStub
	auth    *authStub
}

type envOption func(*apphttp.RouterDeps)

// buildTestApp arma la aplicación completa sobre gateways en memoria.
func buildTestApp(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gw := newCatalogStub()
	as := &authStub{}

	store := appcatalog.NewStore(gw, nil, 0, nil)
	deps := apphttp.RouterDeps{
		Catalog: appcatalog.NewService(store, gw, appcatalog.Options{FallbackCategories: []string{"Electrónica", "Ropa"}}, nil),
		Relay:   appcatalog.NewMutationRelay(gw, store, nil, nil),
		AuthUC: auth.NewUseCase(as, auth.NewMemoryRevocations(), auth.Config{
			JWTSecret: testJWTSecret,
			Policy:    auth.AdminPolicy{Role: "admin"},
		}, nil),
		PDF:           pdfStub{},
		PublicBaseURL: testBaseURL,
	}
	for _, o := range opts {
		o(&deps)
	}

	app := fiber.New()
	apphttp.Router(app, deps)
	return &testEnv{app: app, catalog: gw, auth: as}
}

// tokenFor genera un JWT de sesión con los roles indicados.
func tokenFor(t *testing.T, sessionID string, roles ...string) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(pkgjwt.GenerateParams{
		Secret: testJWTSecret, Issuer: testIssuer, UserID: testUserID,
		Email: "admin@aura.test", SessionID: sessionID, Roles: roles, ExpMinutes: testExpMin,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza la petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, target, authHeader string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func withLoginLimit(max int) envOption {
	return func(d *apphttp.RouterDeps) {
		d.LoginRateLimit = max
		d.LoginRateWindow = time.Minute
	}
}

func withAnySessionAdmin() envOption {
	return func(d *apphttp.RouterDeps) {
		d.AuthUC = auth.NewUseCase(&authStub{}, auth.NewMemoryRevocations(), auth.Config{
			JWTSecret: testJWTSecret,
			Policy:    auth.AdminPolicy{AnySession: true},
		}, nil)
	}
}
