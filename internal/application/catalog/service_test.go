package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
)

var fallbackCategories = []string{"Electrónica", "Ropa", "Hogar", "Deportes", "Libros"}

func newService(gw *stubGateway) *catalog.Service {
	store := catalog.NewStore(gw, nil, 0, nil)
	return catalog.NewService(store, gw, catalog.Options{FallbackCategories: fallbackCategories}, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_AplicaFiltrosYDevuelveCategorias(t *testing.T) {
	svc := newService(newStubGateway())

	view, err := svc.Catalog(context.Background(), domcatalog.Params{
		SelectedCategoryNames: []string{"Electrónica", "Hogar"},
		Sort:                  domcatalog.SortPriceAsc,
		MaxPrice:              decimal.NewNullDecimal(decimal.NewFromInt(50)),
	})
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, int64(3), view.Products[0].ID)
	assert.Equal(t, "34,00\u00a0€", view.Products[0].PriceLabel)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, []string{"Electrónica", "Hogar", "Ropa"}, view.Categories)
	assert.Equal(t, "price-asc", view.Filters.Sort)
	require.NotNil(t, view.Filters.MaxPrice)
	assert.Equal(t, "50", *view.Filters.MaxPrice)
	assert.Nil(t, view.Filters.MinPrice)
}

func TestCatalog_ResultadoMemoizadoEsIgualAlCalculado(t *testing.T) {
	svc := newService(newStubGateway())
	p := domcatalog.Params{Query: "a", Sort: domcatalog.SortName}

	first, err := svc.Catalog(context.Background(), p)
	require.NoError(t, err)
	second, err := svc.Catalog(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first.Products, second.Products)
}

func TestCatalog_SinCategoriasUsaLasDeRespaldo(t *testing.T) {
	gw := newStubGateway()
	gw.categories = nil
	view, err := newService(gw).Catalog(context.Background(), domcatalog.Params{})
	require.NoError(t, err)
	assert.Equal(t, fallbackCategories, view.Categories)
	assert.Len(t, view.Products, 3)
}

func TestCatalog_SinGatewayEsCatalogoVacio(t *testing.T) {
	gw := newStubGateway()
	gw.productsErr = domain.ErrGatewayNotConfigured
	view, err := newService(gw).Catalog(context.Background(), domcatalog.Params{})
	require.NoError(t, err)
	assert.Empty(t, view.Products)
	assert.Equal(t, fallbackCategories, view.Categories)
}

func TestCatalog_FalloDeCargaSePropaga(t *testing.T) {
	gw := newStubGateway()
	gw.productsErr = errors.New("503")
	_, err := newService(gw).Catalog(context.Background(), domcatalog.Params{})
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Portada
// ──────────────────────────────────────────────────────────────────────────────

func TestHome_ErrorDelGatewayUsaDestacadosFijos(t *testing.T) {
	gw := newStubGateway()
	gw.recentErr = errors.New("timeout")
	view := newService(gw).Home(context.Background())

	assert.True(t, view.Fallback)
	require.Len(t, view.Featured, 3)
	assert.Equal(t, "Producto 1", view.Featured[0].Name)
	assert.Equal(t, "129,99\u00a0€", view.Featured[0].PriceLabel)
	assert.Equal(t, "Hogar", view.Featured[2].Category.Name)
}

func TestHome_RecientesDelGateway(t *testing.T) {
	gw := newStubGateway()
	gw.recent = []domcatalog.ProductRow{row(3, "Lámpara", "34", 3, "Hogar")}
	view := newService(gw).Home(context.Background())

	assert.False(t, view.Fallback)
	require.Len(t, view.Featured, 1)
	assert.Equal(t, int64(3), view.Featured[0].ID)
}

func TestHome_SinResultadosNoEsRespaldo(t *testing.T) {
	view := newService(newStubGateway()).Home(context.Background())
	assert.False(t, view.Fallback)
	assert.Empty(t, view.Featured)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detalle
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDetail_IdInvalidoNoConsultaElGateway(t *testing.T) {
	gw := newStubGateway()
	svc := newService(gw)

	for _, raw := range []string{"abc", "", "0", "-3", "1.5"} {
		_, err := svc.ProductDetail(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidProduct, raw)
	}
	assert.Equal(t, 0, gw.findCalls)
}

func TestProductDetail_ExigeExactamenteUnaFila(t *testing.T) {
	gw := newStubGateway()
	svc := newService(gw)

	_, err := svc.ProductDetail(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	gw.findRows = []domcatalog.ProductRow{row(1, "A", "1", 1, "Electrónica"), row(1, "A", "1", 1, "Electrónica")}
	_, err = svc.ProductDetail(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	gw.findRows = nil
	gw.findErr = errors.New("PGRST116")
	_, err = svc.ProductDetail(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductDetail_GaleriaYRelacionados(t *testing.T) {
	gw := newStubGateway()
	gw.products = append(gw.products, row(4, "Altavoz", "25", 1, "Electrónica"))
	gw.findRows = []domcatalog.ProductRow{gw.products[0]}

	view, err := newService(gw).ProductDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Auriculares", view.Product.Name)
	assert.Equal(t, domcatalog.PlaceholderImages, view.Gallery)
	assert.Equal(t, int64(4), view.Related[0].ID)
	assert.Len(t, view.Related, 1)
}

func TestProductDetail_ErrorEnRelacionadosSeIgnora(t *testing.T) {
	gw := newStubGateway()
	gw.findRows = []domcatalog.ProductRow{gw.products[0]}
	gw.relatedErr = errors.New("timeout")

	view, err := newService(gw).ProductDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, view.Related)
}
