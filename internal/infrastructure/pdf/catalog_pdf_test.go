package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

func producto(id int64, name, category string, price string) entity.Product {
	p := entity.Product{ID: id, Name: name, Description: "Descripción de " + name}
	if price != "" {
		p.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	if category != "" {
		p.Category = &entity.Category{ID: id * 10, Name: category}
	}
	return p
}

func TestGenerateCatalogPDF_DevuelvePDF(t *testing.T) {
	g := NewCatalogPDFGenerator("https://aura.test/products")
	out, err := g.GenerateCatalogPDF(context.Background(), "Catálogo AURA", []entity.Product{
		producto(1, "Auriculares", "Electrónica", "129.99"),
		producto(2, "Camiseta", "Ropa", ""),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe empezar con la cabecera PDF")
}

func TestGenerateCatalogPDF_SinProductosNiQR(t *testing.T) {
	out, err := NewCatalogPDFGenerator("").GenerateCatalogPDF(context.Background(), "Vacío", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateCatalogPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCatalogPDFGenerator("").GenerateCatalogPDF(ctx, "x", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupByCategory_ConservaOrdenDeAparicion(t *testing.T) {
	sections := groupByCategory([]entity.Product{
		producto(1, "A", "Ropa", "1"),
		producto(2, "B", "", "1"),
		producto(3, "C", "Hogar", "1"),
		producto(4, "D", "Ropa", "1"),
	})
	require.Len(t, sections, 3)
	assert.Equal(t, "Ropa", sections[0].name)
	assert.Len(t, sections[0].products, 2)
	assert.Equal(t, uncategorized, sections[1].name)
	assert.Equal(t, "Hogar", sections[2].name)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "áéí…", truncate("áéíóú", 4))
}
