// Package pdf genera la lista de precios descargable del catálogo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha      │  QR al catálogo en línea      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CATEGORÍA                                                   │
//	│  TABLA: Ref | Producto | Descripción | Precio                │
//	│  ...una sección por categoría, en el orden recibido...       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de productos + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const (
	uncategorized  = "Sin categoría"
	maxDescription = 90
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CatalogPDFGenerator lista de precios con Maroto v2.
type CatalogPDFGenerator struct {
	catalogURL string
	now        func() time.Time
}

// NewCatalogPDFGenerator catalogURL se codifica en el QR de la cabecera; vacío = sin QR.
func NewCatalogPDFGenerator(catalogURL string) *CatalogPDFGenerator {
	return &CatalogPDFGenerator{catalogURL: catalogURL, now: time.Now}
}

// GenerateCatalogPDF genera el PDF con los productos ya filtrados y ordenados.
func (g *CatalogPDFGenerator) GenerateCatalogPDF(ctx context.Context, title string, products []entity.Product) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor("AURA", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(products) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("No hay productos que coincidan con los filtros.", props.Text{
				Size: 10, Align: align.Center, Color: colorGray, Top: 4,
			}),
		)))
	}
	for _, section := range groupByCategory(products) {
		m.AddRows(sectionTitleRow(section.name))
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(section.products)...)
		m.AddRows(line.NewRow(3))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(products)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y fecha (izq), QR al catálogo (der).
func (g *CatalogPDFGenerator) headerRow(title string) core.Row {
	left := col.New(9).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		}),
		text.New("Lista de precios · "+g.now().Format("02/01/2006"), props.Text{
			Size: 9, Top: 11, Color: colorGray,
		}),
	)
	if g.catalogURL == "" {
		return row.New(22).Add(left, col.New(3))
	}
	return row.New(22).Add(
		left,
		col.New(3).Add(code.NewQr(g.catalogURL, props.Rect{Percent: 90, Center: true})),
	)
}

func sectionTitleRow(name string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(name, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ref.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Descripción", 5, align.Left),
		h("Precio", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por producto.
func tableRows(products []entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.FormatInt(p.ID, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray},
			)),
			col.New(4).Add(text.New(
				p.Name,
				props.Text{Size: 8, Style: fontstyle.Bold, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				truncate(p.Description, maxDescription),
				props.Text{Size: 7.5, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				catalog.FormatPrice(p.Price),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func footerRow(total int) core.Row {
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("%d productos", total), props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 2,
		})),
		col.New(6).Add(text.New("Precios con IVA incluido. Sujetos a cambios sin previo aviso.", props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type section struct {
	name     string
	products []entity.Product
}

// groupByCategory agrupa conservando el orden de primera aparición.
func groupByCategory(products []entity.Product) []section {
	var out []section
	index := map[string]int{}
	for _, p := range products {
		name := p.CategoryName()
		if name == "" {
			name = uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, section{name: name})
		}
		out[i].products = append(out[i].products, p)
	}
	return out
}

// truncate corta por runas y añade "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
