package catalog

import (
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceUnavailable texto mostrado cuando el producto no tiene precio válido.
const PriceUnavailable = "Precio no disponible"

// PlaceholderImages imágenes de relleno cuando el producto no trae ninguna.
var PlaceholderImages = []string{
	"https://placehold.co/600x400?text=Producto",
	"https://placehold.co/600x400?text=Imagen+2",
}

// SortablePrice precio usado para ordenar y filtrar: sin precio cuenta como 0.
func SortablePrice(p entity.Product) decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// groupingFrom en es-ES los miles se separan solo desde cinco cifras enteras ("1234,50 €", "12.345,00 €").
var groupingFrom = decimal.NewFromInt(10000)

// FormatPrice formatea el precio en euros con convenciones es-ES ("129,99 €", con espacio no separable).
// Un precio 0 válido se muestra como "0,00 €"; solo la ausencia de precio usa PriceUnavailable.
func FormatPrice(price decimal.NullDecimal) string {
	if !price.Valid {
		return PriceUnavailable
	}
	d := price.Decimal.Round(2)
	f, _ := d.Float64()
	opts := []number.Option{number.Scale(2)}
	if d.Abs().LessThan(groupingFrom) {
		opts = append(opts, number.NoSeparator())
	}
	return message.NewPrinter(language.Spanish).Sprintf("%v\u00a0€", number.Decimal(f, opts...))
}

// Gallery devuelve las imágenes no vacías del producto o las de relleno.
func Gallery(p entity.Product) []string {
	images := make([]string, 0, 2)
	for _, u := range []*string{p.ImageURLPrimary, p.ImageURLSecondary} {
		if u != nil && *u != "" {
			images = append(images, *u)
		}
	}
	if len(images) == 0 {
		return append(images, PlaceholderImages...)
	}
	return images
}
