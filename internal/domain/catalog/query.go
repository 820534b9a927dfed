package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey criterio de ordenación del catálogo.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortName      SortKey = "name"
	SortRecent    SortKey = "recent"
)

// ParseSortKey valida el criterio; vacío equivale a relevance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortName, SortRecent:
		return k, nil
	default:
		return "", fmt.Errorf("%w: sort %q", domain.ErrInvalidInput, s)
	}
}

// Params parámetros controlados por el usuario en la vista de catálogo.
// Las categorías se comparan por nombre resuelto, no por id.
type Params struct {
	SelectedCategoryNames []string
	Query                 string
	Sort                  SortKey
	MinPrice              decimal.NullDecimal
	MaxPrice              decimal.NullDecimal
}

// Key clave canónica para memoizar resultados; el orden de las categorías no importa.
func (p Params) Key() string {
	cats := slices.Clone(p.SelectedCategoryNames)
	sort.Strings(cats)
	cats = slices.Compact(cats)
	sortKey := p.Sort
	if sortKey == "" {
		sortKey = SortRelevance
	}
	return fmt.Sprintf("c=%q|q=%q|s=%s|min=%s|max=%s",
		cats, strings.ToLower(strings.TrimSpace(p.Query)), sortKey,
		boundKey(p.MinPrice), boundKey(p.MaxPrice))
}

func boundKey(b decimal.NullDecimal) string {
	if !b.Valid {
		return "-"
	}
	return b.Decimal.String()
}

// ComputeVisibleProducts aplica, en este orden, filtro por categoría, búsqueda de texto,
// rango de precio y ordenación estable. No modifica all: siempre devuelve un slice nuevo.
func ComputeVisibleProducts(all []entity.Product, p Params) []entity.Product {
	list := make([]entity.Product, 0, len(all))

	selected := make(map[string]struct{}, len(p.SelectedCategoryNames))
	for _, name := range p.SelectedCategoryNames {
		selected[name] = struct{}{}
	}
	q := strings.ToLower(strings.TrimSpace(p.Query))

	for _, prod := range all {
		if len(selected) > 0 {
			if prod.Category == nil {
				continue
			}
			if _, ok := selected[prod.Category.Name]; !ok {
				continue
			}
		}
		if q != "" && !matchesQuery(prod, q) {
			continue
		}
		price := SortablePrice(prod)
		if p.MinPrice.Valid && price.LessThan(p.MinPrice.Decimal) {
			continue
		}
		if p.MaxPrice.Valid && price.GreaterThan(p.MaxPrice.Decimal) {
			continue
		}
		list = append(list, prod)
	}

	sortProducts(list, p.Sort)
	return list
}

func matchesQuery(p entity.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.CategoryName()), q)
}

func sortProducts(list []entity.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(list, func(a, b entity.Product) int {
			return SortablePrice(a).Cmp(SortablePrice(b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(list, func(a, b entity.Product) int {
			return SortablePrice(b).Cmp(SortablePrice(a))
		})
	case SortName:
		// El collator no es seguro para uso concurrente: uno por llamada.
		col := collate.New(language.Spanish)
		slices.SortStableFunc(list, func(a, b entity.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortRecent:
		slices.SortStableFunc(list, func(a, b entity.Product) int {
			ta, tb := createdMillis(a), createdMillis(b)
			switch {
			case ta > tb:
				return -1
			case ta < tb:
				return 1
			default:
				return 0
			}
		})
	}
}

// createdMillis milisegundos Unix de created_at; sin fecha cuenta como época 0.
func createdMillis(p entity.Product) int64 {
	if p.CreatedAt == nil {
		return 0
	}
	return p.CreatedAt.UnixMilli()
}
