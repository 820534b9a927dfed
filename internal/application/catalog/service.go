package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/aura-storefront/internal/application/dto"
	"github.com/jhoicas/aura-storefront/internal/domain"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

// memoLimit máximo de combinaciones de filtros guardadas por generación.
const memoLimit = 256

// Options parámetros de las vistas.
type Options struct {
	FallbackCategories []string
	FeaturedLimit      int
	RelatedLimit       int
}

// FallbackFeatured destacados fijos de la portada cuando el gateway falla o no está configurado.
var FallbackFeatured = []entity.Product{
	fallbackProduct(1, "Producto 1", 1, "Electrónica", "129.99"),
	fallbackProduct(2, "Producto 2", 2, "Ropa", "79.5"),
	fallbackProduct(3, "Producto 3", 3, "Hogar", "54"),
}

func fallbackProduct(id int64, name string, categoryID int64, category, price string) entity.Product {
	return entity.Product{
		ID:          id,
		Name:        name,
		Description: "Descripción breve del producto destacado",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString(price)),
		CategoryID:  &categoryID,
		Category:    &entity.Category{ID: categoryID, Name: category},
	}
}

// Service vistas de la tienda construidas sobre el snapshot y el gateway.
type Service struct {
	store   *Store
	gateway repository.CatalogGateway
	opts    Options
	log     *logger.Logger

	memoMu  sync.Mutex
	memoGen uint64
	memo    map[string][]entity.Product
}

// NewService construye el servicio de vistas.
func NewService(store *Store, gateway repository.CatalogGateway, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = 3
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = 4
	}
	return &Service{store: store, gateway: gateway, opts: opts, log: log.Named("catalog.views")}
}

// Catalog vista de catálogo: productos visibles para los filtros y la lista de categorías.
// Sin gateway configurado devuelve un catálogo vacío con las categorías de respaldo.
func (s *Service) Catalog(ctx context.Context, p domcatalog.Params) (*dto.CatalogView, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	visible := s.visible(snap, p)

	categories := snap.CategoryNames()
	if len(categories) == 0 {
		categories = append([]string(nil), s.opts.FallbackCategories...)
	}
	selected := p.SelectedCategoryNames
	if selected == nil {
		selected = []string{}
	}
	sortKey := p.Sort
	if sortKey == "" {
		sortKey = domcatalog.SortRelevance
	}
	return &dto.CatalogView{
		Products:   dto.ProductsFromEntities(visible),
		Categories: categories,
		Total:      len(visible),
		Filters: dto.CatalogFilters{
			Categories: selected,
			Query:      p.Query,
			Sort:       string(sortKey),
			MinPrice:   boundString(p.MinPrice),
			MaxPrice:   boundString(p.MaxPrice),
		},
		SortOptions: dto.SortOptions,
	}, nil
}

// VisibleProducts salida del pipeline para los filtros dados (exportación PDF).
func (s *Service) VisibleProducts(ctx context.Context, p domcatalog.Params) ([]entity.Product, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.visible(snap, p), nil
}

// ActiveProducts todos los productos activos del snapshot (sitemap).
func (s *Service) ActiveProducts(ctx context.Context) ([]entity.Product, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Products, nil
}

// Home productos más recientes. Nunca falla: ante error usa los destacados fijos.
func (s *Service) Home(ctx context.Context) *dto.HomeView {
	rows, err := s.gateway.ListRecentProducts(ctx, s.opts.FeaturedLimit)
	var products []entity.Product
	if err == nil {
		products, err = domcatalog.NormalizeProductRows(rows)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrGatewayNotConfigured) {
			s.log.Warn().Err(err).Msg("destacados no disponibles, usando respaldo")
		}
		return &dto.HomeView{Featured: dto.ProductsFromEntities(FallbackFeatured), Fallback: true}
	}
	return &dto.HomeView{Featured: dto.ProductsFromEntities(products)}
}

// ProductDetail vista de detalle. rawID debe ser un entero positivo; se valida antes de consultar.
// El gateway debe devolver exactamente una fila. Los relacionados son opcionales: sus errores se ignoran.
func (s *Service) ProductDetail(ctx context.Context, rawID string) (*dto.ProductDetailView, error) {
	id, err := ParseProductID(rawID)
	if err != nil {
		return nil, err
	}

	rows, err := s.gateway.FindProductRows(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrGatewayNotConfigured) {
			return nil, err
		}
		s.log.Warn().Err(err).Int64("product_id", id).Msg("detalle de producto")
		return nil, errors.Join(domain.ErrProductNotFound, err)
	}
	if len(rows) != 1 {
		return nil, domain.ErrProductNotFound
	}
	product, err := domcatalog.NormalizeProductRow(rows[0])
	if err != nil {
		return nil, errors.Join(domain.ErrProductNotFound, err)
	}

	view := &dto.ProductDetailView{
		Product: dto.ProductFromEntity(product),
		Gallery: domcatalog.Gallery(product),
		Related: []dto.ProductResponse{},
	}
	if product.CategoryID != nil {
		related, err := s.related(ctx, *product.CategoryID, product.ID)
		if err != nil {
			s.log.Debug().Err(err).Int64("product_id", id).Msg("relacionados no disponibles")
		} else {
			view.Related = dto.ProductsFromEntities(related)
		}
	}
	return view, nil
}

// ParseProductID valida el id de la ruta de detalle.
func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidProduct
	}
	return id, nil
}

func (s *Service) related(ctx context.Context, categoryID, excludeID int64) ([]entity.Product, error) {
	rows, err := s.gateway.ListRelatedProducts(ctx, categoryID, excludeID, s.opts.RelatedLimit)
	if err != nil {
		return nil, err
	}
	// Una fila inválida no descarta las demás.
	out := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		if p, err := domcatalog.NormalizeProductRow(row); err == nil && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// snapshot sin gateway configurado equivale a un catálogo vacío.
func (s *Service) snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if errors.Is(err, domain.ErrGatewayNotConfigured) {
		return &Snapshot{}, nil
	}
	return snap, err
}

// visible memoiza el pipeline por (generación, filtros). El resultado se comparte entre
// peticiones y no debe modificarse.
func (s *Service) visible(snap *Snapshot, p domcatalog.Params) []entity.Product {
	if snap.Generation == 0 {
		return domcatalog.ComputeVisibleProducts(snap.Products, p)
	}
	key := p.Key()

	s.memoMu.Lock()
	if s.memoGen != snap.Generation || len(s.memo) >= memoLimit {
		s.memoGen = snap.Generation
		s.memo = make(map[string][]entity.Product)
	}
	if list, ok := s.memo[key]; ok {
		s.memoMu.Unlock()
		return list
	}
	s.memoMu.Unlock()

	list := domcatalog.ComputeVisibleProducts(snap.Products, p)

	s.memoMu.Lock()
	if s.memoGen == snap.Generation {
		s.memo[key] = list
	}
	s.memoMu.Unlock()
	return list
}

func boundString(b decimal.NullDecimal) *string {
	if !b.Valid {
		return nil
	}
	v := b.Decimal.String()
	return &v
}
