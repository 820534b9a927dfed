// Package offline gateway sin backend: toda llamada falla con domain.ErrGatewayNotConfigured
// y las vistas recurren a sus datos de respaldo.
package offline

import (
	"context"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
)

var (
	_ repository.CatalogGateway = Gateway{}
	_ repository.AuthGateway    = Gateway{}
)

// Gateway implementa los puertos de catálogo y auth sin servicio externo.
type Gateway struct{}

func (Gateway) ListActiveProducts(context.Context) ([]catalog.ProductRow, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) ListCategories(context.Context) ([]catalog.CategoryRow, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) FindProductRows(context.Context, int64) ([]catalog.ProductRow, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) ListRelatedProducts(context.Context, int64, int64, int) ([]catalog.ProductRow, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) ListRecentProducts(context.Context, int) ([]catalog.ProductRow, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) InsertProduct(context.Context, entity.ProductInput) (catalog.ProductRow, error) {
	return catalog.ProductRow{}, domain.ErrGatewayNotConfigured
}

func (Gateway) UpdateProduct(context.Context, int64, entity.ProductPatch) (catalog.ProductRow, error) {
	return catalog.ProductRow{}, domain.ErrGatewayNotConfigured
}

func (Gateway) DeleteProduct(context.Context, int64) error {
	return domain.ErrGatewayNotConfigured
}

func (Gateway) SignIn(context.Context, string, string) (*entity.Session, error) {
	return nil, domain.ErrGatewayNotConfigured
}

func (Gateway) SignOut(context.Context, string) error {
	return domain.ErrGatewayNotConfigured
}

func (Gateway) User(context.Context, string) (*entity.Session, error) {
	return nil, domain.ErrGatewayNotConfigured
}
