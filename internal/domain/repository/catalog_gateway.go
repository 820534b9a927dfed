package repository

import (
	"context"

	"github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

// CatalogGateway define el puerto hacia el servicio de datos externo (tablas products y categories).
// Las lecturas devuelven filas crudas; la normalización ocurre en el dominio.
type CatalogGateway interface {
	// ListActiveProducts productos con is_active = true ordenados por id ascendente, con la categoría embebida.
	ListActiveProducts(ctx context.Context) ([]catalog.ProductRow, error)
	// ListCategories categorías (id, name) ordenadas por nombre ascendente.
	ListCategories(ctx context.Context) ([]catalog.CategoryRow, error)
	// FindProductRows filas cuyo id coincide; quien llama exige exactamente una.
	FindProductRows(ctx context.Context, id int64) ([]catalog.ProductRow, error)
	// ListRelatedProducts productos activos de la categoría, excluyendo excludeID.
	ListRelatedProducts(ctx context.Context, categoryID, excludeID int64, limit int) ([]catalog.ProductRow, error)
	// ListRecentProducts productos activos más recientes por created_at.
	ListRecentProducts(ctx context.Context, limit int) ([]catalog.ProductRow, error)

	InsertProduct(ctx context.Context, in entity.ProductInput) (catalog.ProductRow, error)
	UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (catalog.ProductRow, error)
	DeleteProduct(ctx context.Context, id int64) error
}
