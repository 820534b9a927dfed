package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/aura-storefront/internal/domain"
	domcatalog "github.com/jhoicas/aura-storefront/internal/domain/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/entity"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

// MutationState estado de una mutación en curso.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationSubmitting
	MutationSucceeded
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationSubmitting:
		return "submitting"
	case MutationSucceeded:
		return "succeeded"
	case MutationFailed:
		return "failed"
	default:
		return fmt.Sprintf("MutationState(%d)", int(s))
	}
}

// TransitionHook observa cada cambio de estado de una mutación.
type TransitionHook func(op string, from, to MutationState)

// MutationRelay reenvía altas, cambios y bajas de productos al gateway.
// Tras cada éxito invalida el snapshot y recarga el catálogo completo; no hay
// actualización optimista ni reintentos.
type MutationRelay struct {
	gateway repository.CatalogGateway
	store   *Store
	hook    TransitionHook
	log     *logger.Logger
}

// NewMutationRelay construye el relay. hook puede ser nil.
func NewMutationRelay(gateway repository.CatalogGateway, store *Store, hook TransitionHook, log *logger.Logger) *MutationRelay {
	if log == nil {
		log = logger.Nop()
	}
	return &MutationRelay{gateway: gateway, store: store, hook: hook, log: log.Named("catalog.relay")}
}

// CreateProduct inserta un producto.
func (r *MutationRelay) CreateProduct(ctx context.Context, in entity.ProductInput) (*entity.Product, error) {
	var out entity.Product
	err := r.run(ctx, "products.insert", func() error {
		row, err := r.gateway.InsertProduct(ctx, in)
		if err != nil {
			return err
		}
		out = r.written("products.insert", row, productFromInput(in))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct aplica una actualización parcial.
func (r *MutationRelay) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidProduct
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}
	var out entity.Product
	err := r.run(ctx, "products.update", func() error {
		row, err := r.gateway.UpdateProduct(ctx, id, patch)
		if err != nil {
			return err
		}
		out = r.written("products.update", row, productFromPatch(id, patch))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct elimina un producto.
func (r *MutationRelay) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidProduct
	}
	return r.run(ctx, "products.delete", func() error {
		return r.gateway.DeleteProduct(ctx, id)
	})
}

// written normaliza la fila devuelta tras una escritura ya confirmada. Si la fila no es
// legible la mutación sigue siendo exitosa: se responde con lo enviado y el id conocido.
func (r *MutationRelay) written(op string, row domcatalog.ProductRow, sent entity.Product) entity.Product {
	p, err := domcatalog.NormalizeProductRow(row)
	if err == nil {
		return p
	}
	r.log.Warn().Err(err).Str("op", op).Msg("fila devuelta ilegible, se usa lo enviado")
	if row.ID != nil {
		sent.ID = *row.ID
	}
	return sent
}

func productFromInput(in entity.ProductInput) entity.Product {
	active := in.IsActive
	return entity.Product{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		ImageURLPrimary:   in.ImageURLPrimary,
		ImageURLSecondary: in.ImageURLSecondary,
		CategoryID:        in.CategoryID,
		IsActive:          &active,
	}
}

func productFromPatch(id int64, patch entity.ProductPatch) entity.Product {
	p := entity.Product{
		ID:                id,
		ImageURLPrimary:   patch.ImageURLPrimary,
		ImageURLSecondary: patch.ImageURLSecondary,
		CategoryID:        patch.CategoryID,
		IsActive:          patch.IsActive,
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	return p
}

// run recorre Idle → Submitting → Succeeded|Failed → Idle. Tras un éxito recarga el
// catálogo; si la recarga falla la mutación sigue siendo exitosa y el store queda
// marcado para recargar en la siguiente lectura.
func (r *MutationRelay) run(ctx context.Context, op string, call func() error) error {
	state := MutationIdle
	move := func(to MutationState) {
		if r.hook != nil {
			r.hook(op, state, to)
		}
		state = to
	}

	move(MutationSubmitting)
	if err := call(); err != nil {
		move(MutationFailed)
		move(MutationIdle)
		r.log.Warn().Err(err).Str("op", op).Msg("mutación rechazada")
		return domain.AsGatewayError(op, err)
	}
	move(MutationSucceeded)

	r.store.Invalidate(ctx)
	if _, err := r.store.Reload(ctx); err != nil {
		r.log.Warn().Err(err).Str("op", op).Msg("recarga tras mutación fallida")
	}
	move(MutationIdle)
	r.log.Info().Str("op", op).Msg("mutación aplicada")
	return nil
}
