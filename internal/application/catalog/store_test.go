package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain"
)

func TestReload_CargaProductosYCategorias(t *testing.T) {
	gw := newStubGateway()
	store := catalog.NewStore(gw, nil, time.Minute, nil)

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, productIDs(snap.Products))
	assert.Equal(t, []string{"Electrónica", "Hogar", "Ropa"}, snap.CategoryNames())
	assert.NotZero(t, snap.Generation)
}

func TestReload_FalloDeCategoriasNoAplicaNada(t *testing.T) {
	gw := newStubGateway()
	store := catalog.NewStore(gw, nil, 0, nil)
	before, err := store.Reload(context.Background())
	require.NoError(t, err)

	gw.setProducts(row(9, "Nuevo", "1", 1, "Electrónica"))
	gw.categoryErr = errors.New("timeout")
	_, err = store.Reload(context.Background())
	require.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.Equal(t, "No se pudieron cargar los productos.", domain.ErrLoadFailed.Error())

	gw.categoryErr = nil
	gw.productsErr = errors.New("boom")
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err, "ttl 0 no expira: se sigue sirviendo el snapshot anterior")
	assert.Same(t, before, snap)
}

func TestReload_FilaInvalidaFallaLaCarga(t *testing.T) {
	gw := newStubGateway()
	id := int64(7)
	gw.setProducts(row(1, "Ok", "1", 1, "Electrónica"), rowWithoutName(id))
	store := catalog.NewStore(gw, nil, 0, nil)

	_, err := store.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidRow)
}

func TestReload_CargaLentaNoPisaUnaMasNueva(t *testing.T) {
	gw := newStubGateway()
	entered := make(chan struct{})
	release := make(chan struct{})
	gw.onList = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	store := catalog.NewStore(gw, nil, 0, nil)

	var (
		wg   sync.WaitGroup
		slow *catalog.Snapshot
		err  error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, err = store.Reload(context.Background())
	}()
	<-entered

	gw.setProducts(row(1, "Auriculares", "59.90", 1, "Electrónica"), row(4, "Reloj", "99", 1, "Electrónica"))
	fast, ferr := store.Reload(context.Background())
	require.NoError(t, ferr)
	assert.Equal(t, []int64{1, 4}, productIDs(fast.Products))

	close(release)
	wg.Wait()
	require.NoError(t, err)
	assert.Same(t, fast, slow, "la carga antigua devuelve el snapshot vigente")

	current, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, productIDs(current.Products))
}

func TestReload_ContextoCanceladoNoAplica(t *testing.T) {
	gw := newStubGateway()
	ctx, cancel := context.WithCancel(context.Background())
	gw.onList = func(call int) {
		if call == 1 {
			cancel()
		}
	}
	store := catalog.NewStore(gw, nil, 0, nil)

	_, err := store.Reload(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, err, domain.ErrLoadFailed)

	gw.onList = nil
	_, err = store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, gw.calls(), "nada se aplicó, la siguiente lectura recarga")
}

func TestSnapshot_RespetaTTLEInvalidate(t *testing.T) {
	gw := newStubGateway()
	store := catalog.NewStore(gw, nil, time.Minute, nil)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	_, err := store.Snapshot(ctx)
	require.NoError(t, err)
	_, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls(), "snapshot fresco no consulta el gateway")

	now = now.Add(2 * time.Minute)
	_, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.calls(), "snapshot expirado recarga")

	store.Invalidate(ctx)
	_, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, gw.calls(), "invalidate fuerza la recarga")
}

func TestSnapshot_UsaLaCacheCompartida(t *testing.T) {
	cache := &memoryCache{}
	first := newStubGateway()
	_, err := catalog.NewStore(first, cache, time.Minute, nil).Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.saves)

	second := newStubGateway()
	snap, err := catalog.NewStore(second, cache, time.Minute, nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, productIDs(snap.Products))
	assert.Equal(t, 0, second.calls(), "otra instancia reutiliza el snapshot de la caché")
}

func TestSnapshot_SinGatewayConfigurado(t *testing.T) {
	gw := newStubGateway()
	gw.productsErr = domain.ErrGatewayNotConfigured
	_, err := catalog.NewStore(gw, nil, 0, nil).Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrGatewayNotConfigured)
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
}

func TestSnapshot_CancelarAUnLectorNoAfectaALosDemas(t *testing.T) {
	gw := newStubGateway()
	entered := make(chan struct{})
	release := make(chan struct{})
	gw.onList = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	store := catalog.NewStore(gw, nil, time.Minute, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := store.Snapshot(ctxA)
		errA <- err
	}()
	<-entered

	type result struct {
		snap *catalog.Snapshot
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		snap, err := store.Snapshot(context.Background())
		resB <- result{snap, err}
	}()

	cancelA()
	err := <-errA
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err, "el lector con contexto vivo recibe el catálogo")
	assert.Equal(t, []int64{1, 2, 3}, productIDs(b.snap.Products))

	current, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, productIDs(current.Products), "la recarga compartida se aplicó")
}
