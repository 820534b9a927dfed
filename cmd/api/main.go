// @title                       AURA Storefront API
// @version                     1.0
// @description                 Backend de la tienda AURA: vistas del catálogo, exportaciones y administración de productos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/aura-storefront/docs"
	"github.com/jhoicas/aura-storefront/internal/application/auth"
	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/domain/repository"
	"github.com/jhoicas/aura-storefront/internal/infrastructure/cache"
	"github.com/jhoicas/aura-storefront/internal/infrastructure/offline"
	infrapdf "github.com/jhoicas/aura-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/aura-storefront/internal/infrastructure/postgres"
	"github.com/jhoicas/aura-storefront/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/aura-storefront/internal/interfaces/http"
	"github.com/jhoicas/aura-storefront/pkg/config"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("gateway", cfg.Gateway.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Gateway de datos según GATEWAY_DRIVER
	var (
		catalogGW repository.CatalogGateway
		authGW    repository.AuthGateway
	)
	switch cfg.Gateway.Driver {
	case config.DriverSupabase:
		client := supabase.NewClient(supabase.Config{
			URL:     cfg.Gateway.SupabaseURL,
			AnonKey: cfg.Gateway.AnonKey,
			Timeout: cfg.Gateway.Timeout,
		}, log)
		catalogGW = supabase.NewCatalogGateway(client)
		authGW = supabase.NewAuthGateway(client)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		catalogGW = postgres.NewCatalogGateway(pool)
		authGW = postgres.NewAuthGateway(pool, postgres.TokenConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			ExpMinutes: cfg.JWT.Expiration,
		})
	default:
		log.Warn().Msg("sin gateway configurado: vistas con datos de respaldo y administración deshabilitada")
		catalogGW = offline.Gateway{}
		authGW = offline.Gateway{}
	}

	// Redis opcional: snapshot compartido y sesiones revocadas
	var (
		snapshotCache appcatalog.SnapshotCache
		revocations   repository.SessionRevocations = auth.NewMemoryRevocations()
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se usa caché en memoria")
		} else {
			defer rdb.Close()
			snapshotCache = cache.NewSnapshotCache(rdb)
			revocations = cache.NewRevocations(rdb)
		}
	}

	store := appcatalog.NewStore(catalogGW, snapshotCache, cfg.Catalog.SnapshotTTL, log)
	catalogSvc := appcatalog.NewService(store, catalogGW, appcatalog.Options{
		FallbackCategories: cfg.Catalog.FallbackCategories,
		FeaturedLimit:      cfg.Catalog.FeaturedLimit,
		RelatedLimit:       cfg.Catalog.RelatedLimit,
	}, log)
	relayLog := log.Named("catalog.relay")
	relay := appcatalog.NewMutationRelay(catalogGW, store, func(op string, from, to appcatalog.MutationState) {
		relayLog.Debug().Str("op", op).Stringer("from", from).Stringer("to", to).Msg("transición")
	}, log)

	authUC := auth.NewUseCase(authGW, revocations, auth.Config{
		JWTSecret: cfg.JWT.Secret,
		Policy: auth.AdminPolicy{
			Role:       cfg.Auth.AdminRole,
			AnySession: cfg.Auth.AnySessionIsAdmin,
		},
	}, log)
	if cfg.Auth.AnySessionIsAdmin {
		log.Warn().Msg("AUTH_ANY_SESSION_IS_ADMIN activo: cualquier sesión puede modificar productos")
	}

	// PDF: lista de precios con QR al catálogo
	pdfGenerator := infrapdf.NewCatalogPDFGenerator(cfg.Catalog.PublicBaseURL + "/products")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AURA Storefront API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "gateway": cfg.Gateway.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:         catalogSvc,
		Relay:           relay,
		AuthUC:          authUC,
		PDF:             pdfGenerator,
		PublicBaseURL:   cfg.Catalog.PublicBaseURL,
		LoginRateLimit:  cfg.HTTP.LoginRateLimit,
		LoginRateWindow: cfg.HTTP.LoginRateWindow,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
