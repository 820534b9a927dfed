package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/aura-storefront/internal/application/auth"
	appcatalog "github.com/jhoicas/aura-storefront/internal/application/catalog"
	"github.com/jhoicas/aura-storefront/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog       *appcatalog.Service
	Relay         *appcatalog.MutationRelay
	AuthUC        *auth.UseCase
	PDF           CatalogPDFGenerator
	PublicBaseURL string

	LoginRateLimit  int // 0 desactiva el límite
	LoginRateWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	viewHandler := NewViewHandler(deps.Catalog, deps.PDF, deps.PublicBaseURL)
	app.Get("/sitemap.xml", viewHandler.Sitemap)

	api := app.Group("/api")

	// Vistas públicas
	views := api.Group("/views")
	views.Get("/home", viewHandler.Home)
	views.Get("/catalog", viewHandler.Catalog)
	views.Get("/products/:id", viewHandler.ProductDetail)
	views.Get("/about", viewHandler.About)
	views.Get("/contact", viewHandler.Contact)
	api.Get("/catalog/export.pdf", viewHandler.ExportPDF)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	session := SessionMiddleware(deps.AuthUC)
	authGroup.Post("/login", loginLimiter(deps), authHandler.Login)
	authGroup.Post("/logout", session, authHandler.Logout)
	authGroup.Get("/session", session, authHandler.Session)

	// Administración de productos (Bearer + rol admin)
	admin := api.Group("/admin", session, RequireAdmin())
	adminHandler := NewAdminProductHandler(deps.Relay)
	admin.Post("/products", adminHandler.Create)
	admin.Patch("/products/:id", adminHandler.Update)
	admin.Delete("/products/:id", adminHandler.Delete)
}

// loginLimiter limita intentos de login por IP.
func loginLimiter(deps RouterDeps) fiber.Handler {
	if deps.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	window := deps.LoginRateWindow
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        deps.LoginRateLimit,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "TOO_MANY_REQUESTS", Message: "Demasiados intentos; inténtalo más tarde.",
			})
		},
	})
}
