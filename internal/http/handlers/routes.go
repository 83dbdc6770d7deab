package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "pdvlocal/internal/log"
)

// Register mounts the checkout screen, the JSON API and the snapshot
// download on app.
func (d *Deps) Register(app *fiber.App) {
	app.Get("/", d.SaleHandler.Screen)
	app.Post("/scan", d.SaleHandler.Scan)
	app.Post("/checkout", d.SaleHandler.Checkout)

	// Each download serializes the whole engine.
	app.Get("/export", limiter.New(limiter.Config{
		Max:        6,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|export"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.export.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many downloads. Please retry soon.")
		},
	}), d.SaleHandler.Export)

	api := app.Group("/api/v1")
	api.Get("/sale", d.SaleHandler.Sale)
	api.Post("/scan", d.SaleHandler.APIScan)
	api.Post("/checkout", d.SaleHandler.APICheckout)
	api.Get("/sales", d.SaleHandler.History)
	api.Get("/products", d.SearchHandler.Search)
	api.Get("/products/:code", d.ProductHandler.Lookup)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
