package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"pdvlocal/internal/config"
	"pdvlocal/internal/http/handlers"
	applog "pdvlocal/internal/log"
	"pdvlocal/internal/repos"
	"pdvlocal/internal/services"
	"pdvlocal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applog.Init("production", "")
		applog.L().Fatal("config.load.fail", zap.Error(err))
	}
	applog.Init(cfg.LogMode, cfg.LogFile)
	defer applog.Sync()
	applog.Info(nil, "config.loaded", map[string]any{
		"port":         cfg.Port,
		"store_driver": cfg.StoreDriver,
		"store_dir":    cfg.StoreDir,
		"store_codec":  cfg.StoreCodec,
		"catalog_file": cfg.CatalogFile,
		"log_mode":     cfg.LogMode,
	})

	st, err := store.Open(store.Config{Driver: cfg.StoreDriver, Dir: cfg.StoreDir, Codec: cfg.StoreCodec})
	if err != nil {
		applog.L().Fatal("store.open.fail", zap.Error(err))
	}
	defer st.Close()

	catalog := repos.DefaultCatalog
	if cfg.CatalogFile != "" {
		if catalog, err = config.LoadCatalog(cfg.CatalogFile); err != nil {
			applog.L().Fatal("catalog.load.fail", zap.Error(err))
		}
	}

	ctx := context.Background()
	engine, err := services.Bootstrap(ctx, st, catalog)
	if err != nil {
		applog.L().Fatal("bootstrap.fail", zap.Error(err))
	}
	session := services.NewSaleSession(engine, st)
	defer session.Close()
	applog.Info(nil, "session.start", map[string]any{"session": session.ID, "store": cfg.StoreDriver})

	// Templates & app
	views := handlers.NewViews(cfg.TemplatesDir)
	views.Reload(cfg.LogMode == "development")

	app := fiber.New(fiber.Config{
		Views: views,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 64 << 10

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	handlers.NewDeps(session).Register(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		applog.Info(nil, "server.shutdown", nil)
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.L().Error("server.listen.fail", zap.Error(err))
	}
}
