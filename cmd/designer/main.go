package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"popup-designer/internal/common/config"
	"popup-designer/internal/common/middleware"
	"popup-designer/internal/designer/handlers"
	"popup-designer/internal/designer/repository"
	"popup-designer/internal/designer/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Pop-up Designer Service
// ============================================================

func main() {
	cfg := config.Load()

	opts, err := cfg.FoldOptions()
	if err != nil {
		log.Fatalf("designer config: %v", err)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := service.NewManager(opts)
	storage := service.NewFileStorage(cfg.ExportDir)
	designHandler := handlers.NewDesignHandler(sessions, repo, storage)
	healthHandler := handlers.NewHealthHandler(db)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 << 20,
		AppName:      "Pop-up Designer",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	healthHandler.Register(app)

	api := app.Group("/api/v1")
	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Pop-up Designer v1",
			"status":  "ok",
		})
	})
	designHandler.Register(api)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Pop-up Designer on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Parse policy: %s, db: %s, exports: %s", opts.Policy, cfg.DBPath, cfg.ExportDir)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
