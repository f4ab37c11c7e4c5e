package main

import (
	"context"
	"net/http"
	"os"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/api"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/catalog"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/config"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/database"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/gamification"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/handler"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/logger"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/store"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Select backing store: Postgres by default, in-memory for local dev
	var profiles store.ProfileStore
	var boards store.LeaderboardStore
	if cfg.UseMemory {
		mem := store.NewMemory()
		profiles, boards = mem, mem
		logger.Warning("Using in-memory store, nothing will be persisted")
	} else {
		pool, err := database.ConnectPostgres(cfg)
		if err != nil {
			logger.Error("Database connection failed: %v", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("Could not ensure schema: %v", err)
			os.Exit(1)
		}
		profiles, boards = pg, pg
	}

	// Load achievement and leaderboard definitions
	cat, errs := catalog.LoadDir(cfg.CatalogDir)
	for _, err := range errs {
		logger.Warning("Catalog definition skipped: %v", err)
	}
	logger.Success("Catalog loaded: %d achievements, %d leaderboards",
		len(cat.Achievements()), len(cat.Leaderboards()))

	// Live leaderboard feed
	hub := ws.NewHub()
	defer hub.Close()

	engine := gamification.NewEngine(gamification.EngineConfig{
		Profiles: profiles,
		Boards:   boards,
		Catalog:  cat,
		Notifier: hub,
	})
	defer engine.Close()

	// Initialize routes
	router := api.SetupRouter(handler.New(engine, cat, hub))

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
