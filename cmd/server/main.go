package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/HonungsGrabb/rpg-together/internal/config"
	"github.com/HonungsGrabb/rpg-together/internal/network"
	"github.com/HonungsGrabb/rpg-together/internal/persist"
	"github.com/HonungsGrabb/rpg-together/internal/server"
	"github.com/HonungsGrabb/rpg-together/internal/version"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to config file")
	flag.Parse()

	logger.Log.Info("Starting RPG Together...")
	logger.Log.Info(version.String())

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Config error:", err)
	}

	// 2. Хранилище: Postgres либо память
	var store persist.CharacterStore
	var presence persist.PresenceStore

	if cfg.Database.Enabled {
		ctx := context.Background()
		db, err := persist.NewDB(ctx, cfg.Database)
		if err != nil {
			logger.Log.Fatal("Database error:", err)
		}
		defer db.Close()

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			logger.Log.Fatal("Migration error:", err)
		}

		store = persist.NewPGCharacterStore(db)
		presence = persist.NewPGPresenceStore(db)
	} else {
		logger.Log.Warn("Database disabled, using in-memory storage")
		store = persist.NewMemoryCharacterStore()
		presence = persist.NewMemoryPresenceStore()
	}

	// 3. Канал зоны и сервер
	hub := network.NewHub()
	srv := server.New(hub, store, presence, cfg)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	logger.Log.Info("Done.")
}
