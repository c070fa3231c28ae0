package main

import (
	"context"
	"flag"

	"github.com/sangkips/festkasse-api/internal/config"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database"
	"github.com/sangkips/festkasse-api/pkg/logger"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, version, redo, reset")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "festkasse-migrate"}).Fatal(ctx, "failed to load config", err)
	}

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name + "-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	db, err := database.Open(&cfg.Database, false)
	if err != nil {
		log.Fatal(ctx, "failed to connect to database", err)
	}
	defer database.Close(db)

	migrator, err := database.NewMigrator(db, cfg.Database.Driver, log)
	if err != nil {
		log.Fatal(ctx, "failed to prepare migrations", err)
	}

	if err := migrator.Run(ctx, *command, flag.Args()...); err != nil {
		log.Fatal(ctx, "migration failed", err)
	}

	version, err := migrator.Version()
	if err != nil {
		log.Fatal(ctx, "failed to read schema version", err)
	}
	log.Infof(ctx, "schema at version %d", version)
}
