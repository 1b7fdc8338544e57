// Package main provides a CLI tool for seeding the catalogs with reference data.
package main

import (
	"context"
	"fmt"
	"os"

	"storagemanager/internal/config"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/infrastructure/storage/postgres"
	"storagemanager/internal/services"
	"storagemanager/pkg/logger"
)

// catalog is the part of a catalog service the seeder needs.
type catalog[T any] interface {
	EntityName() string
	ListActive(ctx context.Context) ([]T, error)
	ListArchived(ctx context.Context) ([]T, error)
	Create(ctx context.Context, e T) error
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var svc *services.Services
	if cfg.Storage == config.StorageMemory {
		svc, _ = services.NewInMemory(nil, log)
	} else {
		poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
		poolCfg.MaxConns = cfg.DB.MaxConns

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		svc = services.NewPostgres(postgres.NewTxManager(pool, cfg.DB.StatementTimeout, log), nil, log)
	}
	log.Infow("seeding catalogs", "storage", cfg.Storage)

	if err := seed(ctx, log, svc); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Info("seeding completed")
}

func seed(ctx context.Context, log *logger.Logger, svc *services.Services) error {
	if err := seedCatalog[*resource.Resource](ctx, log, svc.Resources, []*resource.Resource{
		resource.NewResource("Noutbuk"),
		resource.NewResource("Gel dlya dusha"),
		resource.NewResource("Gvozdi"),
		resource.NewResource("Apelsiny"),
	}); err != nil {
		return err
	}

	if err := seedCatalog[*measure.Measure](ctx, log, svc.Measures, []*measure.Measure{
		measure.NewMeasure("sht"),
		measure.NewMeasure("butyl"),
		measure.NewMeasure("kg"),
		measure.NewMeasure("yashchik"),
	}); err != nil {
		return err
	}

	return seedCatalog[*client.Client](ctx, log, svc.Clients, []*client.Client{
		client.NewClient("OAO Softnet", "g. Moskva, ul. Strannaya, d. 56, pom. 17"),
		client.NewClient("IP Mariya Zakharova", "g. Minsk, ul. Eshchyo bolee strannaya, d. 14"),
		client.NewClient("Eregon corp.", "g. Slonim, ul. Yablochnaya, d. 103, korp. 2, pom. 43"),
		client.NewClient("ZAO Fruit empire", "g. Nettakogo, ul. Nettakoy, d. 1, pom. 1"),
	})
}

// seedCatalog creates items only when the catalog holds nothing, archived included.
func seedCatalog[T any](ctx context.Context, log *logger.Logger, svc catalog[T], items []T) error {
	active, err := svc.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", svc.EntityName(), err)
	}
	archived, err := svc.ListArchived(ctx)
	if err != nil {
		return fmt.Errorf("list archived %s: %w", svc.EntityName(), err)
	}
	if len(active)+len(archived) > 0 {
		log.Infow("catalog not empty, skipping", "catalog", svc.EntityName(), "count", len(active)+len(archived))
		return nil
	}

	for _, item := range items {
		if err := svc.Create(ctx, item); err != nil {
			return fmt.Errorf("create %s: %w", svc.EntityName(), err)
		}
	}
	log.Infow("catalog seeded", "catalog", svc.EntityName(), "count", len(items))
	return nil
}
