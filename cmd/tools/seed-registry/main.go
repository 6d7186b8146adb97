// cmd/tools/seed-registry/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/johnhkchen/hack-stack/internal/common/config"
	"github.com/johnhkchen/hack-stack/internal/common/database"
	"github.com/johnhkchen/hack-stack/internal/legacy"
	"github.com/johnhkchen/hack-stack/internal/models"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml lookup)")
	dataPath := flag.String("data", "", "JSON array of legacy businesses (defaults to the built-in seed)")
	skipPostgres := flag.Bool("skip-postgres", false, "Do not write to PostgreSQL")
	skipSearch := flag.Bool("skip-search", false, "Do not write to Elasticsearch")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	businesses, err := loadBusinesses(*dataPath)
	if err != nil {
		fmt.Printf("Error loading businesses: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if cfg.Database.Postgres.Enabled && !*skipPostgres {
		added, err := seedPostgres(ctx, cfg.Database.Postgres, businesses)
		if err != nil {
			fmt.Printf("PostgreSQL seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PostgreSQL: %d of %d businesses added\n", added, len(businesses))
	}

	if cfg.Database.Elasticsearch.Enabled && !*skipSearch {
		indexed, err := seedSearch(ctx, cfg.Database.Elasticsearch, businesses)
		if err != nil {
			fmt.Printf("Elasticsearch seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Elasticsearch: %d businesses indexed into %s\n", indexed, cfg.Database.Elasticsearch.Index)
	}

	fmt.Println("Seeding complete.")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func loadBusinesses(path string) ([]models.LegacyBusiness, error) {
	if path == "" {
		return models.LegacySeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var businesses []models.LegacyBusiness
	if err := json.Unmarshal(data, &businesses); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	now := time.Now()
	for i := range businesses {
		businesses[i].Normalize(now)
	}
	return businesses, nil
}

func seedPostgres(ctx context.Context, cfg config.PostgresConfig, businesses []models.LegacyBusiness) (int, error) {
	pg, err := database.NewPostgres(cfg)
	if err != nil {
		return 0, err
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		return 0, err
	}
	if err := pg.Migrate(ctx, legacy.Migrations...); err != nil {
		return 0, err
	}
	return legacy.NewPostgresStore(pg.DB).Seed(ctx, businesses)
}

func seedSearch(ctx context.Context, cfg config.ElasticsearchConfig, businesses []models.LegacyBusiness) (int, error) {
	es, err := database.NewElasticsearch(cfg)
	if err != nil {
		return 0, err
	}
	if err := es.Ping(ctx); err != nil {
		return 0, err
	}
	if err := es.EnsureIndex(ctx, cfg.Index, legacy.IndexMapping); err != nil {
		return 0, err
	}
	return legacy.NewElasticsearchIndex(es.Client, cfg.Index).IndexAll(ctx, businesses)
}
