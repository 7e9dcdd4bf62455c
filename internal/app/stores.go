// Package app wires configuration into the stores shared by the gateway and the importer.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository"
	"github.com/GKRMP/garage/internal/repository/memory"
	"github.com/GKRMP/garage/internal/repository/postgres"
	"github.com/GKRMP/garage/internal/repository/shopifystore"
	"github.com/GKRMP/garage/internal/shopify"
)

// NewLogger builds the production or development zap logger for cfg
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}

// Stores holds the repositories and whatever must be closed with them
type Stores struct {
	Repos  *repository.Repositories
	Client *shopify.Client
	db     *sql.DB
}

// OpenStores builds the Shopify-backed catalog and profile stores and the
// import ledger: Postgres when DB_HOST is set, in-memory otherwise.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	client := shopify.NewClient(cfg.Shopify, logger)
	repos := shopifystore.NewRepositories(client, cfg, logger)
	stores := &Stores{Repos: repos, Client: client}

	if !cfg.Database.Enabled() {
		logger.Info("DB_HOST not set, import ledger kept in memory")
		repos.ImportRun = memory.NewImportRunRepository()
		return stores, nil
	}

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect ledger database: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger database: %w", err)
	}
	postgres.NewRepositories(db, repos, logger)
	stores.db = db
	logger.Info("Import ledger stored in Postgres", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
	return stores, nil
}

// Close releases the ledger database, if any
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
