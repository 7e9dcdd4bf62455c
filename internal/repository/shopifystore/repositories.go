package shopifystore

import (
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository"
	"github.com/GKRMP/garage/internal/shopify"
)

// NewRepositories wires the Shopify-backed catalog and profile stores.
// ImportRun is left for the caller (postgres or nop).
func NewRepositories(client *shopify.Client, cfg *config.Config, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Catalog: NewCatalogRepository(client, cfg.Catalog, logger),
		Profile: NewProfileRepository(client, cfg.Garage, logger),
	}
}
