package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/catalog"
	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository/shopifystore"
	"github.com/GKRMP/garage/internal/shopify"
)

// Usage: list-vehicles [query]
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, logger)
	repo := shopifystore.NewCatalogRepository(client, cfg.Catalog, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("Fetching all %q metaobjects from Shopify...\n", cfg.Catalog.MetaobjectType)
	listing, err := repo.ListVehicles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list vehicles: %v\n", err)
		os.Exit(1)
	}

	query := strings.Join(os.Args[1:], " ")
	result := catalog.Filter(listing.Vehicles, query, len(listing.Vehicles))

	fmt.Printf("\n%-40s %-10s %-6s %-15s %-20s %s\n", "ID", "CATEGORY", "YEAR", "MAKE", "MODEL", "STYLE")
	for _, v := range result.Vehicles {
		fmt.Printf("%-40s %-10s %-6d %-15s %-20s %s\n", v.ID, v.Category, v.Year, v.Make, v.Model, v.Style)
	}

	fmt.Printf("\nTotal: %d vehicles in %d pages", result.Total, listing.Pages)
	if query != "" {
		fmt.Printf(", %d matching %q", result.Matched, query)
	}
	fmt.Println()
	if listing.Truncated {
		fmt.Printf("Stopped at CATALOG_MAX_PAGES=%d, the catalog has more vehicles\n", cfg.Catalog.MaxPages)
	}
}
