package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/shopify"
)

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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Checking API permissions...")

	var scopes shopify.AccessScopesResult
	if err := client.Do(ctx, "accessScopes", shopify.AccessScopesQuery, nil, &scopes); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read access scopes: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Granted: %s\n\n", strings.Join(scopes.Handles(), ", "))

	// Read the first catalog page to prove metaobject access end to end
	var page shopify.MetaobjectsResult
	err = client.Do(ctx, "getMetaobjects", shopify.MetaobjectsQuery, map[string]interface{}{
		"type":  cfg.Catalog.MetaobjectType,
		"first": 1,
	}, &page)
	if err != nil {
		fmt.Printf("Reading %q metaobjects failed: %v\n", cfg.Catalog.MetaobjectType, err)
	} else {
		fmt.Printf("Reading %q metaobjects works (%d on the first page)\n", cfg.Catalog.MetaobjectType, len(page.Metaobjects.Nodes))
	}

	missing := shopify.MissingScopes(scopes.Handles())
	if len(missing) == 0 {
		fmt.Println("All required scopes are granted.")
		return
	}

	fmt.Println("\nMissing scopes:")
	for _, s := range missing {
		fmt.Printf("   - %s\n", s)
	}
	fmt.Println("\nTo add scopes:")
	fmt.Println("   1. Go to Shopify Admin > Settings > Apps and sales channels")
	fmt.Println("   2. Click 'Develop apps' > Your app")
	fmt.Println("   3. Click 'Configure Admin API scopes'")
	fmt.Println("   4. Add the required scopes")
	fmt.Println("   5. Click 'Save' then 'Install app' (or reinstall)")
	os.Exit(1)
}
