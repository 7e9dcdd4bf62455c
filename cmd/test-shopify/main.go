package main

import (
	"context"
	"fmt"
	"os"
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

	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", cfg.Shopify.ShopDomain)
	fmt.Printf("API Version: %s\n", cfg.Shopify.APIVersion)
	fmt.Printf("Access Token: %s...%s\n",
		cfg.Shopify.AccessToken[:min(10, len(cfg.Shopify.AccessToken))],
		cfg.Shopify.AccessToken[max(0, len(cfg.Shopify.AccessToken)-4):])
	fmt.Println()

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Execute(ctx, "shop", shopify.ShopQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com'")
		fmt.Println("  2. SHOPIFY_ACCESS_TOKEN: should start with 'shpat_' and be the full token")
		fmt.Println("  3. Token permissions: needs metaobject and customer scopes")
		os.Exit(1)
	}
	fmt.Println("Connection successful!")
	fmt.Printf("Response: %s\n\n", string(resp.Data))

	// The catalog needs the vehicle metaobject definition
	var def shopify.MetaobjectDefinitionResult
	err = client.Do(ctx, "metaobjectDefinitionByType", shopify.MetaobjectDefinitionByTypeQuery,
		map[string]interface{}{"type": cfg.Catalog.MetaobjectType}, &def)
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Definition lookup failed: %v\n", err)
		fmt.Println("  Token permissions: needs 'read_metaobject_definitions'")
		os.Exit(1)
	case def.MetaobjectDefinitionByType == nil:
		fmt.Printf("Metaobject definition %q is missing. Run: import-vehicles --ensure-definition\n", cfg.Catalog.MetaobjectType)
	default:
		fmt.Printf("Metaobject definition %q found (%s) with fields:", cfg.Catalog.MetaobjectType, def.MetaobjectDefinitionByType.ID)
		for _, f := range def.MetaobjectDefinitionByType.FieldDefinitions {
			fmt.Printf(" %s", f.Key)
		}
		fmt.Println()
	}
	fmt.Printf("Garage metafield: %s.%s (%s)\n", cfg.Garage.Namespace, cfg.Garage.Key, cfg.Garage.Type)
}
