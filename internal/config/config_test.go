package config

import (
	"testing"
	"time"
)

func TestLoadRequiresShopifyCredentials(t *testing.T) {
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Errorf("Expected error when SHOPIFY_SHOP_DOMAIN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "example.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Garage.Namespace != "custom" || cfg.Garage.Key != "garage" {
		t.Errorf("Unexpected metafield address %s.%s", cfg.Garage.Namespace, cfg.Garage.Key)
	}
	if cfg.Catalog.MetaobjectType != "vehicle" {
		t.Errorf("Expected vehicle metaobject type, got %s", cfg.Catalog.MetaobjectType)
	}
	if cfg.Catalog.PageSize != 250 || cfg.Catalog.MaxPages != 20 {
		t.Errorf("Unexpected pagination %d/%d", cfg.Catalog.PageSize, cfg.Catalog.MaxPages)
	}
	if cfg.Import.BatchSize != 25 || cfg.Import.BatchDelay != time.Second {
		t.Errorf("Unexpected import settings %d/%s", cfg.Import.BatchSize, cfg.Import.BatchDelay)
	}
	if len(cfg.API.AllowedOrigins) != 1 || cfg.API.AllowedOrigins[0] != "*" {
		t.Errorf("Expected permissive CORS by default, got %v", cfg.API.AllowedOrigins)
	}
	if cfg.Client.SaveDebounce != time.Second {
		t.Errorf("Expected 1s debounce, got %s", cfg.Client.SaveDebounce)
	}
}

func TestLoadRejectsOversizedPage(t *testing.T) {
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "example.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("CATALOG_PAGE_SIZE", "500")
	if _, err := Load(); err == nil {
		t.Errorf("Expected error for page size above 250")
	}
}

func TestDurationParsing(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "milliseconds", value: "1500", expected: 1500 * time.Millisecond},
		{name: "go duration", value: "2s", expected: 2 * time.Second},
		{name: "garbage falls back", value: "soon", expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GARAGE_SAVE_DEBOUNCE", tt.value)
			if got := getDurationOrViper("GARAGE_SAVE_DEBOUNCE", time.Second); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("Unexpected split %v", got)
	}
}

func TestLoadDatabaseRequiresHost(t *testing.T) {
	t.Setenv("DB_HOST", "")
	if _, err := LoadDatabase(); err == nil {
		t.Errorf("Expected error without DB_HOST")
	}

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "ledger")
	d, err := LoadDatabase()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Host != "db.internal" || d.DBName != "ledger" || d.Port != "5432" {
		t.Errorf("Unexpected database config %+v", d)
	}
}
