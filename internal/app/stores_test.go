package app

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository/memory"
)

func TestOpenStoresWithoutDatabaseUsesMemoryLedger(t *testing.T) {
	cfg := &config.Config{
		Shopify: config.ShopifyConfig{ShopDomain: "example.myshopify.com", AccessToken: "shpat_test", APIVersion: "2025-01"},
	}
	stores, err := OpenStores(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer stores.Close()

	if _, ok := stores.Repos.ImportRun.(*memory.ImportRunRepository); !ok {
		t.Errorf("Expected in-memory ledger, got %T", stores.Repos.ImportRun)
	}
	if stores.Repos.Catalog == nil || stores.Repos.Profile == nil {
		t.Errorf("Expected Shopify stores to be wired")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{name: "development", cfg: config.Config{Environment: "development", LogLevel: "debug"}},
		{name: "production", cfg: config.Config{Environment: "production", LogLevel: "info"}},
		{name: "bad level", cfg: config.Config{LogLevel: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogger(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
