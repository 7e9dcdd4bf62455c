package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Shopify     ShopifyConfig
	Garage      GarageConfig
	Catalog     CatalogConfig
	Import      ImportConfig
	Database    DatabaseConfig
	API         APIConfig
	Client      ClientConfig
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// GarageConfig addresses the customer metafield holding the saved garage
type GarageConfig struct {
	Namespace string
	Key       string
	Type      string
}

// CatalogConfig addresses the vehicle metaobjects
type CatalogConfig struct {
	MetaobjectType string
	PageSize       int
	MaxPages       int
}

type ImportConfig struct {
	BatchSize  int
	BatchDelay time.Duration
}

// DatabaseConfig is used by the import ledger; an empty Host disables it
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a Postgres ledger is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type APIConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS; "*" allows any origin
	AdminKeyHash   string   // ADMIN_API_KEY_HASH: bcrypt hash for /admin routes; empty disables them
}

// ClientConfig is what the garage widget needs to talk to a gateway
type ClientConfig struct {
	GatewayURL   string
	SaveDebounce time.Duration
	Timeout      time.Duration
}

func setup() error {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.AutomaticEnv()

	// .env is optional, env vars win
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Load reads the full gateway/importer configuration. Shopify credentials are required.
func Load() (*Config, error) {
	if err := setup(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2025-01"),
			Timeout:     getDurationOrViper("SHOPIFY_TIMEOUT", 30*time.Second),
		},
		Garage: GarageConfig{
			Namespace: getEnvOrViper("GARAGE_METAFIELD_NAMESPACE", "custom"),
			Key:       getEnvOrViper("GARAGE_METAFIELD_KEY", "garage"),
			Type:      getEnvOrViper("GARAGE_METAFIELD_TYPE", "json"),
		},
		Catalog: CatalogConfig{
			MetaobjectType: getEnvOrViper("CATALOG_METAOBJECT_TYPE", "vehicle"),
			PageSize:       getIntOrViper("CATALOG_PAGE_SIZE", 250),
			MaxPages:       getIntOrViper("CATALOG_MAX_PAGES", 20),
		},
		Import: ImportConfig{
			BatchSize:  getIntOrViper("IMPORT_BATCH_SIZE", 25),
			BatchDelay: getDurationOrViper("IMPORT_BATCH_DELAY", time.Second),
		},
		Database: loadDatabase(),
		API: APIConfig{
			AllowedOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "*")),
			AdminKeyHash:   strings.TrimSpace(getEnvOrViper("ADMIN_API_KEY_HASH", "")),
		},
		Client: loadClient(),
	}

	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if cfg.Catalog.PageSize < 1 || cfg.Catalog.PageSize > 250 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be between 1 and 250")
	}
	if cfg.Catalog.MaxPages < 1 {
		return nil, fmt.Errorf("CATALOG_MAX_PAGES must be positive")
	}
	if cfg.Import.BatchSize < 1 {
		return nil, fmt.Errorf("IMPORT_BATCH_SIZE must be positive")
	}

	return cfg, nil
}

// LoadDatabase reads only the ledger database settings, for migrations
func LoadDatabase() (*DatabaseConfig, error) {
	if err := setup(); err != nil {
		return nil, err
	}
	d := loadDatabase()
	if !d.Enabled() {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	return &d, nil
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     strings.TrimSpace(getEnvOrViper("DB_HOST", "")),
		Port:     getEnvOrViper("DB_PORT", "5432"),
		User:     getEnvOrViper("DB_USER", "postgres"),
		Password: getEnvOrViper("DB_PASSWORD", "postgres"),
		DBName:   getEnvOrViper("DB_NAME", "garage"),
		SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
	}
}

// LoadClient reads only the widget settings; no Shopify credentials are needed.
func LoadClient() (*ClientConfig, error) {
	if err := setup(); err != nil {
		return nil, err
	}
	c := loadClient()
	if c.GatewayURL == "" {
		return nil, fmt.Errorf("GATEWAY_URL is required")
	}
	return &c, nil
}

func loadClient() ClientConfig {
	return ClientConfig{
		GatewayURL:   strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("GATEWAY_URL", "http://localhost:8080")), "/"),
		SaveDebounce: getDurationOrViper("GARAGE_SAVE_DEBOUNCE", time.Second),
		Timeout:      getDurationOrViper("GATEWAY_TIMEOUT", 15*time.Second),
	}
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getIntOrViper(key string, defaultValue int) int {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return n
}

// getDurationOrViper accepts Go durations ("1500ms") or bare milliseconds ("1500")
func getDurationOrViper(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(getEnvOrViper(key, ""))
	if raw == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
