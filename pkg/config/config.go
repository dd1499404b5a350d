package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// CatalogAPIBase is the records API root, e.g. https://data.ajman.ae/api/explore/v2.1/catalog
	CatalogAPIBase string `mapstructure:"CATALOG_API_BASE"`
	// CatalogPortalBase is the public portal root serving the information pages.
	CatalogPortalBase string `mapstructure:"CATALOG_PORTAL_BASE"`

	RequestTimeoutSeconds int    `mapstructure:"REQUEST_TIMEOUT"`
	MetadataFetchMode     string `mapstructure:"METADATA_FETCH_MODE"` // "http" or "browser"
	ProxyURLs             string `mapstructure:"PROXY_URLS"`          // comma separated

	WorkspaceDir string `mapstructure:"WORKSPACE_DIR"`

	PostgresURL    string `mapstructure:"POSTGRES_URL"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	LockTTLSeconds int    `mapstructure:"LOCK_TTL"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine, everything can come from the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_API_BASE", "https://data.ajman.ae/api/explore/v2.1/catalog")
	v.SetDefault("CATALOG_PORTAL_BASE", "https://data.ajman.ae")
	v.SetDefault("REQUEST_TIMEOUT", 30)
	v.SetDefault("METADATA_FETCH_MODE", "http")
	v.SetDefault("PROXY_URLS", "")
	v.SetDefault("WORKSPACE_DIR", "static/visualizations")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", 120)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequestTimeout is the bound applied to every outbound catalog call.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) LockTTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Proxies splits PROXY_URLS into its non-empty entries.
func (c *Config) Proxies() []string {
	var out []string
	for _, p := range strings.Split(c.ProxyURLs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
