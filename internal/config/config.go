package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/labmedia/related-videos/pkg/config"
)

// Default configuration values.
const (
	defaultServiceName  = "related-videos"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "related_videos"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultCatalogBaseURL  = "https://www.googleapis.com/youtube/v3"
	defaultCatalogTimeoutS = 10

	defaultClickWeight       = 10
	defaultRecencyWindowDays = 30
	defaultCandidatePoolSize = 12
	defaultResultCount       = 6

	defaultMaxClicksPerMinute = 30
	defaultWindowSeconds      = 60
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Ranking   RankingConfig   `yaml:"ranking"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"RELATED_VIDEOS_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"           yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_RELATED_VIDEOS_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_RELATED_VIDEOS_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_RELATED_VIDEOS_USER"     yaml:"user"`
	Password string `env:"POSTGRES_RELATED_VIDEOS_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_RELATED_VIDEOS_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_RELATED_VIDEOS_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// CatalogConfig holds the external video catalog configuration.
type CatalogConfig struct {
	BaseURL   string        `env:"CATALOG_BASE_URL"   yaml:"base_url"`
	APIKey    string        `env:"CATALOG_API_KEY"    yaml:"api_key"`
	ChannelID string        `env:"CATALOG_CHANNEL_ID" yaml:"channel_id"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RankingConfig holds the related-video scoring constants.
type RankingConfig struct {
	ClickWeight       int `yaml:"click_weight"`
	RecencyWindowDays int `yaml:"recency_window_days"`
	CandidatePoolSize int `yaml:"candidate_pool_size"`
	ResultCount       int `yaml:"result_count"`
}

// RateLimitConfig holds rate limiting configuration for the click endpoint.
type RateLimitConfig struct {
	MaxClicksPerMinute int `yaml:"max_clicks_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return pkgconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setCatalogDefaults(&cfg.Catalog)
	setRankingDefaults(&cfg.Ranking)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setCatalogDefaults applies default values to CatalogConfig.
func setCatalogDefaults(cat *CatalogConfig) {
	if cat.BaseURL == "" {
		cat.BaseURL = defaultCatalogBaseURL
	}
	if cat.Timeout == 0 {
		cat.Timeout = defaultCatalogTimeoutS * time.Second
	}
}

// setRankingDefaults applies default values to RankingConfig.
func setRankingDefaults(r *RankingConfig) {
	if r.ClickWeight == 0 {
		r.ClickWeight = defaultClickWeight
	}
	if r.RecencyWindowDays == 0 {
		r.RecencyWindowDays = defaultRecencyWindowDays
	}
	if r.CandidatePoolSize == 0 {
		r.CandidatePoolSize = defaultCandidatePoolSize
	}
	if r.ResultCount == 0 {
		r.ResultCount = defaultResultCount
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxClicksPerMinute == 0 {
		rl.MaxClicksPerMinute = defaultMaxClicksPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := pkgconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Catalog.APIKey == "" {
		return &pkgconfig.ValidationError{
			Field:   "catalog.api_key",
			Message: "is required",
		}
	}
	if c.Catalog.ChannelID == "" {
		return &pkgconfig.ValidationError{
			Field:   "catalog.channel_id",
			Message: "is required",
		}
	}
	return nil
}
