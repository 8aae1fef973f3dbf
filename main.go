package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/labmedia/related-videos/internal/api"
	"github.com/labmedia/related-videos/internal/catalog"
	"github.com/labmedia/related-videos/internal/config"
	"github.com/labmedia/related-videos/internal/handler"
	"github.com/labmedia/related-videos/internal/ranking"
	"github.com/labmedia/related-videos/internal/storage"
	pkgconfig "github.com/labmedia/related-videos/pkg/config"
	"github.com/labmedia/related-videos/pkg/logger"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := pkgconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sqlx.DB) int {
	store := storage.NewStore(db)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		APIKey:    cfg.Catalog.APIKey,
		ChannelID: cfg.Catalog.ChannelID,
		Timeout:   cfg.Catalog.Timeout,
	})

	ranker := ranking.New(catalogClient, store, log, ranking.Options{
		ClickWeight:       cfg.Ranking.ClickWeight,
		RecencyWindowDays: cfg.Ranking.RecencyWindowDays,
		CandidatePoolSize: cfg.Ranking.CandidatePoolSize,
		ResultCount:       cfg.Ranking.ResultCount,
	})

	handlers := api.Handlers{
		Click:   handler.NewClickHandler(store, log),
		Related: handler.NewRelatedHandler(ranker, log),
	}

	// done signals background goroutines (rate limiter) on shutdown
	done := make(chan struct{})
	defer close(done)

	server := api.NewServer(cfg, log, handlers, store.Ping, done)

	log.Info("Related-videos service starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("channel_id", cfg.Catalog.ChannelID),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Related-videos service exited cleanly")
	return 0
}
