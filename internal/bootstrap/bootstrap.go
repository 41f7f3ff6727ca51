// Package bootstrap assembles the pieces shared by the service and the CLI:
// configuration, the logger, the store and the application services.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jsamuelsen/quotesboard/internal/adapters/clients"
	"github.com/jsamuelsen/quotesboard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotesboard/internal/adapters/store"
	"github.com/jsamuelsen/quotesboard/internal/app"
	"github.com/jsamuelsen/quotesboard/internal/platform/config"
	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
)

// ProfileEnv selects the configuration profile.
const ProfileEnv = "APP_ENVIRONMENT"

// DefaultProfile is used when ProfileEnv is unset.
const DefaultProfile = "local"

// Profile returns the active configuration profile.
func Profile() string {
	if p := os.Getenv(ProfileEnv); p != "" {
		return p
	}

	return DefaultProfile
}

// LoadConfig loads and validates configuration for profile.
func LoadConfig(profile string, opts ...config.Option) (*config.Config, error) {
	cfg, err := config.Load(profile, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Logger builds the process logger from cfg.Log, writing to stdout.
func Logger(cfg *config.Config) *slog.Logger {
	return LoggerTo(cfg, os.Stdout)
}

// LoggerTo is Logger writing to w.
func LoggerTo(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
}

// StoreConfig maps the database section onto the store adapter.
func StoreConfig(db config.DatabaseConfig) store.Config {
	return store.Config{
		Type:               db.Type,
		Name:               db.Name,
		Host:               db.Host,
		Port:               db.Port,
		User:               db.User,
		Password:           db.Password,
		SSLMode:            db.SSLMode,
		MaxOpenConns:       db.MaxOpenConns,
		MaxIdleConns:       db.MaxIdleConns,
		ConnMaxLifetime:    db.ConnMaxLifetime,
		SlowQueryThreshold: db.SlowQueryThreshold,
	}
}

// Core is the store plus the services built on it.
type Core struct {
	DB      *store.DB
	Authors *app.AuthorService
	Quotes  *app.QuoteService
	Seeder  *app.Seeder
}

// Open connects to the database, migrates the schema and wires the services.
func Open(ctx context.Context, db config.DatabaseConfig, logger *slog.Logger) (*Core, error) {
	conn, err := store.Open(ctx, StoreConfig(db), logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if err := conn.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	authorRepo := store.NewAuthorRepository(conn)
	quoteRepo := store.NewQuoteRepository(conn)

	authors := app.NewAuthorService(app.AuthorServiceConfig{Authors: authorRepo, Quotes: quoteRepo, Logger: logger})
	quotes := app.NewQuoteService(app.QuoteServiceConfig{Quotes: quoteRepo, Authors: authorRepo, Logger: logger})

	return &Core{
		DB:      conn,
		Authors: authors,
		Quotes:  quotes,
		Seeder:  app.NewSeeder(authors, quotes, logger),
	}, nil
}

// Close releases the database pool.
func (c *Core) Close() error {
	return c.DB.Close()
}

// Importer wires the remote quote API configured under services.quote.
func (c *Core) Importer(cfg *config.Config, logger *slog.Logger) (*app.Importer, error) {
	svc := cfg.Services.Quote

	client, err := clients.New(clients.Config{
		BaseURL:     svc.BaseURL,
		ServiceName: svc.Name,
		Settings:    cfg.Client,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", svc.Name, err)
	}

	source := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Service: svc.Name, Logger: logger})

	return app.NewImporter(app.ImporterConfig{
		Source:      source,
		Authors:     c.Authors,
		Quotes:      c.Quotes,
		Concurrency: svc.Concurrency,
		Logger:      logger,
	}), nil
}
