// Package store persists authors and quotes with GORM, on sqlite by default or on postgres.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"

	// MemoryName selects a private in-memory sqlite database.
	MemoryName = ":memory:"
)

// Config selects and tunes the database.
type Config struct {
	Type               string
	Name               string
	Host               string
	Port               int
	User               string
	Password           string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	SlowQueryThreshold time.Duration
}

// DB owns the connection pool. Repositories borrow it; main closes it.
type DB struct {
	gorm    *gorm.DB
	dialect string
	logger  *slog.Logger
}

// Open connects to the configured database. It does not create tables; call Migrate.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	g, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newSlogAdapter(logger, cfg.SlowQueryThreshold),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, domain.NewUnavailableError("database", err.Error())
	}

	if err := g.SetupJoinTable(&QuoteRow{}, "SingleQuotes", &QuoteLinkRow{}); err != nil {
		return nil, fmt.Errorf("configuring quote links: %w", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	// An in-memory database vanishes with its last connection, and shared-cache
	// tables lock across connections, so pin it to one long-lived connection.
	if cfg.Type == TypeSQLite && cfg.Name == MemoryName {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, domain.NewUnavailableError("database", err.Error())
	}

	logger.InfoContext(ctx, "database connected",
		slog.String("type", cfg.Type),
		slog.String("name", cfg.Name),
	)

	return &DB{gorm: g, dialect: cfg.Type, logger: logger}, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case TypeSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Name)), nil
	case TypePostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	default:
		return nil, domain.NewValidationErrorWithValue("database.type", "must be sqlite or postgres", cfg.Type)
	}
}

// sqliteDSN turns a database name into a modernc DSN with foreign keys on.
// "quotes" becomes the file quotes.db.
func sqliteDSN(name string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if name == MemoryName {
		return "file:quotesboard-" + uuid.NewString() + "?mode=memory&cache=shared&" + pragmas
	}

	if !strings.HasSuffix(name, ".db") {
		name += ".db"
	}

	return name + "?" + pragmas + "&_pragma=journal_mode(WAL)"
}

func postgresDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.Name,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}

	u.RawQuery = q.Encode()

	return u.String()
}

// Migrate creates or updates the schema. It is safe to run on every start.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.gorm.WithContext(ctx).AutoMigrate(&AuthorRow{}, &SingleQuoteRow{}, &QuoteRow{}, &QuoteLinkRow{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	db.logger.DebugContext(ctx, "schema migrated", slog.String("dialect", db.dialect))

	return nil
}

// Close releases the pool.
func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Name implements ports.HealthChecker.
func (db *DB) Name() string { return "database" }

// Check implements ports.HealthChecker by pinging the pool.
func (db *DB) Check(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Dialect reports the configured database type.
func (db *DB) Dialect() string { return db.dialect }

func (db *DB) session(ctx context.Context) *gorm.DB {
	return db.gorm.WithContext(ctx)
}
