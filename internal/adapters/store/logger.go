package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
)

// slogAdapter routes GORM's logging through the request logger when one is in
// the context. Statements log at trace level, slow statements at warn.
type slogAdapter struct {
	logger        *slog.Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

func newSlogAdapter(logger *slog.Logger, slowThreshold time.Duration) *slogAdapter {
	return &slogAdapter{
		logger:        logger.With(slog.String("component", "store")),
		slowThreshold: slowThreshold,
		level:         gormlogger.Info,
	}
}

func (a *slogAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *a
	clone.level = level

	return &clone
}

func (a *slogAdapter) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logging.FromContextOr(ctx, a.logger).Log(ctx, level, fmt.Sprintf(msg, args...))
}

func (a *slogAdapter) Info(ctx context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Info {
		a.log(ctx, slog.LevelInfo, msg, args...)
	}
}

func (a *slogAdapter) Warn(ctx context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Warn {
		a.log(ctx, slog.LevelWarn, msg, args...)
	}
}

func (a *slogAdapter) Error(ctx context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Error {
		a.log(ctx, slog.LevelError, msg, args...)
	}
}

func (a *slogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if a.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	logger := logging.FromContextOr(ctx, a.logger)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && a.level >= gormlogger.Error:
		sql, rows := fc()
		logger.ErrorContext(ctx, "sql failed",
			slog.String("sql", sql), slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed), slog.Any("error", err))
	case a.slowThreshold > 0 && elapsed > a.slowThreshold && a.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.WarnContext(ctx, "slow sql",
			slog.String("sql", sql), slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed), slog.Duration("threshold", a.slowThreshold))
	case a.level >= gormlogger.Info && logger.Enabled(ctx, logging.LevelTrace):
		sql, rows := fc()
		logger.Log(ctx, logging.LevelTrace, "sql",
			slog.String("sql", sql), slog.Int64("rows", rows), slog.Duration("elapsed", elapsed))
	}
}
