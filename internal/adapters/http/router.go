package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/views"
	"github.com/jsamuelsen/quotesboard/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// opsPrefix groups the probe, build and metrics endpoints.
const opsPrefix = "/-/"

// RouterConfig lists what SetupRouter mounts. Nil handlers are skipped.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName names the otelgin spans.
	ServiceName string

	// Timeout bounds the context of /api/v1 and page requests.
	Timeout time.Duration

	Health       *handlers.HealthHandler
	Authors      *handlers.AuthorHandler
	Quotes       *handlers.QuoteHandler
	SingleQuotes *handlers.SingleQuoteHandler
	Index        *handlers.IndexHandler
}

// SetupRouter configures middleware and routes on engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. Logging, skipping /-/
//
// Routes:
//   - /-/ probes, build info and prometheus metrics, without a deadline
//   - / the HTML board
//   - /api/v1/ the JSON API and the htmx fragment
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	engine.SetHTMLTemplate(views.Templates())

	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(logger, opsPrefix))

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	pages := engine.Group("", middleware.Deadline(timeout))
	if cfg.Index != nil {
		cfg.Index.RegisterRoutes(pages)
	}

	api := engine.Group("/api/v1", middleware.Deadline(timeout))

	if cfg.Authors != nil {
		cfg.Authors.RegisterRoutes(api)
	}

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterRoutes(api)
	}

	if cfg.SingleQuotes != nil {
		cfg.SingleQuotes.RegisterRoutes(api)
	}
}
