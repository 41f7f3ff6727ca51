package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesboard/internal/adapters/store"
	"github.com/jsamuelsen/quotesboard/internal/app"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stack is the whole service over an in-memory database.
type stack struct {
	engine  *gin.Engine
	db      *store.DB
	authors *app.AuthorService
	quotes  *app.QuoteService
}

func newStack(ctx context.Context) (*stack, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.Open(ctx, store.Config{Type: store.TypeSQLite, Name: store.MemoryName}, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	authorRepo := store.NewAuthorRepository(db)
	quoteRepo := store.NewQuoteRepository(db)

	authors := app.NewAuthorService(app.AuthorServiceConfig{Authors: authorRepo, Quotes: quoteRepo, Logger: logger})
	quotes := app.NewQuoteService(app.QuoteServiceConfig{Quotes: quoteRepo, Authors: authorRepo, Logger: logger})

	registry := ports.NewHealthRegistry()
	if err := registry.Register(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:       logger,
		ServiceName:  "quotesboard-test",
		Timeout:      5 * time.Second,
		Health:       handlers.NewHealthHandler(registry, handlers.NewBuildInfo("quotesboard", "test", "none", "unknown")),
		Authors:      handlers.NewAuthorHandler(authors),
		Quotes:       handlers.NewQuoteHandler(quotes),
		SingleQuotes: handlers.NewSingleQuoteHandler(quotes),
		Index:        handlers.NewIndexHandler(quotes, "Quote Board"),
	})

	return &stack{engine: engine, db: db, authors: authors, quotes: quotes}, nil
}

func newTestStack(t *testing.T) *stack {
	t.Helper()

	s, err := newStack(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.db.Close() })

	return s
}

func (s *stack) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}
