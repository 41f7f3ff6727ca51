// Package acl keeps remote API shapes out of the domain. Each adapter calls a
// downstream through clients.Client and hands back ports types.
package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quotesboard/internal/adapters/clients"
	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// randomPath is quotable's single random quote endpoint.
const randomPath = "/random"

// QuoteClient implements ports.QuoteSource against a quotable-compatible API.
type QuoteClient struct {
	client  *clients.Client
	service string
	logger  *slog.Logger
}

// QuoteClientConfig lists the dependencies of QuoteClient.
type QuoteClientConfig struct {
	Client *clients.Client

	// Service names the remote API in errors. Defaults to "quote-service".
	Service string

	Logger *slog.Logger
}

var _ ports.QuoteSource = (*QuoteClient)(nil)

// NewQuoteClient panics without a client.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("acl: QuoteClient requires a client")
	}

	service := cfg.Service
	if service == "" {
		service = "quote-service"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{client: cfg.Client, service: service, logger: logger}
}

// RandomQuote fetches one quote. Transport failures and 5xx answers are
// domain.ErrUnavailable; a malformed quote is domain.ErrValidation.
func (c *QuoteClient) RandomQuote(ctx context.Context) (ports.RemoteQuote, error) {
	logger := logging.FromContextOr(ctx, c.logger)
	logger.Log(ctx, logging.LevelTrace, "fetching remote quote", slog.String("path", randomPath))

	resp, err := c.client.Get(ctx, randomPath)
	if err != nil {
		return ports.RemoteQuote{}, mapClientError(c.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := mapStatus(c.service, resp)
		logger.WarnContext(ctx, "quote API error", slog.Int("status", resp.StatusCode), slog.Any("error", err))

		return ports.RemoteQuote{}, err
	}

	ext, err := decodeQuote(resp.Body)
	if err != nil {
		return ports.RemoteQuote{}, fmt.Errorf("%s: %w", c.service, err)
	}

	quote, err := translate(ext)
	if err != nil {
		return ports.RemoteQuote{}, fmt.Errorf("%s quote %q: %w", c.service, ext.ID, err)
	}

	logger.Log(ctx, logging.LevelTrace, "translated remote quote",
		slog.String("remote_id", ext.ID),
		slog.String("author", quote.Author),
	)

	return quote, nil
}
