package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotesboard/internal/domain"
	"github.com/jsamuelsen/quotesboard/internal/platform/metrics"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// ImportReport summarises an import run. Errors holds one entry per failed quote.
type ImportReport struct {
	Requested int
	Imported  int
	Errors    []error
}

// Failed is the number of quotes that could not be fetched or stored.
func (r ImportReport) Failed() int { return len(r.Errors) }

// Err joins every failure, or returns nil.
func (r ImportReport) Err() error { return errors.Join(r.Errors...) }

// Importer copies random quotes from a remote source into the board as
// single-speaker quotes.
type Importer struct {
	source      ports.QuoteSource
	authors     *AuthorService
	quotes      *QuoteService
	concurrency int
	logger      *slog.Logger
}

// ImporterConfig lists the dependencies of Importer.
type ImporterConfig struct {
	Source      ports.QuoteSource
	Authors     *AuthorService
	Quotes      *QuoteService
	Concurrency int
	Logger      *slog.Logger
}

// NewImporter panics without a source or services. Concurrency defaults to 4.
func NewImporter(cfg ImporterConfig) *Importer {
	if cfg.Source == nil || cfg.Authors == nil || cfg.Quotes == nil {
		panic("app: Importer requires a source and both services")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Importer{
		source:      cfg.Source,
		authors:     cfg.Authors,
		quotes:      cfg.Quotes,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "app.Importer")),
	}
}

// Import fetches n quotes concurrently and stores them one at a time.
// Partial failures are reported, not retried.
func (im *Importer) Import(ctx context.Context, n int) ImportReport {
	report := ImportReport{Requested: n}

	fetches := make([]func(context.Context) (ports.RemoteQuote, error), n)
	for i := range fetches {
		fetches[i] = im.source.RandomQuote
	}

	for _, res := range ParallelPartialLimit(ctx, im.concurrency, fetches...) {
		if res.Err != nil {
			metrics.ImportResult("fetch_failed")
			report.Errors = append(report.Errors, fmt.Errorf("fetching remote quote: %w", res.Err))

			continue
		}

		if err := im.store(ctx, res.Value); err != nil {
			metrics.ImportResult("store_failed")
			report.Errors = append(report.Errors, err)

			continue
		}

		metrics.ImportResult("imported")
		report.Imported++
	}

	im.logger.InfoContext(ctx, "import finished",
		slog.Int("requested", report.Requested),
		slog.Int("imported", report.Imported),
		slog.Int("failed", report.Failed()),
	)

	return report
}

func (im *Importer) store(ctx context.Context, rq ports.RemoteQuote) error {
	raw := domain.RawNameFromDisplay(rq.Author)

	author, err := im.authors.FindOrCreate(ctx, raw)
	if err != nil {
		return fmt.Errorf("importing author %q: %w", rq.Author, err)
	}

	draft := domain.QuoteDraft{Lines: []domain.LineDraft{{Text: rq.Text, AuthorID: author.ID}}}

	if _, err := im.quotes.Create(ctx, draft); err != nil {
		return fmt.Errorf("importing quote by %q: %w", rq.Author, err)
	}

	return nil
}
