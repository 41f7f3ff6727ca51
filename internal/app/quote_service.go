package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotesboard/internal/domain"
	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
	"github.com/jsamuelsen/quotesboard/internal/platform/metrics"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// EmptyStoreMessage is shown to users when a random quote is requested from an empty board.
const EmptyStoreMessage = "This isn't supposed to happen. Please try again!"

// QuoteService covers quote and single quote use cases.
type QuoteService struct {
	quotes  ports.QuoteRepository
	authors ports.AuthorRepository
	logger  *slog.Logger
}

// QuoteServiceConfig lists the dependencies of QuoteService.
type QuoteServiceConfig struct {
	Quotes  ports.QuoteRepository
	Authors ports.AuthorRepository
	Logger  *slog.Logger
}

// NewQuoteService panics when a repository is missing. Logger defaults to slog.Default().
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Quotes == nil || cfg.Authors == nil {
		panic("app: QuoteService requires quote and author repositories")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		quotes:  cfg.Quotes,
		authors: cfg.Authors,
		logger:  logger.With(slog.String("component", "app.QuoteService")),
	}
}

// CreateSingleQuote stores one attributed line that is not yet part of a quote.
func (s *QuoteService) CreateSingleQuote(ctx context.Context, line domain.LineDraft) (domain.SingleQuote, error) {
	if err := (domain.QuoteDraft{Lines: []domain.LineDraft{line}}).Validate(); err != nil {
		return domain.SingleQuote{}, fmt.Errorf("creating single quote: %w", err)
	}

	sq, err := s.quotes.CreateSingleQuote(ctx, line)
	if err != nil {
		return domain.SingleQuote{}, fmt.Errorf("creating single quote: %w", err)
	}

	metrics.RecordCreated("single_quote")

	return sq, nil
}

// GetSingleQuote fails with domain.ErrNotFound for an unknown id.
func (s *QuoteService) GetSingleQuote(ctx context.Context, id uint) (domain.SingleQuote, error) {
	sq, err := s.quotes.GetSingleQuote(ctx, id)
	if err != nil {
		return domain.SingleQuote{}, fmt.Errorf("getting single quote: %w", err)
	}

	return sq, nil
}

// Create stores a quote from its draft in one transaction.
func (s *QuoteService) Create(ctx context.Context, draft domain.QuoteDraft) (domain.Quote, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	if err := draft.Validate(); err != nil {
		return domain.Quote{}, fmt.Errorf("creating quote: %w", err)
	}

	quote, err := s.quotes.Create(ctx, draft)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("creating quote: %w", err)
	}

	metrics.RecordCreated("quote")
	logger.InfoContext(ctx, "quote created",
		slog.Uint64("quote_id", uint64(quote.ID)),
		slog.Int("single_quotes", len(quote.SingleQuotes)),
	)

	return quote, nil
}

// GetByID returns the quote with its single quotes in storage order.
func (s *QuoteService) GetByID(ctx context.Context, id uint) (domain.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("getting quote: %w", err)
	}

	return quote, nil
}

// GetSingleQuotes lists the constituents of a quote in storage order.
func (s *QuoteService) GetSingleQuotes(ctx context.Context, quoteID uint) ([]domain.SingleQuote, error) {
	quote, err := s.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	return quote.SingleQuotes, nil
}

// GetAuthor resolves the author credited for a quote: the speaker of its last
// single quote. A quote that cannot be resolved fails with domain.ErrInconsistent.
func (s *QuoteService) GetAuthor(ctx context.Context, quoteID uint) (domain.Author, error) {
	quote, err := s.GetByID(ctx, quoteID)
	if err != nil {
		return domain.Author{}, err
	}

	trailing, ok := quote.Trailing()
	if !ok {
		return domain.Author{}, domain.NewInconsistencyError(fmt.Sprintf("quote #%d has no single quotes", quoteID))
	}

	author, err := s.authors.GetByID(ctx, trailing.AuthorID)
	if domain.IsNotFound(err) {
		return domain.Author{}, domain.NewInconsistencyError(
			fmt.Sprintf("single quote #%d references missing author #%d", trailing.ID, trailing.AuthorID))
	}

	if err != nil {
		return domain.Author{}, fmt.Errorf("getting quote author: %w", err)
	}

	return author, nil
}

// Random picks a quote uniformly. An empty board fails with domain.ErrInconsistent.
func (s *QuoteService) Random(ctx context.Context) (domain.Quote, error) {
	quote, err := s.quotes.Random(ctx)
	if domain.IsNotFound(err) {
		logging.FromContextOr(ctx, s.logger).WarnContext(ctx, "random quote requested from empty store")

		return domain.Quote{}, domain.NewInconsistencyError("quote store is empty")
	}

	if err != nil {
		return domain.Quote{}, fmt.Errorf("random quote: %w", err)
	}

	metrics.QuoteServed("random")

	return quote, nil
}

// View resolves every speaker of quote for rendering.
func (s *QuoteService) View(ctx context.Context, quote domain.Quote) (domain.QuoteView, error) {
	speakers, err := s.authors.GetMany(ctx, quote.SpeakerIDs())
	if err != nil {
		return domain.QuoteView{}, fmt.Errorf("resolving speakers: %w", err)
	}

	view := domain.QuoteView{Quote: quote, Lines: make([]domain.QuoteLine, 0, len(quote.SingleQuotes))}

	for _, sq := range quote.SingleQuotes {
		speaker, ok := speakers[sq.AuthorID]
		if !ok {
			return domain.QuoteView{}, domain.NewInconsistencyError(
				fmt.Sprintf("single quote #%d references missing author #%d", sq.ID, sq.AuthorID))
		}

		view.Lines = append(view.Lines, domain.QuoteLine{Speaker: speaker, Text: sq.Text})
	}

	return view, nil
}

// RandomView is Random followed by View.
func (s *QuoteService) RandomView(ctx context.Context) (domain.QuoteView, error) {
	quote, err := s.Random(ctx)
	if err != nil {
		return domain.QuoteView{}, err
	}

	return s.View(ctx, quote)
}

// Count reports how many quotes are stored.
func (s *QuoteService) Count(ctx context.Context) (int64, error) {
	n, err := s.quotes.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}

	return n, nil
}
