// Package app holds the use cases of the quote board. Services orchestrate
// repositories through ports and translate storage outcomes into domain errors.
// HTTP and SQL specifics stay in adapters.
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

// AuthorService covers author creation, lookup and per-author random quotes.
type AuthorService struct {
	authors ports.AuthorRepository
	quotes  ports.QuoteRepository
	logger  *slog.Logger
}

// AuthorServiceConfig lists the dependencies of AuthorService.
type AuthorServiceConfig struct {
	Authors ports.AuthorRepository
	Quotes  ports.QuoteRepository
	Logger  *slog.Logger
}

// NewAuthorService panics when a repository is missing. Logger defaults to slog.Default().
func NewAuthorService(cfg AuthorServiceConfig) *AuthorService {
	if cfg.Authors == nil || cfg.Quotes == nil {
		panic("app: AuthorService requires author and quote repositories")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthorService{
		authors: cfg.Authors,
		quotes:  cfg.Quotes,
		logger:  logger.With(slog.String("component", "app.AuthorService")),
	}
}

// Create stores a new author. A taken raw name fails with domain.ErrConflict.
func (s *AuthorService) Create(ctx context.Context, rawName string) (domain.Author, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	if err := domain.ValidateRawName(rawName); err != nil {
		return domain.Author{}, fmt.Errorf("creating author: %w", err)
	}

	author, err := s.authors.Create(ctx, rawName)
	if err != nil {
		return domain.Author{}, fmt.Errorf("creating author: %w", err)
	}

	metrics.RecordCreated("author")
	logger.InfoContext(ctx, "author created",
		slog.Uint64("author_id", uint64(author.ID)),
		slog.String("raw_name", author.RawName),
	)

	return author, nil
}

// GetByID fails with domain.ErrNotFound for an unknown id.
func (s *AuthorService) GetByID(ctx context.Context, id uint) (domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("getting author: %w", err)
	}

	return author, nil
}

// GetByRawName fails with domain.ErrNotFound for an unknown raw name.
func (s *AuthorService) GetByRawName(ctx context.Context, rawName string) (domain.Author, error) {
	author, err := s.authors.GetByRawName(ctx, rawName)
	if err != nil {
		return domain.Author{}, fmt.Errorf("getting author by raw name: %w", err)
	}

	return author, nil
}

// FindOrCreate returns the author with rawName, creating it on first use.
// A concurrent insert of the same name is resolved by reading the winner.
func (s *AuthorService) FindOrCreate(ctx context.Context, rawName string) (domain.Author, error) {
	author, err := s.authors.GetByRawName(ctx, rawName)
	if err == nil {
		return author, nil
	}

	if !domain.IsNotFound(err) {
		return domain.Author{}, fmt.Errorf("finding author: %w", err)
	}

	author, err = s.Create(ctx, rawName)
	if domain.IsConflict(err) {
		return s.GetByRawName(ctx, rawName)
	}

	return author, err
}

// RandomQuoteForAuthor picks one of the quotes credited to the author, where credit
// goes to whoever speaks the last single quote. An unknown author fails with
// domain.ErrNotFound; an author with no such quotes fails with domain.ErrInconsistent.
func (s *AuthorService) RandomQuoteForAuthor(ctx context.Context, authorID uint) (domain.Quote, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		return domain.Quote{}, fmt.Errorf("random quote for author: %w", err)
	}

	quote, err := s.quotes.RandomByTrailingAuthor(ctx, authorID)
	if domain.IsNotFound(err) {
		logger.WarnContext(ctx, "author has no quotes", slog.Uint64("author_id", uint64(authorID)))

		return domain.Quote{}, domain.NewInconsistencyError(fmt.Sprintf("author #%d has no quotes", authorID))
	}

	if err != nil {
		return domain.Quote{}, fmt.Errorf("random quote for author: %w", err)
	}

	metrics.QuoteServed("author_random")

	return quote, nil
}
