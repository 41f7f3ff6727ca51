// Package ports declares the contracts between the application layer and its adapters.
// Methods take a context first, speak domain types, and fail with domain errors.
package ports

import (
	"context"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// AuthorRepository persists authors.
type AuthorRepository interface {
	// Create stores a new author and returns it with its assigned id.
	// Returns domain.ErrConflict when the raw name is taken.
	Create(ctx context.Context, rawName string) (domain.Author, error)

	// GetByID returns domain.ErrNotFound when no author has the id.
	GetByID(ctx context.Context, id uint) (domain.Author, error)

	// GetByRawName returns domain.ErrNotFound when no author has the raw name.
	GetByRawName(ctx context.Context, rawName string) (domain.Author, error)

	// GetMany resolves several ids at once. Missing ids are absent from the map.
	GetMany(ctx context.Context, ids []uint) (map[uint]domain.Author, error)
}

// QuoteRepository persists single quotes, quotes and the links between them.
type QuoteRepository interface {
	// CreateSingleQuote returns domain.ErrNotFound when the author does not exist.
	CreateSingleQuote(ctx context.Context, line domain.LineDraft) (domain.SingleQuote, error)

	GetSingleQuote(ctx context.Context, id uint) (domain.SingleQuote, error)

	// Create stores the draft atomically: new lines, the quote row and every link.
	// Unknown authors or single quotes yield domain.ErrNotFound; a single quote that
	// already belongs to a quote yields domain.ErrConflict.
	Create(ctx context.Context, draft domain.QuoteDraft) (domain.Quote, error)

	// GetByID returns the quote with its single quotes in storage order.
	GetByID(ctx context.Context, id uint) (domain.Quote, error)

	// Random picks uniformly among all quotes.
	// Returns domain.ErrNotFound when there are none.
	Random(ctx context.Context) (domain.Quote, error)

	// RandomByTrailingAuthor picks uniformly among quotes whose last single quote
	// belongs to authorID. Returns domain.ErrNotFound when there are none.
	RandomByTrailingAuthor(ctx context.Context, authorID uint) (domain.Quote, error)

	Count(ctx context.Context) (int64, error)
}

// RemoteQuote is what a remote quote source hands back, already translated.
type RemoteQuote struct {
	Text   string
	Author string
}

// QuoteSource fetches quotes from outside the service for import.
type QuoteSource interface {
	// RandomQuote returns domain.ErrUnavailable when the source cannot be reached.
	RandomQuote(ctx context.Context) (RemoteQuote, error)
}
