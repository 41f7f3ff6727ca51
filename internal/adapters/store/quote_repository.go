package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// QuoteRepository implements ports.QuoteRepository.
type QuoteRepository struct {
	db *DB
}

// NewQuoteRepository binds the repository to db.
func NewQuoteRepository(db *DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// withSingleQuotes preloads constituents in storage order.
func withSingleQuotes(tx *gorm.DB) *gorm.DB {
	return tx.Preload("SingleQuotes", func(db *gorm.DB) *gorm.DB {
		return db.Order("single_quotes.id ASC")
	})
}

func (r *QuoteRepository) CreateSingleQuote(ctx context.Context, line domain.LineDraft) (domain.SingleQuote, error) {
	row := SingleQuoteRow{Text: line.Text, AuthorID: line.AuthorID}

	err := r.db.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAuthors(tx, []uint{line.AuthorID}); err != nil {
			return err
		}

		return translate(tx.Omit(clause.Associations).Create(&row).Error, nil, nil)
	})
	if err != nil {
		return domain.SingleQuote{}, fmt.Errorf("storing single quote: %w", err)
	}

	return row.toDomain(), nil
}

func (r *QuoteRepository) GetSingleQuote(ctx context.Context, id uint) (domain.SingleQuote, error) {
	var row SingleQuoteRow

	if err := r.db.session(ctx).Take(&row, id).Error; err != nil {
		return domain.SingleQuote{}, translate(err, func() error { return domain.NewNotFoundError("single quote", id) }, nil)
	}

	return row.toDomain(), nil
}

// Create writes the quote row, its new single quotes and all links in one transaction.
func (r *QuoteRepository) Create(ctx context.Context, draft domain.QuoteDraft) (domain.Quote, error) {
	var quote QuoteRow

	err := r.db.session(ctx).Transaction(func(tx *gorm.DB) error {
		authorIDs := make([]uint, 0, len(draft.Lines))
		for _, l := range draft.Lines {
			authorIDs = append(authorIDs, l.AuthorID)
		}

		if err := requireAuthors(tx, authorIDs); err != nil {
			return err
		}

		if err := requireUnlinked(tx, draft.SingleQuoteIDs); err != nil {
			return err
		}

		quote = QuoteRow{BeforeContext: draft.BeforeContext, AfterContext: draft.AfterContext}
		if err := tx.Omit(clause.Associations).Create(&quote).Error; err != nil {
			return err
		}

		linkIDs := append([]uint(nil), draft.SingleQuoteIDs...)

		if len(draft.Lines) > 0 {
			lines := make([]SingleQuoteRow, len(draft.Lines))
			for i, l := range draft.Lines {
				lines[i] = SingleQuoteRow{Text: l.Text, AuthorID: l.AuthorID}
			}

			if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
				return err
			}

			for _, l := range lines {
				linkIDs = append(linkIDs, l.ID)
			}
		}

		links := make([]QuoteLinkRow, len(linkIDs))
		for i, id := range linkIDs {
			links[i] = QuoteLinkRow{SingleQuoteID: id, QuoteID: quote.ID}
		}

		err := tx.Create(&links).Error

		return translate(err, nil, func() error {
			return domain.NewConflictError("quote link", "a single quote already belongs to a quote")
		})
	})
	if err != nil {
		return domain.Quote{}, fmt.Errorf("storing quote: %w", err)
	}

	return r.GetByID(ctx, quote.ID)
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uint) (domain.Quote, error) {
	var row QuoteRow

	if err := withSingleQuotes(r.db.session(ctx)).Take(&row, id).Error; err != nil {
		return domain.Quote{}, translate(err, func() error { return domain.NewNotFoundError("quote", id) }, nil)
	}

	return row.toDomain(), nil
}

// Random relies on RANDOM(), which sqlite and postgres both provide.
func (r *QuoteRepository) Random(ctx context.Context) (domain.Quote, error) {
	var row QuoteRow

	if err := withSingleQuotes(r.db.session(ctx)).Order("RANDOM()").Take(&row).Error; err != nil {
		return domain.Quote{}, translate(err, func() error { return &domain.NotFoundError{Entity: "quote"} }, nil)
	}

	return row.toDomain(), nil
}

// RandomByTrailingAuthor joins each quote to its highest linked single quote id,
// which is the last constituent in storage order.
func (r *QuoteRepository) RandomByTrailingAuthor(ctx context.Context, authorID uint) (domain.Quote, error) {
	tx := r.db.session(ctx)

	trailing := tx.Model(&QuoteLinkRow{}).
		Select("quote_id, MAX(single_quote_id) AS trailing_id").
		Group("quote_id")

	var row QuoteRow

	err := withSingleQuotes(tx.Model(&QuoteRow{})).
		Select("quotes.*").
		Joins("JOIN (?) AS trailing ON trailing.quote_id = quotes.id", trailing).
		Joins("JOIN single_quotes AS last_line ON last_line.id = trailing.trailing_id").
		Where("last_line.author_id = ?", authorID).
		Order("RANDOM()").
		Take(&row).Error
	if err != nil {
		return domain.Quote{}, translate(err, func() error {
			return domain.NewNotFoundErrorByKey("quote", fmt.Sprintf("credited to author #%d", authorID))
		}, nil)
	}

	return row.toDomain(), nil
}

func (r *QuoteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.session(ctx).Model(&QuoteRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}

	return n, nil
}

// requireAuthors fails with the first missing author id.
func requireAuthors(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var found []uint
	if err := tx.Model(&AuthorRow{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}

	if missing, ok := firstMissing(ids, found); ok {
		return domain.NewNotFoundError("author", missing)
	}

	return nil
}

// requireUnlinked fails when an id is unknown or already part of a quote.
func requireUnlinked(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var found []uint
	if err := tx.Model(&SingleQuoteRow{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}

	if missing, ok := firstMissing(ids, found); ok {
		return domain.NewNotFoundError("single quote", missing)
	}

	var linked []uint
	if err := tx.Model(&QuoteLinkRow{}).Where("single_quote_id IN ?", ids).Pluck("single_quote_id", &linked).Error; err != nil {
		return err
	}

	if len(linked) > 0 {
		return domain.NewConflictError("quote link", fmt.Sprintf("single quote #%d already belongs to a quote", linked[0]))
	}

	return nil
}

func firstMissing(want, found []uint) (uint, bool) {
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}

	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}

	return 0, false
}
