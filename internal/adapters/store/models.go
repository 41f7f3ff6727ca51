package store

import "github.com/jsamuelsen/quotesboard/internal/domain"

// AuthorRow maps the authors table.
type AuthorRow struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	RawName string `gorm:"not null;uniqueIndex:idx_authors_raw_name"`
}

func (AuthorRow) TableName() string { return "authors" }

func (r AuthorRow) toDomain() domain.Author {
	return domain.Author{ID: r.ID, RawName: r.RawName}
}

// SingleQuoteRow maps the single_quotes table.
type SingleQuoteRow struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	Text     string    `gorm:"not null"`
	AuthorID uint      `gorm:"not null;index"`
	Author   AuthorRow `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (SingleQuoteRow) TableName() string { return "single_quotes" }

func (r SingleQuoteRow) toDomain() domain.SingleQuote {
	return domain.SingleQuote{ID: r.ID, Text: r.Text, AuthorID: r.AuthorID}
}

// QuoteRow maps the quotes table. SingleQuotes is loaded through quote_links.
type QuoteRow struct {
	ID            uint `gorm:"primaryKey;autoIncrement"`
	BeforeContext *string
	AfterContext  *string
	SingleQuotes  []SingleQuoteRow `gorm:"many2many:quote_links;joinForeignKey:QuoteID;joinReferences:SingleQuoteID"`
}

func (QuoteRow) TableName() string { return "quotes" }

func (r QuoteRow) toDomain() domain.Quote {
	q := domain.Quote{
		ID:            r.ID,
		BeforeContext: r.BeforeContext,
		AfterContext:  r.AfterContext,
		SingleQuotes:  make([]domain.SingleQuote, len(r.SingleQuotes)),
	}

	for i, sq := range r.SingleQuotes {
		q.SingleQuotes[i] = sq.toDomain()
	}

	return q
}

// QuoteLinkRow maps the quote_links join table. A single quote appears in at most one link.
type QuoteLinkRow struct {
	SingleQuoteID uint `gorm:"primaryKey;autoIncrement:false;uniqueIndex:idx_quote_links_single_quote"`
	QuoteID       uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (QuoteLinkRow) TableName() string { return "quote_links" }
