package dto

import (
	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// LineRequest is one new attributed line.
type LineRequest struct {
	Text     string `json:"text" validate:"required,notempty"`
	AuthorID uint   `json:"author_id" validate:"required,gt=0"`
}

// CreateSingleQuoteRequest is the body of PUT /api/v1/single_quote.
type CreateSingleQuoteRequest = LineRequest

// CreateQuoteRequest is the body of PUT /api/v1/quote. The short form is
// {quote, author_id}; the long form lists lines and existing single quote ids.
type CreateQuoteRequest struct {
	Quote          string        `json:"quote" validate:"omitempty,notempty"`
	AuthorID       uint          `json:"author_id"`
	Lines          []LineRequest `json:"lines" validate:"omitempty,dive"`
	SingleQuoteIDs []uint        `json:"single_quote_ids" validate:"omitempty,unique,dive,gt=0"`
	BeforeContext  *string       `json:"before_context" validate:"omitempty,max=2000"`
	AfterContext   *string       `json:"after_context" validate:"omitempty,max=2000"`
}

// Validate rejects mixing the short and long forms.
func (r CreateQuoteRequest) Validate() error {
	short := r.Quote != "" || r.AuthorID != 0

	switch {
	case short && (len(r.Lines) > 0 || len(r.SingleQuoteIDs) > 0):
		return domain.NewValidationError("quote", "give quote/author_id or lines/single_quote_ids, not both")
	case r.Quote != "" && r.AuthorID == 0:
		return domain.NewValidationError("author_id", "this field is required")
	case r.Quote == "" && r.AuthorID != 0:
		return domain.NewValidationError("quote", "this field is required")
	}

	return nil
}

// Draft converts the request into a domain draft.
func (r CreateQuoteRequest) Draft() domain.QuoteDraft {
	draft := domain.QuoteDraft{
		SingleQuoteIDs: r.SingleQuoteIDs,
		BeforeContext:  r.BeforeContext,
		AfterContext:   r.AfterContext,
	}

	if r.Quote != "" {
		draft.Lines = []domain.LineDraft{{Text: r.Quote, AuthorID: r.AuthorID}}
	}

	for _, l := range r.Lines {
		draft.Lines = append(draft.Lines, l.Draft())
	}

	return draft
}

// Draft converts the line into a domain draft.
func (l LineRequest) Draft() domain.LineDraft {
	return domain.LineDraft{Text: l.Text, AuthorID: l.AuthorID}
}

// SingleQuoteResponse is one attributed line.
type SingleQuoteResponse struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	AuthorID uint   `json:"author_id"`
}

// NewSingleQuoteResponse converts a domain single quote.
func NewSingleQuoteResponse(sq domain.SingleQuote) SingleQuoteResponse {
	return SingleQuoteResponse{ID: sq.ID, Text: sq.Text, AuthorID: sq.AuthorID}
}

// NewSingleQuoteResponses converts a list, never returning nil.
func NewSingleQuoteResponses(sqs []domain.SingleQuote) []SingleQuoteResponse {
	out := make([]SingleQuoteResponse, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, NewSingleQuoteResponse(sq))
	}

	return out
}

// QuoteResponse flattens the trailing line into quote and author_id.
type QuoteResponse struct {
	ID            uint                  `json:"id"`
	Quote         string                `json:"quote"`
	AuthorID      uint                  `json:"author_id"`
	SingleQuotes  []SingleQuoteResponse `json:"single_quotes"`
	BeforeContext *string               `json:"before_context"`
	AfterContext  *string               `json:"after_context"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:            q.ID,
		Quote:         q.Text(),
		AuthorID:      q.AuthorID(),
		SingleQuotes:  NewSingleQuoteResponses(q.SingleQuotes),
		BeforeContext: q.BeforeContext,
		AfterContext:  q.AfterContext,
	}
}
