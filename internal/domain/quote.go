package domain

// SingleQuote is one attributed utterance.
type SingleQuote struct {
	ID       uint
	Text     string
	AuthorID uint
}

// Quote aggregates one or more single quotes, in storage order, with optional
// context before and after the exchange.
type Quote struct {
	ID            uint
	SingleQuotes  []SingleQuote
	BeforeContext *string
	AfterContext  *string
}

// Trailing returns the last constituent. Quote-level attribution uses it.
func (q Quote) Trailing() (SingleQuote, bool) {
	if len(q.SingleQuotes) == 0 {
		return SingleQuote{}, false
	}

	return q.SingleQuotes[len(q.SingleQuotes)-1], true
}

// Text is the trailing constituent's text, or "" for a quote without constituents.
func (q Quote) Text() string {
	sq, _ := q.Trailing()
	return sq.Text
}

// AuthorID is the trailing constituent's author, or 0 for a quote without constituents.
func (q Quote) AuthorID() uint {
	sq, _ := q.Trailing()
	return sq.AuthorID
}

// SpeakerIDs lists distinct author ids in order of first appearance.
func (q Quote) SpeakerIDs() []uint {
	seen := make(map[uint]struct{}, len(q.SingleQuotes))
	ids := make([]uint, 0, len(q.SingleQuotes))

	for _, sq := range q.SingleQuotes {
		if _, ok := seen[sq.AuthorID]; ok {
			continue
		}

		seen[sq.AuthorID] = struct{}{}
		ids = append(ids, sq.AuthorID)
	}

	return ids
}

// LineDraft is a single quote that does not exist yet.
type LineDraft struct {
	Text     string
	AuthorID uint
}

// QuoteDraft describes a quote to create from new lines, existing unlinked single
// quotes, or both. Storage order is ascending single quote id, so existing single
// quotes come before the new lines.
type QuoteDraft struct {
	Lines          []LineDraft
	SingleQuoteIDs []uint
	BeforeContext  *string
	AfterContext   *string
}

// Validate checks the draft without touching storage.
func (d QuoteDraft) Validate() error {
	if len(d.Lines)+len(d.SingleQuoteIDs) == 0 {
		return NewValidationError("single_quotes", "a quote needs at least one single quote")
	}

	for _, l := range d.Lines {
		if l.Text == "" {
			return NewValidationError("text", "must not be empty")
		}

		if l.AuthorID == 0 {
			return NewValidationError("author_id", "is required")
		}
	}

	seen := make(map[uint]struct{}, len(d.SingleQuoteIDs))

	for _, id := range d.SingleQuoteIDs {
		if _, dup := seen[id]; dup {
			return NewValidationErrorWithValue("single_quote_ids", "contains duplicates", id)
		}

		seen[id] = struct{}{}
	}

	return nil
}

// QuoteLine pairs a constituent with its resolved speaker.
type QuoteLine struct {
	Speaker Author
	Text    string
}

// QuoteView is a quote with speakers resolved, ready for rendering.
type QuoteView struct {
	Quote Quote
	Lines []QuoteLine
}

// Attribution is the author credited for the whole quote.
func (v QuoteView) Attribution() Author {
	if len(v.Lines) == 0 {
		return Author{}
	}

	return v.Lines[len(v.Lines)-1].Speaker
}
