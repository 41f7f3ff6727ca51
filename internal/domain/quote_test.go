package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func conversation() Quote {
	return Quote{
		ID: 3,
		SingleQuotes: []SingleQuote{
			{ID: 10, Text: "Are you ready?", AuthorID: 2},
			{ID: 11, Text: "Leeeroy Jenkins!", AuthorID: 1},
			{ID: 12, Text: "Oh my god.", AuthorID: 2},
		},
	}
}

func TestQuote_TrailingAttribution(t *testing.T) {
	q := conversation()

	sq, ok := q.Trailing()
	assert.True(t, ok)
	assert.Equal(t, uint(12), sq.ID)
	assert.Equal(t, "Oh my god.", q.Text())
	assert.Equal(t, uint(2), q.AuthorID())
}

func TestQuote_TrailingEmpty(t *testing.T) {
	var q Quote

	_, ok := q.Trailing()
	assert.False(t, ok)
	assert.Empty(t, q.Text())
	assert.Zero(t, q.AuthorID())
}

func TestQuote_SpeakerIDs(t *testing.T) {
	assert.Equal(t, []uint{2, 1}, conversation().SpeakerIDs())
}

func TestQuoteDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   QuoteDraft
		wantErr bool
	}{
		{"single line", QuoteDraft{Lines: []LineDraft{{Text: "hi", AuthorID: 1}}}, false},
		{"existing only", QuoteDraft{SingleQuoteIDs: []uint{4, 5}}, false},
		{"empty", QuoteDraft{}, true},
		{"blank text", QuoteDraft{Lines: []LineDraft{{AuthorID: 1}}}, true},
		{"missing author", QuoteDraft{Lines: []LineDraft{{Text: "hi"}}}, true},
		{"duplicate ids", QuoteDraft{SingleQuoteIDs: []uint{4, 4}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestQuoteView_Attribution(t *testing.T) {
	v := QuoteView{Lines: []QuoteLine{
		{Speaker: Author{ID: 2, RawName: "tom_smith"}, Text: "a"},
		{Speaker: Author{ID: 1, RawName: "leroy_jenkins"}, Text: "b"},
	}}

	assert.Equal(t, "Leroy Jenkins", v.Attribution().DisplayName())
	assert.Zero(t, QuoteView{}.Attribution().ID)
}
