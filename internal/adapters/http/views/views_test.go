package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

var (
	leroy = domain.Author{ID: 1, RawName: "leroy_jenkins"}
	abdul = domain.Author{ID: 2, RawName: "abdul_raheem"}
)

func render(t *testing.T, name string, data any) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, name, data))

	return buf.String()
}

func TestQuoteFragment_SingleSpeaker(t *testing.T) {
	before := "The raid group is planning."
	v := domain.QuoteView{
		Quote: domain.Quote{
			ID:            3,
			SingleQuotes:  []domain.SingleQuote{{ID: 9, Text: "Leeeroy <Jenkins>!", AuthorID: 1}},
			BeforeContext: &before,
		},
		Lines: []domain.QuoteLine{{Speaker: leroy, Text: "Leeeroy <Jenkins>!"}},
	}

	html := render(t, QuoteFragment, NewQuote(v))

	assert.Contains(t, html, `data-quote-id="3"`)
	assert.Contains(t, html, "Leeeroy &lt;Jenkins&gt;!")
	assert.Contains(t, html, "Leroy Jenkins")
	assert.Contains(t, html, before)
	assert.NotContains(t, html, `class="speaker"`)
}

func TestQuoteFragment_Dialogue(t *testing.T) {
	v := domain.QuoteView{
		Quote: domain.Quote{ID: 7, SingleQuotes: []domain.SingleQuote{
			{ID: 20, Text: "Give me a few seconds.", AuthorID: 2},
			{ID: 21, Text: "Leeeroy Jenkins!", AuthorID: 1},
		}},
		Lines: []domain.QuoteLine{
			{Speaker: abdul, Text: "Give me a few seconds."},
			{Speaker: leroy, Text: "Leeeroy Jenkins!"},
		},
	}

	q := NewQuote(v)
	assert.True(t, q.Dialogue)
	assert.Equal(t, "Leroy Jenkins", q.Author)
	assert.Empty(t, q.BeforeContext)

	html := render(t, QuoteFragment, q)
	assert.Contains(t, html, "Abdul Raheem:</span> Give me a few seconds.")
	assert.NotContains(t, html, `class="context"`)
}

func TestIndex(t *testing.T) {
	v := domain.QuoteView{
		Quote: domain.Quote{ID: 1, SingleQuotes: []domain.SingleQuote{{ID: 1, Text: "hi", AuthorID: 1}}},
		Lines: []domain.QuoteLine{{Speaker: leroy, Text: "hi"}},
	}

	html := render(t, Index, Page{Title: "Quote Board", Quote: NewQuote(v)})

	assert.Contains(t, html, "<title>Quote Board</title>")
	assert.Contains(t, html, `hx-get="/api/v1/quote/random"`)
	assert.Contains(t, html, `data-quote-id="1"`)
}
