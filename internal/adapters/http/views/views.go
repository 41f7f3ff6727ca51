// Package views embeds the HTML templates served by the quote board.
package views

import (
	"embed"
	"html/template"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// Template names.
const (
	Index         = "index.html"
	QuoteFragment = "quote_fragment.html"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded template. It panics on a malformed template,
// which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.html"))
}

// Line is one rendered utterance.
type Line struct {
	Speaker string
	Text    string
}

// Quote is the data behind QuoteFragment.
type Quote struct {
	ID            uint
	Text          string
	Author        string
	Dialogue      bool
	Lines         []Line
	BeforeContext string
	AfterContext  string
}

// Page is the data behind Index.
type Page struct {
	Title string
	Quote Quote
}

// NewQuote flattens a resolved quote for rendering. A quote with more than one
// line renders as a dialogue.
func NewQuote(v domain.QuoteView) Quote {
	q := Quote{
		ID:       v.Quote.ID,
		Text:     v.Quote.Text(),
		Author:   v.Attribution().DisplayName(),
		Dialogue: len(v.Lines) > 1,
		Lines:    make([]Line, 0, len(v.Lines)),
	}

	for _, l := range v.Lines {
		q.Lines = append(q.Lines, Line{Speaker: l.Speaker.DisplayName(), Text: l.Text})
	}

	if v.Quote.BeforeContext != nil {
		q.BeforeContext = *v.Quote.BeforeContext
	}

	if v.Quote.AfterContext != nil {
		q.AfterContext = *v.Quote.AfterContext
	}

	return q
}
