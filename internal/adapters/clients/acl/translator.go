package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/quotesboard/internal/domain"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// bodyLimit caps a quote response; quotes are short.
const bodyLimit = 64 << 10

// quotableQuote is the quotable.io wire shape. It never leaves this package.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// decodeQuote reads either a single quote object (GET /random) or an array
// of them (GET /quotes/random), keeping the first.
func decodeQuote(body io.Reader) (quotableQuote, error) {
	raw, err := io.ReadAll(io.LimitReader(body, bodyLimit))
	if err != nil {
		return quotableQuote{}, fmt.Errorf("reading quote response: %w", err)
	}

	raw = bytes.TrimSpace(raw)

	if bytes.HasPrefix(raw, []byte("[")) {
		var list []quotableQuote
		if err := json.Unmarshal(raw, &list); err != nil {
			return quotableQuote{}, fmt.Errorf("decoding quote list: %w", err)
		}

		if len(list) == 0 {
			return quotableQuote{}, domain.NewNotFoundErrorByKey("remote quote", "empty list")
		}

		return list[0], nil
	}

	var q quotableQuote
	if err := json.Unmarshal(raw, &q); err != nil {
		return quotableQuote{}, fmt.Errorf("decoding quote: %w", err)
	}

	return q, nil
}

// translate checks the external quote and converts it. Whitespace runs in the
// text collapse to single spaces.
func translate(ext quotableQuote) (ports.RemoteQuote, error) {
	text := strings.Join(strings.Fields(ext.Content), " ")
	if text == "" {
		return ports.RemoteQuote{}, domain.NewValidationError("content", "remote quote has no text")
	}

	author := strings.TrimSpace(ext.Author)
	if author == "" {
		return ports.RemoteQuote{}, domain.NewValidationError("author", "remote quote has no author")
	}

	return ports.RemoteQuote{Text: text, Author: author}, nil
}
