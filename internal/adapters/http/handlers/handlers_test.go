package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/views"
	"github.com/jsamuelsen/quotesboard/internal/app"
	"github.com/jsamuelsen/quotesboard/internal/domain"
	"github.com/jsamuelsen/quotesboard/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	leroy = domain.Author{ID: 1, RawName: "leroy_jenkins"}
	abdul = domain.Author{ID: 2, RawName: "abdul_raheem"}

	raid = domain.Quote{
		ID: 7,
		SingleQuotes: []domain.SingleQuote{
			{ID: 20, Text: "Give me a few seconds.", AuthorID: abdul.ID},
			{ID: 21, Text: "Leeeroy Jenkins!", AuthorID: leroy.ID},
		},
	}
)

type harness struct {
	engine  *gin.Engine
	quotes  *mocks.MockQuoteRepository
	authors *mocks.MockAuthorRepository
}

func newHarness(t *testing.T) harness {
	t.Helper()

	h := harness{
		engine:  gin.New(),
		quotes:  mocks.NewMockQuoteRepository(t),
		authors: mocks.NewMockAuthorRepository(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorSvc := app.NewAuthorService(app.AuthorServiceConfig{Authors: h.authors, Quotes: h.quotes, Logger: logger})
	quoteSvc := app.NewQuoteService(app.QuoteServiceConfig{Quotes: h.quotes, Authors: h.authors, Logger: logger})

	h.engine.SetHTMLTemplate(views.Templates())

	api := h.engine.Group("/api/v1")
	NewAuthorHandler(authorSvc).RegisterRoutes(api)
	NewQuoteHandler(quoteSvc).RegisterRoutes(api)
	NewSingleQuoteHandler(quoteSvc).RegisterRoutes(api)
	NewIndexHandler(quoteSvc, "Quote Board").RegisterRoutes(h.engine)

	return h
}

func (h harness) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestAuthorHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockAuthorRepository)
		wantStatus int
		wantCode   string
	}{
		{
			name: "raw name",
			body: `{"raw_name":"leroy_jenkins"}`,
			setup: func(m *mocks.MockAuthorRepository) {
				m.EXPECT().Create(mock.Anything, "leroy_jenkins").Return(leroy, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "first and last name",
			body: `{"first_name":"Leroy","last_name":"Jenkins"}`,
			setup: func(m *mocks.MockAuthorRepository) {
				m.EXPECT().Create(mock.Anything, "leroy_jenkins").Return(leroy, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "duplicate",
			body: `{"raw_name":"leroy_jenkins"}`,
			setup: func(m *mocks.MockAuthorRepository) {
				m.EXPECT().Create(mock.Anything, "leroy_jenkins").
					Return(domain.Author{}, domain.NewConflictError("author", "raw_name exists"))
			},
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrorCodeConflict,
		},
		{
			name:       "missing name",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidation,
		},
		{
			name:       "malformed body",
			body:       `{"raw_name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h.authors)
			}

			w := h.do(http.MethodPut, "/api/v1/author", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[dto.ErrorResponse](t, w).Error.Code)
				return
			}

			got := decode[dto.AuthorResponse](t, w)
			assert.Equal(t, dto.AuthorResponse{
				ID: 1, RawName: "leroy_jenkins", FirstName: "leroy", LastName: "jenkins", Name: "Leroy Jenkins",
			}, got)
		})
	}
}

func TestAuthorHandler_Get(t *testing.T) {
	h := newHarness(t)
	h.authors.EXPECT().GetByID(mock.Anything, uint(1)).Return(leroy, nil)
	h.authors.EXPECT().GetByID(mock.Anything, uint(9)).Return(domain.Author{}, domain.NewNotFoundError("author", 9))

	w := h.do(http.MethodGet, "/api/v1/author/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Leroy Jenkins", decode[dto.AuthorResponse](t, w).Name)

	w = h.do(http.MethodGet, "/api/v1/author/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/v1/author/leroy", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorHandler_RandomQuote(t *testing.T) {
	h := newHarness(t)
	h.authors.EXPECT().GetByID(mock.Anything, uint(1)).Return(leroy, nil)
	h.authors.EXPECT().GetByID(mock.Anything, uint(2)).Return(abdul, nil)
	h.authors.EXPECT().GetByID(mock.Anything, uint(9)).Return(domain.Author{}, domain.NewNotFoundError("author", 9))
	h.quotes.EXPECT().RandomByTrailingAuthor(mock.Anything, uint(1)).Return(raid, nil)
	h.quotes.EXPECT().RandomByTrailingAuthor(mock.Anything, uint(2)).
		Return(domain.Quote{}, &domain.NotFoundError{Entity: "quote"})

	w := h.do(http.MethodGet, "/api/v1/author/1/random", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[dto.QuoteResponse](t, w)
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "Leeeroy Jenkins!", got.Quote)
	assert.Equal(t, leroy.ID, got.AuthorID)

	w = h.do(http.MethodGet, "/api/v1/author/2/random", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, app.EmptyStoreMessage, decode[dto.ErrorResponse](t, w).Error.Message)

	w = h.do(http.MethodGet, "/api/v1/author/9/random", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteHandler_Create(t *testing.T) {
	t.Run("short form", func(t *testing.T) {
		h := newHarness(t)
		want := domain.QuoteDraft{Lines: []domain.LineDraft{{Text: "Leeeroy Jenkins!", AuthorID: 1}}}
		h.quotes.EXPECT().Create(mock.Anything, want).Return(raid, nil)

		w := h.do(http.MethodPut, "/api/v1/quote", `{"quote":"Leeeroy Jenkins!","author_id":1}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[dto.QuoteResponse](t, w)
		assert.Len(t, got.SingleQuotes, 2)
		assert.Nil(t, got.BeforeContext)
	})

	t.Run("long form", func(t *testing.T) {
		h := newHarness(t)
		before := "The raid group is planning."
		want := domain.QuoteDraft{
			Lines:          []domain.LineDraft{{Text: "Leeeroy Jenkins!", AuthorID: 1}},
			SingleQuoteIDs: []uint{20},
			BeforeContext:  &before,
		}
		h.quotes.EXPECT().Create(mock.Anything, want).Return(raid, nil)

		w := h.do(http.MethodPut, "/api/v1/quote",
			`{"lines":[{"text":"Leeeroy Jenkins!","author_id":1}],"single_quote_ids":[20],"before_context":"The raid group is planning."}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("already linked", func(t *testing.T) {
		h := newHarness(t)
		h.quotes.EXPECT().Create(mock.Anything, mock.Anything).
			Return(domain.Quote{}, domain.NewConflictError("quote link", "single quote #20 already belongs to a quote"))

		w := h.do(http.MethodPut, "/api/v1/quote", `{"single_quote_ids":[20]}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		h := newHarness(t)
		h.quotes.EXPECT().Create(mock.Anything, mock.Anything).
			Return(domain.Quote{}, domain.NewNotFoundError("author", 9))

		w := h.do(http.MethodPut, "/api/v1/quote", `{"quote":"hi","author_id":9}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no constituents", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodPut, "/api/v1/quote", `{"before_context":"nothing said"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidation, decode[dto.ErrorResponse](t, w).Error.Code)
	})
}

func TestQuoteHandler_Lookups(t *testing.T) {
	h := newHarness(t)
	h.quotes.EXPECT().GetByID(mock.Anything, uint(7)).Return(raid, nil).Times(3)
	h.quotes.EXPECT().GetByID(mock.Anything, uint(8)).Return(domain.Quote{}, domain.NewNotFoundError("quote", 8))
	h.authors.EXPECT().GetByID(mock.Anything, leroy.ID).Return(leroy, nil)

	w := h.do(http.MethodGet, "/api/v1/quote/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Leeeroy Jenkins!", decode[dto.QuoteResponse](t, w).Quote)

	w = h.do(http.MethodGet, "/api/v1/quote/7/single_quotes", "")
	require.Equal(t, http.StatusOK, w.Code)
	sqs := decode[[]dto.SingleQuoteResponse](t, w)
	require.Len(t, sqs, 2)
	assert.Equal(t, uint(20), sqs[0].ID)

	w = h.do(http.MethodGet, "/api/v1/quote/7/author", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leroy_jenkins", decode[dto.AuthorResponse](t, w).RawName)

	w = h.do(http.MethodGet, "/api/v1/quote/8", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/v1/quote/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteHandler_Random(t *testing.T) {
	t.Run("renders fragment", func(t *testing.T) {
		h := newHarness(t)
		h.quotes.EXPECT().Random(mock.Anything).Return(raid, nil)
		h.authors.EXPECT().GetMany(mock.Anything, []uint{abdul.ID, leroy.ID}).
			Return(map[uint]domain.Author{abdul.ID: abdul, leroy.ID: leroy}, nil)

		w := h.do(http.MethodGet, "/api/v1/quote/random", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Leroy Jenkins")
		assert.Contains(t, w.Body.String(), "Give me a few seconds.")
	})

	t.Run("empty store", func(t *testing.T) {
		h := newHarness(t)
		h.quotes.EXPECT().Random(mock.Anything).Return(domain.Quote{}, &domain.NotFoundError{Entity: "quote"})

		w := h.do(http.MethodGet, "/api/v1/quote/random", "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, app.EmptyStoreMessage, decode[dto.ErrorResponse](t, w).Error.Message)
	})
}

func TestSingleQuoteHandler(t *testing.T) {
	h := newHarness(t)
	line := domain.LineDraft{Text: "At least I have chicken.", AuthorID: 1}
	h.quotes.EXPECT().CreateSingleQuote(mock.Anything, line).
		Return(domain.SingleQuote{ID: 30, Text: line.Text, AuthorID: 1}, nil)
	h.quotes.EXPECT().GetSingleQuote(mock.Anything, uint(30)).
		Return(domain.SingleQuote{ID: 30, Text: line.Text, AuthorID: 1}, nil)
	h.quotes.EXPECT().GetSingleQuote(mock.Anything, uint(31)).
		Return(domain.SingleQuote{}, domain.NewNotFoundError("single quote", 31))

	w := h.do(http.MethodPut, "/api/v1/single_quote", `{"text":"At least I have chicken.","author_id":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, dto.SingleQuoteResponse{ID: 30, Text: line.Text, AuthorID: 1}, decode[dto.SingleQuoteResponse](t, w))

	w = h.do(http.MethodGet, "/api/v1/single_quote/30", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/single_quote/31", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPut, "/api/v1/single_quote", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexHandler(t *testing.T) {
	h := newHarness(t)
	h.quotes.EXPECT().Random(mock.Anything).Return(raid, nil)
	h.authors.EXPECT().GetMany(mock.Anything, mock.Anything).
		Return(map[uint]domain.Author{abdul.ID: abdul, leroy.ID: leroy}, nil)

	w := h.do(http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Quote Board</title>")
	assert.Contains(t, w.Body.String(), `data-quote-id="7"`)
}
