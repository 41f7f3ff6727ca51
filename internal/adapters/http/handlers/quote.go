package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/views"
	"github.com/jsamuelsen/quotesboard/internal/app"
)

// QuoteHandler serves /api/v1/quote.
type QuoteHandler struct {
	quotes *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quotes *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Create handles PUT /api/v1/quote.
//
// @Summary Create a quote
// @Description Accepts {quote, author_id} or {lines, single_quote_ids} with optional context.
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.CreateQuoteRequest true "Quote"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/quote [put]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	quote, err := h.quotes.Create(c.Request.Context(), req.Draft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Random handles GET /api/v1/quote/random and renders an HTML fragment
// for htmx to swap into the index page.
//
// @Summary Render a random quote
// @Tags quotes
// @Produce html
// @Success 200 {string} string "HTML fragment"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quote/random [get]
func (h *QuoteHandler) Random(c *gin.Context) {
	view, err := h.quotes.RandomView(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.HTML(http.StatusOK, views.QuoteFragment, views.NewQuote(view))
}

// Get handles GET /api/v1/quote/:id.
//
// @Summary Get a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quote/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotes.GetByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// SingleQuotes handles GET /api/v1/quote/:id/single_quotes.
//
// @Summary List the lines of a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {array} dto.SingleQuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quote/{id}/single_quotes [get]
func (h *QuoteHandler) SingleQuotes(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	sqs, err := h.quotes.GetSingleQuotes(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSingleQuoteResponses(sqs))
}

// Author handles GET /api/v1/quote/:id/author, the speaker of the last line.
//
// @Summary Get the author credited for a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.AuthorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quote/{id}/author [get]
func (h *QuoteHandler) Author(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	author, err := h.quotes.GetAuthor(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// RegisterRoutes mounts the quote routes on rg.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quote")
	quotes.PUT("", h.Create)
	quotes.GET("/random", h.Random)
	quotes.GET("/:id", h.Get)
	quotes.GET("/:id/single_quotes", h.SingleQuotes)
	quotes.GET("/:id/author", h.Author)
}
