package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/app"
)

// SingleQuoteHandler serves /api/v1/single_quote.
type SingleQuoteHandler struct {
	quotes *app.QuoteService
}

// NewSingleQuoteHandler creates a new single quote handler.
func NewSingleQuoteHandler(quotes *app.QuoteService) *SingleQuoteHandler {
	return &SingleQuoteHandler{quotes: quotes}
}

// Create handles PUT /api/v1/single_quote. The line is stored unlinked; a
// later PUT /api/v1/quote can link it by id.
func (h *SingleQuoteHandler) Create(c *gin.Context) {
	var req dto.CreateSingleQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	sq, err := h.quotes.CreateSingleQuote(c.Request.Context(), req.Draft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSingleQuoteResponse(sq))
}

// Get handles GET /api/v1/single_quote/:id.
func (h *SingleQuoteHandler) Get(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	sq, err := h.quotes.GetSingleQuote(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSingleQuoteResponse(sq))
}

// RegisterRoutes mounts the single quote routes on rg.
func (h *SingleQuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sqs := rg.Group("/single_quote")
	sqs.PUT("", h.Create)
	sqs.GET("/:id", h.Get)
}
