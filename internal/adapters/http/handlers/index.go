package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/views"
	"github.com/jsamuelsen/quotesboard/internal/app"
)

// IndexHandler renders the landing page.
type IndexHandler struct {
	quotes *app.QuoteService
	title  string
}

// NewIndexHandler creates a new index handler. title heads the page.
func NewIndexHandler(quotes *app.QuoteService, title string) *IndexHandler {
	return &IndexHandler{quotes: quotes, title: title}
}

// Index handles GET / with one random quote already rendered.
func (h *IndexHandler) Index(c *gin.Context) {
	view, err := h.quotes.RandomView(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.HTML(http.StatusOK, views.Index, views.Page{Title: h.title, Quote: views.NewQuote(view)})
}

// RegisterRoutes mounts the page routes on r.
func (h *IndexHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
}
