package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/app"
)

// AuthorHandler serves /api/v1/author.
type AuthorHandler struct {
	authors *app.AuthorService
}

// NewAuthorHandler creates a new author handler.
func NewAuthorHandler(authors *app.AuthorService) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// Create handles PUT /api/v1/author.
//
// @Summary Create an author
// @Tags authors
// @Accept json
// @Produce json
// @Param author body dto.CreateAuthorRequest true "raw_name, or first_name and last_name"
// @Success 200 {object} dto.AuthorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/author [put]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	author, err := h.authors.Create(c.Request.Context(), req.CanonicalRawName())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// Get handles GET /api/v1/author/:id.
//
// @Summary Get an author
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} dto.AuthorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/author/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	author, err := h.authors.GetByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// RandomQuote handles GET /api/v1/author/:id/random. An author without
// credited quotes is a 500.
//
// @Summary Get a random quote credited to an author
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/author/{id}/random [get]
func (h *AuthorHandler) RandomQuote(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	quote, err := h.authors.RandomQuoteForAuthor(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// RegisterRoutes mounts the author routes on rg.
func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/author")
	authors.PUT("", h.Create)
	authors.GET("/:id", h.Get)
	authors.GET("/:id/random", h.RandomQuote)
}
