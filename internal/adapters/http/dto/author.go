package dto

import (
	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// CreateAuthorRequest is the body of PUT /api/v1/author. Either raw_name or
// first_name with last_name must be given.
type CreateAuthorRequest struct {
	RawName   string `json:"raw_name" validate:"omitempty,rawname"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

// Validate enforces that exactly one naming form is used.
func (r CreateAuthorRequest) Validate() error {
	hasParts := r.FirstName != "" || r.LastName != ""

	switch {
	case r.RawName != "" && hasParts:
		return domain.NewValidationError("raw_name", "give raw_name or first_name/last_name, not both")
	case r.RawName == "" && !hasParts:
		return domain.NewValidationError("raw_name", "this field is required")
	case hasParts && domain.RawNameFromParts(r.FirstName, r.LastName) == "":
		return domain.NewValidationError("first_name", "must not be blank")
	}

	return nil
}

// CanonicalRawName is the raw name the request resolves to.
func (r CreateAuthorRequest) CanonicalRawName() string {
	if r.RawName != "" {
		return r.RawName
	}

	return domain.RawNameFromParts(r.FirstName, r.LastName)
}

// AuthorResponse is an author with its derived name forms.
type AuthorResponse struct {
	ID        uint   `json:"id"`
	RawName   string `json:"raw_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
}

// NewAuthorResponse converts a domain author.
func NewAuthorResponse(a domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		RawName:   a.RawName,
		FirstName: a.FirstName(),
		LastName:  a.LastName(),
		Name:      a.DisplayName(),
	}
}
