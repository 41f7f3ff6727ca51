// Package domain holds the quote board entities and the rules that do not need storage.
// Errors here describe business failures and carry no transport semantics.
package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RawNameSeparator joins name parts inside an author's raw name.
const RawNameSeparator = "_"

// Author is a quoted person. Only RawName is stored; every display form derives from it.
type Author struct {
	ID      uint
	RawName string
}

// FirstName is the first separator-delimited token of the raw name.
func (a Author) FirstName() string {
	first, _, _ := strings.Cut(a.RawName, RawNameSeparator)
	return first
}

// LastName is the last separator-delimited token of the raw name.
// A single-token raw name yields the same value as FirstName.
func (a Author) LastName() string {
	if i := strings.LastIndex(a.RawName, RawNameSeparator); i >= 0 {
		return a.RawName[i+len(RawNameSeparator):]
	}

	return a.RawName
}

// DisplayName replaces separators with spaces and title-cases the result.
func (a Author) DisplayName() string {
	spaced := strings.ReplaceAll(a.RawName, RawNameSeparator, " ")
	return cases.Title(language.English).String(spaced)
}

// RawNameFromParts canonicalises a first and last name into a raw name.
func RawNameFromParts(first, last string) string {
	parts := make([]string, 0, 2)

	for _, p := range []string{first, last} {
		p = strings.ToLower(strings.TrimSpace(p))
		p = strings.Join(strings.Fields(p), RawNameSeparator)

		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, RawNameSeparator)
}

// RawNameFromDisplay turns a free-form name such as "Leroy Jenkins" into "leroy_jenkins".
func RawNameFromDisplay(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), RawNameSeparator)
}

// ValidateRawName checks the first_last shape.
func ValidateRawName(raw string) error {
	switch {
	case raw == "":
		return NewValidationError("raw_name", "must not be empty")
	case strings.IndexFunc(raw, unicode.IsSpace) >= 0:
		return NewValidationErrorWithValue("raw_name", "must not contain whitespace", raw)
	case strings.HasPrefix(raw, RawNameSeparator), strings.HasSuffix(raw, RawNameSeparator):
		return NewValidationErrorWithValue("raw_name", "must not start or end with "+RawNameSeparator, raw)
	}

	return nil
}
