// Package filters holds the store-agnostic product filter expression and the
// builder that turns a search request into one. Each repository backend lowers
// the expression into its own query language.
package filters

import "perkakas/internal/models"

// Field names a filterable product field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldBrand       Field = "brand"
	FieldCategory    Field = "category"
)

// Valid reports whether the field is one of the filterable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldTitle, FieldDescription, FieldBrand, FieldCategory:
		return true
	}
	return false
}

// Value returns the document's value for the field, or nil when absent.
func (f Field) Value(doc models.Document) *string {
	switch f {
	case FieldTitle:
		return doc.Title
	case FieldDescription:
		return doc.Description
	case FieldBrand:
		return doc.Brand
	case FieldCategory:
		return doc.Category
	}
	return nil
}

// Filter is a predicate over product documents. The concrete types are
// MatchAll, TextContains, Equals, And and Or.
type Filter interface {
	isFilter()
}

// MatchAll matches every document.
type MatchAll struct{}

// TextContains matches when Field contains Text, ignoring case.
type TextContains struct {
	Field Field
	Text  string
}

// Equals matches when Field is exactly Value.
type Equals struct {
	Field Field
	Value string
}

// And matches when every member matches. An empty And matches everything.
type And []Filter

// Or matches when at least one member matches. An empty Or matches nothing.
type Or []Filter

func (MatchAll) isFilter()     {}
func (TextContains) isFilter() {}
func (Equals) isFilter()       {}
func (And) isFilter()          {}
func (Or) isFilter()           {}
