package filters

import (
	"fmt"
	"strings"

	"perkakas/internal/models"
)

// Matches evaluates f against doc in process. Absent fields never match a
// TextContains or Equals condition.
func Matches(f Filter, doc models.Document) bool {
	switch f := f.(type) {
	case MatchAll:
		return true
	case TextContains:
		v := f.Field.Value(doc)
		return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(f.Text))
	case Equals:
		v := f.Field.Value(doc)
		return v != nil && *v == f.Value
	case And:
		for _, c := range f {
			if !Matches(c, doc) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range f {
			if Matches(c, doc) {
				return true
			}
		}
		return false
	}
	return false
}

// Validate checks that every condition names a filterable field and that the
// expression only uses known node types.
func Validate(f Filter) error {
	switch f := f.(type) {
	case MatchAll:
		return nil
	case TextContains:
		if !f.Field.Valid() {
			return fmt.Errorf("unknown filter field %q", f.Field)
		}
		return nil
	case Equals:
		if !f.Field.Valid() {
			return fmt.Errorf("unknown filter field %q", f.Field)
		}
		return nil
	case And:
		for _, c := range f {
			if err := Validate(c); err != nil {
				return err
			}
		}
		return nil
	case Or:
		for _, c := range f {
			if err := Validate(c); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return fmt.Errorf("nil filter")
	}
	return fmt.Errorf("unsupported filter %T", f)
}
