// internal/clientutils/errors.go
package clientutils

import "fmt"

// Typed errors let drivers classify failures with errors.As instead of
// matching on message text.

// ElementNotFoundError is returned when a required selector or field name
// matches no element.
type ElementNotFoundError struct {
	Selector string
}

// Error implements the error interface by formatting the message on the fly.
func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found matching selector '%s'", e.Selector)
}

// NewElementNotFoundError creates a new ElementNotFoundError.
func NewElementNotFoundError(selector string) *ElementNotFoundError {
	return &ElementNotFoundError{
		Selector: selector,
	}
}

// UnsupportedFieldError is returned when a resolved control has no value
// assignment strategy.
type UnsupportedFieldError struct {
	// Field is the reference the caller used (name, selector or element).
	Field string
	// Tag is the lower-cased tag name of the offending element.
	Tag string
	// Type is the lower-cased type attribute, if any.
	Type string
}

func (e *UnsupportedFieldError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("unsupported field '%s': <%s type=%q>", e.Field, e.Tag, e.Type)
	}
	return fmt.Sprintf("unsupported field '%s': <%s>", e.Field, e.Tag)
}
