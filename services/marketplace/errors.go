package marketplace

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when the marketplace has no such record.
var ErrNotFound = errors.New("marketplace: not found")

// APIError is a non-success reply from the marketplace.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("marketplace: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("marketplace: status %d", e.Status)
}

// FirstFieldError returns the first field-level message, taking fields in
// sorted order so the choice does not depend on map iteration.
func (e *APIError) FirstFieldError() (string, bool) {
	if len(e.FieldErrors) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range e.FieldErrors[k] {
			if msg != "" {
				return msg, true
			}
		}
	}
	return "", false
}
