// Package validation carries field-keyed input errors from services and request decoding to the
// HTTP layer, which renders them as {"errors": {field: [message, ...]}}.
package validation

import (
	"maps"
	"slices"
	"strings"
)

type Errors map[string][]string

// Field builds a single-field error.
func Field(field, message string) Errors {
	return Errors{field: {message}}
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies other's messages into e.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when there is nothing to report.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
