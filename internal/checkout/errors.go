package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with zero lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSessionNotCleared indicates the cart still had lines after the
	// post-checkout clear. The order exists at that point; the failure is
	// surfaced rather than swallowed so the caller can retry the clear.
	ErrSessionNotCleared = errors.New("cart not cleared after checkout")
)

// FieldErrors maps field names to validation messages. It is returned by
// delivery submission and checkout guards so forms can re-render with
// per-field messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}
