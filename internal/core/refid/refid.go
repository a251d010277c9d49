// Package refid generates short prefixed reference identifiers
// (RES-1A2B3C4D, BATCH-..., RET-...) used in customer-facing payloads.
package refid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a reference ID of the form PREFIX-XXXXXXXX where the suffix is
// the first 8 characters of a v4 UUID, uppercased.
func New(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
