package refid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	pattern := regexp.MustCompile(`^RES-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New("RES")
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate reference id %s", id)
		seen[id] = true
	}
}
