package trackid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var tokenShape = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

func TestNew_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		require.Len(t, id, Length)
		require.Regexp(t, tokenShape, id)
	}
}

func TestNew_NoObviousCollisions(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		require.False(t, seen[id], "duplicate token %s", id)
		seen[id] = true
	}
}
