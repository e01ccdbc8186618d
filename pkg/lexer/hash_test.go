package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashReplacesValues(t *testing.T) {
	h := Hash(Tokenize("add 5 to $total"))
	assert.Equal(t, "add <?> to <?>", h.Hash)
	assert.Equal(t, []string{"add", Sentinel, "to", Sentinel}, h.Segments)
	assert.Equal(t, []string{"5", "$total"}, texts(h.Parameters))
}

func TestHashInvariance(t *testing.T) {
	pairs := [][2]string{
		{"$a = sprintf: fmt='%s', $x", "$b = sprintf: fmt='%d items', 42"},
		{"$a == 1", "$zz == 'text'"},
		{"$s -> dock at {Argon Trading Station}", "$ship -> dock at $station"},
		{"write to log file -1 append=1 value=$v", "write to log file 9000 append=0 value='x'"},
	}
	for _, p := range pairs {
		a, b := Hash(Tokenize(p[0])), Hash(Tokenize(p[1]))
		assert.True(t, a.Equal(b), "%q vs %q: %q != %q", p[0], p[1], a.Hash, b.Hash)
	}
}

func TestHashCaseInsensitiveStructure(t *testing.T) {
	assert.Equal(t, Hash(Tokenize("Add 1 TO $x")).Hash, Hash(Tokenize("add 2 to $y")).Hash)
}

func TestHashIgnoresComments(t *testing.T) {
	h := Hash(Tokenize("* just words"))
	assert.Equal(t, "*", h.Hash)
	assert.Empty(t, h.Parameters)
}

func TestHashEmpty(t *testing.T) {
	h := Hash(nil)
	assert.True(t, h.IsEmpty())
	assert.Empty(t, h.Segments)
}
