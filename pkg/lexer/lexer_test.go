package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t "))
}

func TestTokenizeAssignment(t *testing.T) {
	tokens := Tokenize("$count = $count + 1")
	assert.Equal(t, []string{"$count", "=", "$count", "+", "1"}, texts(tokens))
	assert.Equal(t, []TokenKind{TokenVariable, TokenOperator, TokenVariable, TokenOperator, TokenNumber}, kinds(tokens))

	// offsets are character positions in the line
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 6, tokens[0].End)
	assert.Equal(t, 18, tokens[4].Start)
	assert.Equal(t, 19, tokens[4].End)
}

func TestTokenizeKeywords(t *testing.T) {
	tokens := Tokenize("else if NOT $a")
	assert.Equal(t, []TokenKind{TokenKeyword, TokenKeyword, TokenKeyword, TokenVariable}, kinds(tokens))
	assert.Equal(t, "NOT", tokens[2].Text)
}

func TestTokenizeStrings(t *testing.T) {
	tokens := Tokenize(`write to log: 'it\'s done' ` + "`x`")
	require.Len(t, tokens, 6)
	assert.Equal(t, TokenString, tokens[4].Kind)
	assert.Equal(t, `'it\'s done'`, tokens[4].Text)
	assert.Equal(t, "`x`", tokens[5].Text)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tokens := Tokenize("$a = 'open ended")
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenString, tokens[2].Kind)
	assert.Equal(t, "'open ended", tokens[2].Text)
	assert.Equal(t, 16, tokens[2].End)
}

func TestTokenizeGameObject(t *testing.T) {
	tokens := Tokenize("$ship = {Argon Discoverer} -> get owner")
	assert.Equal(t, TokenGameObject, tokens[2].Kind)
	assert.Equal(t, "{Argon Discoverer}", tokens[2].Text)
	assert.Equal(t, "->", tokens[3].Text)
}

func TestTokenizeComment(t *testing.T) {
	tokens := Tokenize("*   check the * cargo")
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenOperator, tokens[0].Kind)
	assert.Equal(t, TokenComment, tokens[1].Kind)
	assert.Equal(t, "check the * cargo", tokens[1].Text)
	assert.Equal(t, 4, tokens[1].Start)

	bare := Tokenize("*")
	require.Len(t, bare, 1)
	assert.Equal(t, "*", bare[0].Text)
}

func TestTokenizeStarInsideLine(t *testing.T) {
	tokens := Tokenize("$a = 2 * 3")
	assert.Equal(t, []TokenKind{TokenVariable, TokenOperator, TokenNumber, TokenOperator, TokenNumber}, kinds(tokens))
}

func TestTokenizeNegativeNumbers(t *testing.T) {
	tests := []struct {
		line  string
		texts []string
		kinds []TokenKind
	}{
		{"$a = -5", []string{"$a", "=", "-5"}, []TokenKind{TokenVariable, TokenOperator, TokenNumber}},
		{"$a - 5", []string{"$a", "-", "5"}, []TokenKind{TokenVariable, TokenOperator, TokenNumber}},
		{"4-5", []string{"4", "-", "5"}, []TokenKind{TokenNumber, TokenOperator, TokenNumber}},
		{"(1)-2", []string{"(", "1", ")", "-", "2"}, []TokenKind{TokenOperator, TokenNumber, TokenOperator, TokenOperator, TokenNumber}},
		{"-(4+5)", []string{"-", "(", "4", "+", "5", ")"}, []TokenKind{TokenOperator, TokenOperator, TokenNumber, TokenOperator, TokenNumber, TokenOperator}},
		{"add -3 to $x", []string{"add", "-3", "to", "$x"}, []TokenKind{TokenText, TokenNumber, TokenText, TokenVariable}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens := Tokenize(tt.line)
			assert.Equal(t, tt.texts, texts(tokens))
			assert.Equal(t, tt.kinds, kinds(tokens))
		})
	}
}

func TestTokenizeOperatorsLongestFirst(t *testing.T) {
	tokens := Tokenize("$a>=1&&$b!=2")
	assert.Equal(t, []string{"$a", ">=", "1", "&&", "$b", "!=", "2"}, texts(tokens))
}

func TestTokenizePositionalMarkers(t *testing.T) {
	tokens := Tokenize("$0 = $1 -> get name")
	assert.Equal(t, TokenVariable, tokens[0].Kind)
	assert.Equal(t, "$0", tokens[0].Text)
	assert.Equal(t, "$1", tokens[2].Text)

	bare := Tokenize("$ 5")
	assert.Equal(t, []TokenKind{TokenText, TokenNumber}, kinds(bare))
}

func TestTokenizeUnknownCharacters(t *testing.T) {
	tokens := Tokenize("goto label #start; }")
	assert.Equal(t, []string{"goto", "label", "#start;", "}"}, texts(tokens))
	for _, tok := range tokens {
		assert.Equal(t, TokenText, tok.Kind)
	}
}

func TestTokenizeUnicodeOffsets(t *testing.T) {
	tokens := Tokenize("$größe = 'ä' + 1")
	require.Len(t, tokens, 5)
	assert.Equal(t, 6, tokens[0].End)
	assert.Equal(t, 9, tokens[2].Start)
	assert.Equal(t, 12, tokens[2].End)
}

func TestTokenizeAt(t *testing.T) {
	tokens := TokenizeAt("add 1", 10)
	assert.Equal(t, 10, tokens[0].Start)
	assert.Equal(t, 14, tokens[1].Start)
}

func TestTokenizeIsTotal(t *testing.T) {
	inputs := []string{"{", "'", "$", "-", "->", "{{}}}", "\x7f\x01", "*", "* *", "[[]]"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Tokenize(in) }, in)
	}
}

func BenchmarkTokenize(b *testing.B) {
	line := "$result = [THIS] -> find ship: sector=$sector class or type={Argon Discoverer} race=$race flags=$flags refobj=null maxdist=-1 maxnum=5"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Tokenize(line)
	}
}
