package lexer

import "strings"

// Sentinel stands in for a value token inside a command hash. It cannot collide
// with a structural segment because '<' and '>' always lex as operators.
const Sentinel = "<?>"

// CommandHash is the structural fingerprint of a command line: its fixed words
// and operators, with every value replaced by Sentinel.
type CommandHash struct {
	Hash       string
	Segments   []string
	Parameters []Token
}

// Hash derives the command hash of tokens. Two lines that differ only in the
// values they pass produce the same Hash.
func Hash(tokens []Token) CommandHash {
	h := CommandHash{Segments: make([]string, 0, len(tokens))}
	for _, tok := range tokens {
		switch {
		case tok.Kind.IsStructural():
			h.Segments = append(h.Segments, strings.ToLower(tok.Text))
		case tok.Kind.IsValue():
			h.Segments = append(h.Segments, Sentinel)
			h.Parameters = append(h.Parameters, tok)
		}
	}
	h.Hash = strings.Join(h.Segments, " ")
	return h
}

func (h CommandHash) Equal(other CommandHash) bool {
	return h.Hash == other.Hash
}

func (h CommandHash) IsEmpty() bool {
	return h.Hash == ""
}

func (h CommandHash) String() string {
	return h.Hash
}
