package lexer

import "fmt"

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenNumber
	TokenString
	TokenOperator
	TokenKeyword
	TokenVariable
	TokenConstant
	TokenGameObject
	TokenScriptObject
	TokenComment
	TokenNull
)

var kindNames = [...]string{
	TokenText:         "TEXT",
	TokenNumber:       "NUMBER",
	TokenString:       "STRING",
	TokenOperator:     "OPERATOR",
	TokenKeyword:      "KEYWORD",
	TokenVariable:     "VARIABLE",
	TokenConstant:     "CONSTANT",
	TokenGameObject:   "GAMEOBJECT",
	TokenScriptObject: "SCRIPTOBJECT",
	TokenComment:      "COMMENT",
	TokenNull:         "NULL",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// MarshalText lets token kinds appear by name in JSON dumps.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsValue reports whether tokens of this kind fill a parameter slot.
func (k TokenKind) IsValue() bool {
	switch k {
	case TokenNumber, TokenString, TokenVariable, TokenGameObject,
		TokenScriptObject, TokenConstant, TokenNull:
		return true
	}
	return false
}

// IsStructural reports whether tokens of this kind are part of a command's fixed syntax.
func (k TokenKind) IsStructural() bool {
	return k == TokenText || k == TokenKeyword || k == TokenOperator
}

// Token is a span of one source line. Start and End are rune offsets, End exclusive.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Start int       `json:"start"`
	End   int       `json:"end"`
	Text  string    `json:"text"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Start)
}

// Is reports whether t has the given kind and (case-insensitive) text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && equalFold(t.Text, text)
}

// Shift returns a copy of t moved by delta characters.
func (t Token) Shift(delta int) Token {
	t.Start += delta
	t.End += delta
	return t
}

// Span returns the smallest range covering all tokens.
func Span(tokens []Token) (start, end int) {
	if len(tokens) == 0 {
		return 0, 0
	}
	return tokens[0].Start, tokens[len(tokens)-1].End
}
