package lexer

import (
	"strings"
	"unicode"
)

// Keywords recognised by the lexer. Matching is case-insensitive.
var keywords = map[string]bool{
	"if":       true,
	"while":    true,
	"skip":     true,
	"do":       true,
	"else":     true,
	"end":      true,
	"break":    true,
	"continue": true,
	"not":      true,
	"and":      true,
	"or":       true,
}

// Operator glyphs, longest first.
var operators = []string{
	"==", "!=", ">=", "<=", "&&", "||", "->", "<<", ">>",
	"+", "-", "*", "/", "%", "!", "~", "(", ")", "[", "]",
	"=", "<", ">", "&", "|", "^", ",", ":",
}

// IsKeyword reports whether word is an MSCI keyword.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

type Lexer struct {
	input        []rune
	position     int  // offset of ch
	readPosition int  // offset after ch
	ch           rune // 0 at end of line
	tokens       []Token
	pending      *Token
}

func NewLexer(line string) *Lexer {
	l := &Lexer{input: []rune(line)}
	l.readChar()
	return l
}

// Tokenize splits one source line into tokens. It never fails: characters that
// fit no other class end up in Text tokens.
func Tokenize(line string) []Token {
	l := NewLexer(line)
	for {
		if _, ok := l.NextToken(); !ok {
			break
		}
	}
	return l.tokens
}

// TokenizeAt tokenizes a fragment that starts at offset base of its line.
func TokenizeAt(fragment string, base int) []Token {
	tokens := Tokenize(fragment)
	for i := range tokens {
		tokens[i] = tokens[i].Shift(base)
	}
	return tokens
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans the next token. The second result is false at end of line.
func (l *Lexer) NextToken() (Token, bool) {
	tok, ok := l.scan()
	if ok {
		l.tokens = append(l.tokens, tok)
	}
	return tok, ok
}

func (l *Lexer) scan() (Token, bool) {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok, true
	}
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
	if l.ch == 0 {
		return Token{}, false
	}

	start := l.position
	switch {
	case l.ch == '*' && len(l.tokens) == 0:
		l.readChar()
		tok := l.newToken(TokenOperator, start)
		l.scanComment()
		return tok, true
	case l.ch == '\'' || l.ch == '`':
		l.readString(l.ch)
		return l.newToken(TokenString, start), true
	case l.ch == '$':
		if isIdentStart(l.peekChar()) {
			l.readChar()
			for isIdentChar(l.ch) {
				l.readChar()
			}
			return l.newToken(TokenVariable, start), true
		}
		if isDigit(l.peekChar()) {
			l.readChar()
			l.readChar()
			return l.newToken(TokenVariable, start), true
		}
		l.readChar()
		return l.newToken(TokenText, start), true
	case l.ch == '{':
		for l.ch != '}' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == '}' {
			l.readChar()
		}
		return l.newToken(TokenGameObject, start), true
	case isDigit(l.ch):
		return l.readNumber(start), true
	case l.ch == '-' && isDigit(l.peekChar()) && !l.previousIsValue():
		l.readChar()
		return l.readNumber(start), true
	}

	if op := l.matchOperator(); op != "" {
		for range op {
			l.readChar()
		}
		return l.newToken(TokenOperator, start), true
	}

	for isIdentChar(l.ch) {
		l.readChar()
	}
	if l.position == start {
		// Lone unmatched character such as a stray '}'.
		l.readChar()
	}
	tok := l.newToken(TokenText, start)
	if IsKeyword(tok.Text) {
		tok.Kind = TokenKeyword
	}
	return tok, true
}

func (l *Lexer) newToken(kind TokenKind, start int) Token {
	return Token{Kind: kind, Start: start, End: l.position, Text: string(l.input[start:l.position])}
}

// scanComment turns the remainder of the line into a Comment token returned
// after the '*' that opened it.
func (l *Lexer) scanComment() {
	rest := l.position
	for rest < len(l.input) && unicode.IsSpace(l.input[rest]) {
		rest++
	}
	if rest < len(l.input) {
		l.pending = &Token{Kind: TokenComment, Start: rest, End: len(l.input), Text: string(l.input[rest:])}
	}
	l.position, l.readPosition, l.ch = len(l.input), len(l.input)+1, 0
}

func (l *Lexer) readString(quote rune) {
	l.readChar() // opening quote
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() != 0 {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar()
	}
}

func (l *Lexer) readNumber(start int) Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.input[start] != '-' && isIdentStart(l.ch) {
		// "2nd", "3x": a word that happens to start with digits
		for isIdentChar(l.ch) {
			l.readChar()
		}
		return l.newToken(TokenText, start)
	}
	return l.newToken(TokenNumber, start)
}

func (l *Lexer) matchOperator() string {
	for _, op := range operators {
		n := len([]rune(op))
		if l.position+n > len(l.input) {
			continue
		}
		if string(l.input[l.position:l.position+n]) == op {
			return op
		}
	}
	return ""
}

func (l *Lexer) previousIsValue() bool {
	if len(l.tokens) == 0 {
		return false
	}
	prev := l.tokens[len(l.tokens)-1]
	if prev.Kind == TokenOperator {
		return prev.Text == ")" || prev.Text == "]"
	}
	return prev.Kind.IsValue()
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	if ch == 0 || unicode.IsSpace(ch) {
		return false
	}
	switch ch {
	case '\'', '`', '$', '{', '=', '!', '<', '>', '&', '|', '-', '+', '*', '/',
		'%', '~', '(', ')', '[', ']', '^', ',', ':':
		return false
	}
	return true
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
