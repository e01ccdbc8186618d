package engine

import (
	"strings"

	"msci/pkg/lexer"
)

// Reclassify applies the context-dependent token kinds the lexer cannot see:
// the word null becomes Null, and a bracketed word such as [THIS] or [TRUE]
// folds into one ScriptObject or Constant token. A '[' that follows a value is
// left alone.
func Reclassify(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Is(lexer.TokenText, "null"):
			tok.Kind = lexer.TokenNull
		case tok.Is(lexer.TokenOperator, "[") && i+2 < len(tokens) &&
			tokens[i+1].Kind == lexer.TokenText && tokens[i+2].Is(lexer.TokenOperator, "]") &&
			!followsValue(out):
			word := tokens[i+1].Text
			tok = lexer.Token{
				Kind:  lexer.TokenScriptObject,
				Start: tok.Start,
				End:   tokens[i+2].End,
				Text:  "[" + word + "]",
			}
			if strings.EqualFold(word, "TRUE") || strings.EqualFold(word, "FALSE") {
				tok.Kind = lexer.TokenConstant
			}
			i += 2
		}
		out = append(out, tok)
	}
	return out
}

func followsValue(prev []lexer.Token) bool {
	if len(prev) == 0 {
		return false
	}
	last := prev[len(prev)-1]
	return last.Kind.IsValue() || last.Is(lexer.TokenOperator, ")") || last.Is(lexer.TokenOperator, "]")
}
