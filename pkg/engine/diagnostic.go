package engine

import (
	"fmt"

	"msci/pkg/lexer"
)

// Diagnostic is a problem found on one source line. Line is 1-based; Start and
// End are 0-based character offsets into that line, End exclusive.
type Diagnostic struct {
	Type     string `json:"type"` // "error" or "warning"
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

func (d Diagnostic) Error() string {
	if d.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", d.Filename, d.Line, d.Start+1, d.Message)
	}
	return fmt.Sprintf("line %d:%d: %s", d.Line, d.Start+1, d.Message)
}

func (d Diagnostic) IsWarning() bool {
	return d.Type == "warning"
}

// NewDiagnostic builds an error spanning tokens.
func NewDiagnostic(line int, tokens []lexer.Token, format string, args ...interface{}) Diagnostic {
	start, end := lexer.Span(tokens)
	return Diagnostic{
		Type:    "error",
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Start:   start,
		End:     end,
	}
}

// NewWarning is NewDiagnostic for warnings.
func NewWarning(line int, tokens []lexer.Token, format string, args ...interface{}) Diagnostic {
	d := NewDiagnostic(line, tokens, format, args...)
	d.Type = "warning"
	return d
}
