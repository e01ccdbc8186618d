package engine

import (
	"strings"

	"msci/pkg/lexer"
	"msci/pkg/syntax"
)

// Catalog is what the compiler needs from a command catalog. *syntax.Catalog
// implements it; implementations must be safe for concurrent reads.
type Catalog interface {
	FindByID(id uint32, v syntax.GameVersion) (*syntax.Signature, bool)
	Identify(h lexer.CommandHash, v syntax.GameVersion) *syntax.Signature
}

// Result is the outcome of compiling one script.
type Result struct {
	Root        *CommandNode `json:"root"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasErrors ignores warnings.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// Compile classifies every line, resolves it against cat and nests the result.
// An error on one line never stops the following lines from compiling.
func Compile(cat Catalog, version syntax.GameVersion, lines []string) *Result {
	p := NewParser(cat, version)
	asm := NewAssembler()
	for i, line := range lines {
		n := i + 1
		logic, cmd, diags := p.ClassifyAndParse(n, lexer.Tokenize(line))
		asm.Add(&CommandNode{Line: n, Logic: logic, Command: cmd, Errors: diags})
	}
	root := asm.Finish()
	return &Result{Root: root, Diagnostics: root.Diagnostics()}
}

// CompileText splits text into lines and compiles them.
func CompileText(cat Catalog, version syntax.GameVersion, text string) *Result {
	return Compile(cat, version, SplitLines(text))
}

// SplitLines splits on \n, dropping \r and a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
