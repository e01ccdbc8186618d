package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"msci/pkg/engine"
	"msci/pkg/fastjson"
	"msci/pkg/lexer"
)

type lineTokens struct {
	Line   int           `json:"line"`
	Hash   string        `json:"hash"`
	Tokens []lexer.Token `json:"tokens"`
}

// HandleTokens prints the tokens and command hash of every script line as
// JSON. Reads stdin when the path is "-".
func HandleTokens(args []string) {
	os.Exit(runTokens(args, os.Stdin, os.Stdout))
}

func runTokens(args []string, stdin io.Reader, out io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: msci tokens <script.txt|->")
		return 1
	}

	in := stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	dump := []lineTokens{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		tokens := engine.Reclassify(lexer.Tokenize(scanner.Text()))
		if tokens == nil {
			tokens = []lexer.Token{}
		}
		dump = append(dump, lineTokens{Line: n, Hash: lexer.Hash(tokens).String(), Tokens: tokens})
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}

	if err := fastjson.Print(out, dump); err != nil {
		return 1
	}
	return 0
}
