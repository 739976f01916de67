// Package parse provides the two parser generators of the toolkit: an LL(1)
// predictive parser and an SLR(1) shift-reduce parser, both driven by the
// analyses of a grammar.CFG.
//
// A generated parser judges a token stream and returns a Result: accepted, or
// rejected with the index of the offending token and a rendering of the input
// that highlights it.
package parse

import (
	"strings"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/lex"
)

// EndOfSentence is the sentinel token type denoting the end of the input
// stream inside parser tables. It is appended logically during parsing; input
// token streams must not contain it.
const EndOfSentence = "EOS"

// Parser is a generated parser for one grammar.
type Parser interface {
	// Parse judges the given token stream. Must only be called when CanParse
	// returns true.
	Parse(input []lex.Token) Result

	// CanParse returns whether the grammar was parseable by this parser's
	// method; table construction conflicts make it false. Callers must not
	// invoke Parse on a parser that cannot parse.
	CanParse() bool

	// Grammar returns the grammar the parser was generated from.
	Grammar() *grammar.CFG
}

// Result is the verdict of one parse. On success only Accepted is
// meaningful; on failure ErrorIndex is the 0-indexed offending token in the
// input stream and ErrorMessage is a human-readable rendering of the input
// with the offending token highlighted.
type Result struct {
	Accepted     bool
	ErrorIndex   int
	ErrorMessage string
}

// errorResult builds the rejection Result for a failure at the given token
// index, highlighting the offending token within the rendered input.
func errorResult(input []lex.Token, index int, message string) Result {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(message)
	sb.WriteRune('\n')

	for i := 0; i < index && i < len(input); i++ {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(input[i].Content)
	}

	if index < len(input) {
		if index > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString("\033[1;31m" + input[index].Content + "\033[0m")
		for i := index + 1; i < len(input); i++ {
			sb.WriteRune(' ')
			sb.WriteString(input[i].Content)
		}
	}

	return Result{
		Accepted:     false,
		ErrorIndex:   index,
		ErrorMessage: sb.String(),
	}
}
