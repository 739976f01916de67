// Package grammar provides context-free grammars together with the analyses
// parser generators need: nullability, FIRST and FOLLOW sets, left-recursion
// and factoring-conflict detection, and direct left-recursion elimination.
//
// How productions are written down is decoupled from the CFG itself through
// the Representation strategy; a CFG is constructed with exactly one
// Representation and interprets every line and symbol through it.
package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// ProductionParts is one alternative of a decomposed production line: the
// producing non-terminal and the sequence of symbols it produces. An empty
// Products sequence denotes ε.
type ProductionParts struct {
	Name     string
	Products []string
}

// Representation answers all syntax questions about one notation for writing
// grammars. Implementations must classify every symbol the same way each time
// they are asked; IsTerminal and IsNonTerminal are mutually exclusive.
type Representation interface {
	// IsTerminal returns whether the symbol denotes a terminal.
	IsTerminal(sym string) bool

	// IsNonTerminal returns whether the symbol denotes a non-terminal.
	IsNonTerminal(sym string) bool

	// Decompose parses one full production line into its alternatives.
	Decompose(line string) ([]ProductionParts, error)

	// ToSymbolSequence tokenizes the right-hand side of a single alternative
	// into symbols.
	ToSymbolSequence(rhs string) []string

	// ToReadableForm pretty-prints one production.
	ToReadableForm(name string, products []string) string

	// Name strips the syntactic decorations off a symbol, e.g. "<X>" -> "X".
	Name(sym string) string
}

// BNF is the default Representation: non-terminals are written "<name>" with
// name in [A-Za-z0-9_']+, terminals are any other whitespace-delimited token
// (optionally quoted), and a production line has the form
//
//	<LHS> ::= α1 | α2 | ... | αn
//
// where an empty alternative denotes ε.
type BNF struct{}

var bnfLine = regexp.MustCompile(`^(<[A-Za-z0-9_']+>) ?::= ?(.*)$`)

func (bnf BNF) IsTerminal(sym string) bool {
	return !bnf.IsNonTerminal(sym)
}

func (bnf BNF) IsNonTerminal(sym string) bool {
	return len(sym) >= 3 && strings.HasPrefix(sym, "<") && strings.HasSuffix(sym, ">")
}

func (bnf BNF) Decompose(line string) ([]ProductionParts, error) {
	matches := bnfLine.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return nil, fmt.Errorf("not a production line of form '<LHS> ::= SYMBOL SYMBOL | ...': %q", line)
	}

	name := matches[1]
	var result []ProductionParts
	for _, alt := range strings.Split(matches[2], "|") {
		result = append(result, ProductionParts{
			Name:     name,
			Products: bnf.ToSymbolSequence(alt),
		})
	}
	return result, nil
}

func (bnf BNF) ToSymbolSequence(rhs string) []string {
	result := []string{}
	for _, field := range strings.Fields(rhs) {
		result = append(result, stripQuotes(field))
	}
	return result
}

func (bnf BNF) ToReadableForm(name string, products []string) string {
	return name + " ::= " + strings.Join(products, " ")
}

func (bnf BNF) Name(sym string) string {
	if bnf.IsTerminal(sym) {
		return sym
	}
	return sym[1 : len(sym)-1]
}

// stripQuotes removes one matching pair of single or double quotes around a
// token, so terminals may be written 'EOS' or "+" in grammar text.
func stripQuotes(tok string) string {
	if len(tok) >= 3 && (tok[0] == '\'' || tok[0] == '"') && tok[len(tok)-1] == tok[0] {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// DidacticNotation is the representation used in teaching material:
// non-terminals start with an uppercase letter, symbols are space-separated
// and a production line has the form
//
//	LHS -> α1 | α2 | ... | αn
type DidacticNotation struct{}

var didacticLine = regexp.MustCompile(`^([A-Z][^ ]*) ?-> ?(.*)$`)

func (dn DidacticNotation) IsTerminal(sym string) bool {
	return !dn.IsNonTerminal(sym)
}

func (dn DidacticNotation) IsNonTerminal(sym string) bool {
	return len(sym) > 0 && sym[0] >= 'A' && sym[0] <= 'Z'
}

func (dn DidacticNotation) Decompose(line string) ([]ProductionParts, error) {
	matches := didacticLine.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return nil, fmt.Errorf("not a production line of form 'LHS -> SYMBOL SYMBOL | ...': %q", line)
	}

	name := matches[1]
	var result []ProductionParts
	for _, alt := range strings.Split(matches[2], "|") {
		result = append(result, ProductionParts{
			Name:     name,
			Products: dn.ToSymbolSequence(alt),
		})
	}
	return result, nil
}

func (dn DidacticNotation) ToSymbolSequence(rhs string) []string {
	return append([]string{}, strings.Fields(rhs)...)
}

func (dn DidacticNotation) ToReadableForm(name string, products []string) string {
	return name + " -> " + strings.Join(products, " ")
}

func (dn DidacticNotation) Name(sym string) string {
	return sym
}
