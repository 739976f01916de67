// Package minnow is a toolkit of formal-language algorithms: finite automata
// with minimization and Boolean closure, a regex engine, a longest-match
// lexer, context-free grammar analyses, and LL(1) and SLR(1) parser
// generators.
//
// The subsystem packages (automaton, regex, lex, grammar, parse) can each be
// used on their own. This package ties them together: a Frontend assembled
// from a language definition turns raw character input into an accept/reject
// verdict with a diagnosed error site.
package minnow

import (
	"fmt"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/internal/langdef"
	"github.com/dekarrin/minnow/lex"
	"github.com/dekarrin/minnow/parse"
)

// Frontend is a complete analysis pipeline for one language: a lexer feeding
// a generated parser.
type Frontend struct {
	lexer  *lex.Lexer
	cfg    *grammar.CFG
	parser parse.Parser
}

// New assembles a Frontend from a language definition: the token classes,
// ignored characters and delimiters configure the lexer, the grammar lines
// build the CFG under the selected notation, and the selected parser
// generator produces the parser. Fails if any pattern or grammar line is
// malformed, if the grammar uses undefined non-terminals, or if the grammar
// is not parseable by the selected method.
func New(lang langdef.Language) (*Frontend, error) {
	lexer := lex.New()
	for _, tok := range lang.Tokens {
		if err := lexer.AddToken(tok.Class, tok.Pattern); err != nil {
			return nil, err
		}
	}
	for _, c := range lang.Ignore {
		lexer.Ignore(c)
	}
	for _, delim := range lang.Delimiters {
		if err := lexer.AddDelimiter(delim); err != nil {
			return nil, err
		}
	}

	var repr grammar.Representation = grammar.BNF{}
	if lang.Notation == langdef.NotationDidactic {
		repr = grammar.DidacticNotation{}
	}

	cfg := grammar.New(repr)
	if err := cfg.AddAll(lang.Grammar...); err != nil {
		return nil, err
	}
	if !cfg.IsConsistent() {
		return nil, fmt.Errorf("grammar is inconsistent: it uses non-terminals that no production defines")
	}

	var parser parse.Parser
	switch lang.Parser {
	case langdef.ParserSLR1:
		parser = parse.NewSLR1(cfg)
	default:
		parser = parse.NewLL1(cfg)
	}
	if !parser.CanParse() {
		return nil, fmt.Errorf("grammar is not parseable as %s", lang.Parser)
	}

	return &Frontend{
		lexer:  lexer,
		cfg:    cfg,
		parser: parser,
	}, nil
}

// NewFromFile assembles a Frontend from a language-definition file.
func NewFromFile(path string) (*Frontend, error) {
	lang, err := langdef.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(lang)
}

// Analyze tokenizes the input and judges the token stream. A lexical failure
// rejects with the error site at the first token that could not be
// recognized.
func (fe *Frontend) Analyze(input string) parse.Result {
	tokens := fe.lexer.Read(input)
	if !fe.lexer.Accepts() {
		return parse.Result{
			Accepted:     false,
			ErrorIndex:   len(tokens),
			ErrorMessage: fe.lexer.Err().Error(),
		}
	}

	return fe.parser.Parse(tokens)
}

// Lexer returns the assembled lexer.
func (fe *Frontend) Lexer() *lex.Lexer {
	return fe.lexer
}

// CFG returns the assembled grammar.
func (fe *Frontend) CFG() *grammar.CFG {
	return fe.cfg
}

// Parser returns the generated parser.
func (fe *Frontend) Parser() parse.Parser {
	return fe.parser
}
