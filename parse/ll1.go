package parse

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/internal/util"
	"github.com/dekarrin/minnow/lex"
)

// LL1 is a top-down predictive parser with one token of lookahead.
type LL1 struct {
	cfg      *grammar.CFG
	table    util.Matrix2[string, string, int]
	conflict bool
}

// NewLL1 generates an LL(1) parser for the grammar by building its predictive
// table. If the grammar is not LL(1), the table construction hits a conflict
// and the returned parser reports CanParse() == false.
//
// For each production A -> α, the table maps (A, t) to the production for
// every terminal t in FIRST(α), and additionally for every t in FOLLOW(A)
// (plus the end sentinel when A is endable) if α is nullable. This is
// Algorithm 4.31, "Construction of a predictive parsing table", from the
// purple dragon book.
func NewLL1(cfg *grammar.CFG) *LL1 {
	ll1 := &LL1{
		cfg:   cfg,
		table: util.NewMatrix2[string, string, int](),
	}

	for i := 0; i < cfg.Size(); i++ {
		prod := cfg.At(i)

		for symbol := range cfg.FirstOfProduction(i) {
			if ll1.table.Has(prod.Name, symbol) {
				ll1.conflict = true
				return ll1
			}
			ll1.table.Set(prod.Name, symbol, i)
		}

		if cfg.ProductionNullable(i) {
			follow := cfg.Follow(prod.Name)
			if cfg.Endable(prod.Name) {
				follow.Add(EndOfSentence)
			}
			for symbol := range follow {
				if ll1.table.Has(prod.Name, symbol) {
					ll1.conflict = true
					return ll1
				}
				ll1.table.Set(prod.Name, symbol, i)
			}
		}
	}

	return ll1
}

// CanParse returns whether the grammar was LL(1): no cell of the predictive
// table was claimed by two productions.
func (ll1 *LL1) CanParse() bool {
	return !ll1.conflict
}

// Grammar returns the grammar the parser was generated from.
func (ll1 *LL1) Grammar() *grammar.CFG {
	return ll1.cfg
}

// Parse judges the token stream by stack simulation: the start symbol is
// unwound against each input token in turn, then the token must match the
// stack top. Panics if called when CanParse is false; that is a caller error.
func (ll1 *LL1) Parse(input []lex.Token) Result {
	if ll1.conflict {
		panic("Parse called on a grammar that is not LL(1)")
	}

	stack := util.Stack[string]{}
	stack.Push(EndOfSentence)
	stack.Push(ll1.cfg.Start())

	for i := 0; i <= len(input); i++ {
		symbol := EndOfSentence
		if i < len(input) {
			symbol = input[i].Type
		}

		if ok, message := ll1.unwind(&stack, symbol); !ok {
			return errorResult(input, i, message)
		}

		if stack.Peek() == symbol {
			stack.Pop()
		} else {
			return errorResult(input, i, fmt.Sprintf("Unexpected token '%s', expected '%s'", symbol, stack.Peek()))
		}
	}

	if !stack.Empty() {
		return errorResult(input, len(input), fmt.Sprintf("Unexpected end-of-sentence, expected '%s'", stack.Peek()))
	}

	return Result{Accepted: true}
}

// unwind expands non-terminals on top of the stack using the predictive
// table until a terminal (or the end sentinel) surfaces.
func (ll1 *LL1) unwind(stack *util.Stack[string], input string) (bool, string) {
	top := stack.Peek()
	if ll1.cfg.IsTerminal(top) || top == EndOfSentence {
		return true, ""
	}

	entry := ll1.table.Get(top, input)
	if entry == nil {
		return false, fmt.Sprintf("Unexpected token '%s'", input)
	}

	prod := ll1.cfg.At(*entry)
	stack.Pop()
	for _, symbol := range util.Reversed(prod.Products) {
		stack.Push(symbol)
	}

	return ll1.unwind(stack, input)
}

// TableString renders the predictive table as a bordered text table: one row
// per non-terminal, one column per terminal plus the end sentinel.
func (ll1 *LL1) TableString() string {
	terms := ll1.cfg.Terminals().OrderedElements()
	terms = append(terms, EndOfSentence)

	data := [][]string{}
	topRow := []string{""}
	topRow = append(topRow, terms...)
	data = append(data, topRow)

	for _, nt := range util.OrderedKeys(map[string]map[string]int(ll1.table)) {
		dataRow := []string{nt}
		for _, term := range terms {
			cell := ""
			if entry := ll1.table.Get(nt, term); entry != nil {
				cell = ll1.cfg.Readable(*entry)
			}
			dataRow = append(dataRow, cell)
		}
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}
