package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/internal/util"
	"github.com/dekarrin/minnow/lex"
)

// lrActionKind is what a cell of the SLR(1) table instructs the parser to do.
type lrActionKind int

const (
	actError lrActionKind = iota
	actShift
	actGoto
	actReduce
	actAccept
)

func (k lrActionKind) String() string {
	switch k {
	case actError:
		return "ERROR"
	case actShift:
		return "SHIFT"
	case actGoto:
		return "GOTO"
	case actReduce:
		return "REDUCE"
	case actAccept:
		return "ACCEPT"
	default:
		return fmt.Sprintf("lrActionKind(%d)", int(k))
	}
}

// ascAction is one cell of the action/goto table: for shifts and gotos the
// target is a state, for reduces it is a production index.
type ascAction struct {
	kind   lrActionKind
	target int
}

// lr0Core identifies an LR(0) item: a production index and the dot position
// within its right-hand side.
type lr0Core struct {
	prod int
	dot  int
}

// lr0Item is an item of the collection together with the annotation filled in
// during construction.
type lr0Item struct {
	core   lr0Core
	action lrActionKind

	// target state for shift/goto, production index for reduce
	target int
}

// lr0State is one state of the LR(0) collection: the kernel that defines it
// plus the closed, annotated item list.
type lr0State struct {
	kernel []lr0Core
	items  []lr0Item
}

// SLR1 is a bottom-up shift-reduce parser: an LR(0) item collection with
// reductions restricted by FOLLOW sets.
type SLR1 struct {
	cfg       *grammar.CFG
	augmented *grammar.CFG

	// the terminal standing for end of input in the augmented grammar;
	// normally EndOfSentence, but a representation that would classify "EOS"
	// as a non-terminal gets the "$" spelling instead
	eos string

	states   []lr0State
	table    map[int]map[string]ascAction
	conflict bool
}

// NewSLR1 generates an SLR(1) parser for the grammar: the grammar is
// augmented with S' -> S EOS, the canonical LR(0) collection is built, and
// the action/goto table is filled with ACCEPT/SHIFT/GOTO entries from the
// item annotations and REDUCE entries over the FOLLOW set of each completed
// item's producer. Any cell claimed by two different actions marks the
// grammar as not SLR(1); the returned parser then reports
// CanParse() == false.
func NewSLR1(cfg *grammar.CFG) *SLR1 {
	slr := &SLR1{
		cfg:   cfg,
		table: map[int]map[string]ascAction{},
	}

	slr.eos = EndOfSentence
	if !cfg.IsTerminal(slr.eos) {
		slr.eos = grammar.EndOfString
	}

	slr.augment()
	slr.buildCollection()
	slr.buildTable()

	return slr
}

// augment copies the grammar and appends S' -> S EOS. The augmented
// production is the last one, so every original production keeps its index.
func (slr *SLR1) augment() {
	repr := slr.cfg.Representation()

	name := repr.Name(slr.cfg.Start()) + "'"
	sym := rewrapNonTerminal(repr, name)
	for slr.cfg.NonTerminals().Has(sym) {
		name += "'"
		sym = rewrapNonTerminal(repr, name)
	}

	slr.augmented = slr.cfg.Copy()
	slr.augmented.AddSymbols(sym, []string{slr.cfg.Start(), slr.eos})
}

// rewrapNonTerminal applies the representation's non-terminal decoration to a
// bare name.
func rewrapNonTerminal(repr grammar.Representation, name string) string {
	if repr.IsNonTerminal(name) {
		return name
	}
	wrapped := "<" + name + ">"
	if repr.IsNonTerminal(wrapped) {
		return wrapped
	}
	panic(fmt.Sprintf("cannot form a non-terminal from name %q", name))
}

func (slr *SLR1) augmentedProd() int {
	return slr.augmented.Size() - 1
}

// kernelKey gives a canonical form of a kernel for the already-exists check.
func kernelKey(kernel []lr0Core) string {
	parts := make([]string, len(kernel))
	for i, core := range kernel {
		parts[i] = fmt.Sprintf("(%d,%d)", core.prod, core.dot)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// buildCollection constructs the canonical LR(0) collection with a worklist
// of pending states. States are only ever referenced by index, so growing the
// state slice never invalidates anything.
func (slr *SLR1) buildCollection() {
	stateByKernel := map[string]int{}

	addState := func(kernel []lr0Core) int {
		key := kernelKey(kernel)
		if idx, ok := stateByKernel[key]; ok {
			return idx
		}
		slr.states = append(slr.states, lr0State{kernel: kernel})
		stateByKernel[key] = len(slr.states) - 1
		return len(slr.states) - 1
	}

	addState([]lr0Core{{prod: slr.augmentedProd(), dot: 0}})

	for pending := 0; pending < len(slr.states); pending++ {
		cores := slr.closure(slr.states[pending].kernel)

		// group the items by the symbol after the dot, in first-seen order
		var symbolOrder []string
		kernelsBySymbol := map[string][]lr0Core{}
		for _, core := range cores {
			prod := slr.augmented.At(core.prod)
			if core.dot >= prod.Size() {
				continue
			}
			if slr.isAcceptItem(core) {
				// the accept item does not spawn a state past the end marker
				continue
			}
			symbol := prod.Products[core.dot]
			if _, ok := kernelsBySymbol[symbol]; !ok {
				symbolOrder = append(symbolOrder, symbol)
			}
			kernelsBySymbol[symbol] = append(kernelsBySymbol[symbol], lr0Core{prod: core.prod, dot: core.dot + 1})
		}

		targets := map[string]int{}
		for _, symbol := range symbolOrder {
			targets[symbol] = addState(kernelsBySymbol[symbol])
		}

		// annotate
		items := make([]lr0Item, len(cores))
		for i, core := range cores {
			prod := slr.augmented.At(core.prod)
			item := lr0Item{core: core}
			switch {
			case slr.isAcceptItem(core):
				item.action = actAccept
			case core.dot >= prod.Size():
				item.action = actReduce
				item.target = core.prod
			default:
				symbol := prod.Products[core.dot]
				if slr.augmented.IsTerminal(symbol) {
					item.action = actShift
				} else {
					item.action = actGoto
				}
				item.target = targets[symbol]
			}
			items[i] = item
		}
		slr.states[pending].items = items
	}
}

// isAcceptItem returns whether the item is S' -> S · EOS.
func (slr *SLR1) isAcceptItem(core lr0Core) bool {
	return core.prod == slr.augmentedProd() && core.dot == 1
}

// closure expands a kernel: for every item with a non-terminal B after the
// dot, the items B -> · γ are added, transitively.
func (slr *SLR1) closure(kernel []lr0Core) []lr0Core {
	items := append([]lr0Core{}, kernel...)
	present := util.NewKeySet[lr0Core]()
	for _, core := range kernel {
		present.Add(core)
	}

	for i := 0; i < len(items); i++ {
		prod := slr.augmented.At(items[i].prod)
		if items[i].dot >= prod.Size() {
			continue
		}
		symbol := prod.Products[items[i].dot]
		if slr.augmented.IsTerminal(symbol) {
			continue
		}
		for _, prodIdx := range slr.augmented.ProductionsFor(symbol) {
			core := lr0Core{prod: prodIdx, dot: 0}
			if !present.Has(core) {
				present.Add(core)
				items = append(items, core)
			}
		}
	}

	return items
}

// buildTable fills the action/goto table from the annotated collection.
func (slr *SLR1) buildTable() {
	set := func(state int, symbol string, action ascAction) {
		row, ok := slr.table[state]
		if !ok {
			row = map[string]ascAction{}
			slr.table[state] = row
		}
		if existing, taken := row[symbol]; taken && existing != action {
			slr.conflict = true
		}
		row[symbol] = action
	}

	for i := range slr.states {
		for _, item := range slr.states[i].items {
			prod := slr.augmented.At(item.core.prod)

			switch item.action {
			case actAccept:
				set(i, slr.eos, ascAction{kind: actAccept})

			case actShift, actGoto:
				symbol := prod.Products[item.core.dot]
				set(i, symbol, ascAction{kind: item.action, target: item.target})

			case actReduce:
				follow := slr.augmented.Follow(prod.Name)
				if slr.augmented.Endable(prod.Name) {
					follow.Add(slr.eos)
				}
				for symbol := range follow {
					set(i, symbol, ascAction{kind: actReduce, target: item.target})
				}
			}
		}
	}
}

// CanParse returns whether the grammar was SLR(1): no cell of the action
// table was claimed by two different actions.
func (slr *SLR1) CanParse() bool {
	return !slr.conflict
}

// Grammar returns the grammar the parser was generated from.
func (slr *SLR1) Grammar() *grammar.CFG {
	return slr.cfg
}

// Parse judges the token stream with the usual shift-reduce loop. A REDUCE
// pops one state per right-hand-side symbol and buffers the reduced
// non-terminal; the following GOTO consumes the buffer, never input. Panics
// if called when CanParse is false; that is a caller error.
func (slr *SLR1) Parse(input []lex.Token) Result {
	if slr.conflict {
		panic("Parse called on a grammar that is not SLR(1)")
	}

	stateStack := util.Stack[int]{}
	stateStack.Push(0)

	inputPointer := 0
	nonTerminalBuffer := ""

	for {
		var currToken string
		if nonTerminalBuffer != "" {
			currToken = nonTerminalBuffer
		} else if inputPointer < len(input) {
			currToken = input[inputPointer].Type
		} else {
			currToken = slr.eos
		}

		action, ok := slr.table[stateStack.Peek()][currToken]
		if !ok {
			return errorResult(input, inputPointer, fmt.Sprintf("Unexpected token '%s'", currToken))
		}

		switch action.kind {
		case actAccept:
			return Result{Accepted: true}

		case actGoto:
			stateStack.Push(action.target)
			nonTerminalBuffer = ""

		case actReduce:
			prod := slr.cfg.At(action.target)
			for i := 0; i < prod.Size(); i++ {
				stateStack.Pop()
			}
			nonTerminalBuffer = prod.Name

		case actShift:
			stateStack.Push(action.target)
			inputPointer++

		default:
			panic(fmt.Sprintf("invalid action %v in SLR(1) table; should never happen", action.kind))
		}
	}
}

// TableString renders the action/goto table as a bordered text table: one
// row per state, action columns ("A:") for the terminals plus the end marker
// and goto columns ("G:") for the non-terminals.
func (slr *SLR1) TableString() string {
	terms := slr.cfg.Terminals().OrderedElements()
	terms = append(terms, slr.eos)
	nonTerms := slr.cfg.NonTerminals().OrderedElements()

	headers := []string{"S"}
	for _, t := range terms {
		headers = append(headers, "A:"+t)
	}
	for _, nt := range nonTerms {
		headers = append(headers, "G:"+nt)
	}

	data := [][]string{headers}
	for i := range slr.states {
		row := []string{fmt.Sprintf("%d", i)}
		for _, symbol := range append(append([]string{}, terms...), nonTerms...) {
			cell := ""
			if action, ok := slr.table[i][symbol]; ok {
				switch action.kind {
				case actAccept:
					cell = "acc"
				case actShift:
					cell = fmt.Sprintf("s%d", action.target)
				case actGoto:
					cell = fmt.Sprintf("%d", action.target)
				case actReduce:
					cell = "r" + slr.cfg.Readable(action.target)
				}
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
