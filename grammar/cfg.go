package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minnow/internal/util"
)

// EndOfString is the sentinel used for "end of input" while computing FOLLOW
// sets. It never appears in a returned FOLLOW set; Endable answers whether it
// was present.
const EndOfString = "$"

// Production is one rule of a CFG: a non-terminal name and the ordered
// sequence of symbols it produces. An empty Products sequence denotes ε.
//
// The derived per-production data (FIRST set and nullability) is cached on
// the CFG, keyed by production index, not on the Production itself.
type Production struct {
	Name     string
	Products []string
}

// Size returns the number of symbols on the right-hand side.
func (p Production) Size() int {
	return len(p.Products)
}

// Copy returns a deep-copied duplicate of this Production.
func (p Production) Copy() Production {
	p2 := Production{Name: p.Name, Products: make([]string, len(p.Products))}
	copy(p2.Products, p.Products)
	return p2
}

// ReferenceType classifies how a non-terminal refers back to itself
// (recursion) or how its alternatives overlap (factoring conflicts).
type ReferenceType int

const (
	RefNone ReferenceType = iota
	RefDirect
	RefIndirect
)

func (rt ReferenceType) String() string {
	switch rt {
	case RefNone:
		return "NONE"
	case RefDirect:
		return "DIRECT"
	case RefIndirect:
		return "INDIRECT"
	default:
		return fmt.Sprintf("ReferenceType(%d)", int(rt))
	}
}

// CFG is a context-free grammar. Productions are kept in insertion order; the
// first-added production's non-terminal is the start symbol.
//
// The results of the expensive analyses (FIRST, FOLLOW, nullability,
// endability) are cached and recomputed lazily; any mutation invalidates
// every cache.
type CFG struct {
	repr Representation

	productions         []Production
	productionsBySymbol map[string][]int
	nonTerminals        util.StringSet
	terminals           util.StringSet

	firstValid  bool
	followValid bool

	nullabilityBySymbol map[string]bool
	prodFirst           []util.StringSet
	prodNullable        []bool
	followSets          map[string]util.StringSet
	endableNonTerminals util.StringSet
}

// New creates an empty CFG that interprets grammar text under the given
// representation.
func New(repr Representation) *CFG {
	return &CFG{
		repr:                repr,
		productionsBySymbol: map[string][]int{},
		nonTerminals:        util.NewStringSet(),
		terminals:           util.NewStringSet(),
	}
}

// NewBNF creates an empty CFG using the default angle-bracket BNF
// representation.
func NewBNF() *CFG {
	return New(BNF{})
}

// Representation returns the representation this CFG was constructed with.
func (c *CFG) Representation() Representation {
	return c.repr
}

// Add adds one production for the given non-terminal, with the right-hand
// side given in the representation's syntax. An empty rhs adds an ε
// production.
func (c *CFG) Add(name string, rhs string) error {
	if !c.repr.IsNonTerminal(name) {
		return fmt.Errorf("production name %q is not a non-terminal", name)
	}
	c.addParts(ProductionParts{Name: name, Products: c.repr.ToSymbolSequence(rhs)})
	return nil
}

// AddSymbols adds one production for the given non-terminal with an already
// tokenized right-hand side. An empty products sequence adds an ε production.
func (c *CFG) AddSymbols(name string, products []string) error {
	if !c.repr.IsNonTerminal(name) {
		return fmt.Errorf("production name %q is not a non-terminal", name)
	}
	c.addParts(ProductionParts{Name: name, Products: append([]string{}, products...)})
	return nil
}

// AddLine parses a full production line ("<LHS> ::= α1 | α2 | ...") and adds
// every alternative in it.
func (c *CFG) AddLine(line string) error {
	parts, err := c.repr.Decompose(line)
	if err != nil {
		return err
	}
	for _, part := range parts {
		c.addParts(part)
	}
	return nil
}

// AddAll calls AddLine for each given line, stopping at the first error.
func (c *CFG) AddAll(lines ...string) error {
	for _, line := range lines {
		if err := c.AddLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (c *CFG) addParts(part ProductionParts) {
	prod := Production{Name: part.Name, Products: part.Products}

	for _, sym := range prod.Products {
		if c.repr.IsTerminal(sym) {
			c.terminals.Add(sym)
		} else {
			c.nonTerminals.Add(sym)
		}
	}
	c.nonTerminals.Add(prod.Name)

	c.productionsBySymbol[prod.Name] = append(c.productionsBySymbol[prod.Name], len(c.productions))
	c.productions = append(c.productions, prod)

	c.invalidate()
}

// Clear removes every production from the CFG.
func (c *CFG) Clear() {
	c.productions = nil
	c.productionsBySymbol = map[string][]int{}
	c.nonTerminals = util.NewStringSet()
	c.terminals = util.NewStringSet()
	c.invalidate()
}

// invalidate drops every cached analysis result.
func (c *CFG) invalidate() {
	c.firstValid = false
	c.followValid = false
	c.nullabilityBySymbol = nil
	c.prodFirst = nil
	c.prodNullable = nil
	c.followSets = nil
	c.endableNonTerminals = nil
}

// Size returns the number of productions.
func (c *CFG) Size() int {
	return len(c.productions)
}

// At returns the production at the given index, in insertion order.
func (c *CFG) At(i int) Production {
	return c.productions[i]
}

// Start returns the start symbol: the non-terminal of the first-added
// production. Returns "" for an empty CFG.
func (c *CFG) Start() string {
	if len(c.productions) == 0 {
		return ""
	}
	return c.productions[0].Name
}

// ProductionsFor returns the indexes of the productions of the given
// non-terminal, in insertion order.
func (c *CFG) ProductionsFor(sym string) []int {
	return c.productionsBySymbol[sym]
}

// NonTerminals returns all non-terminals mentioned anywhere in the CFG.
func (c *CFG) NonTerminals() util.StringSet {
	return c.nonTerminals.Copy()
}

// Terminals returns all terminals used in the CFG.
func (c *CFG) Terminals() util.StringSet {
	return c.terminals.Copy()
}

// IsTerminal returns whether the representation classifies the symbol as a
// terminal.
func (c *CFG) IsTerminal(sym string) bool {
	return c.repr.IsTerminal(sym)
}

// IsNonTerminal returns whether the representation classifies the symbol as a
// non-terminal.
func (c *CFG) IsNonTerminal(sym string) bool {
	return c.repr.IsNonTerminal(sym)
}

// NameOf returns the symbol with its syntactic decorations stripped.
func (c *CFG) NameOf(sym string) string {
	return c.repr.Name(sym)
}

// Readable pretty-prints the production at the given index.
func (c *CFG) Readable(i int) string {
	return c.repr.ToReadableForm(c.productions[i].Name, c.productions[i].Products)
}

// IsConsistent returns whether every non-terminal appearing in any right-hand
// side is defined by at least one production.
func (c *CFG) IsConsistent() bool {
	prodNames := util.NewStringSet()
	for i := range c.productions {
		prodNames.Add(c.productions[i].Name)
	}

	for i := range c.productions {
		for _, sym := range c.productions[i].Products {
			if !c.repr.IsTerminal(sym) && !prodNames.Has(sym) {
				return false
			}
		}
	}
	return true
}

// Copy returns a deep-copied duplicate of the grammar sharing the same
// representation. Caches are not copied.
func (c *CFG) Copy() *CFG {
	c2 := New(c.repr)
	for i := range c.productions {
		c2.addParts(ProductionParts{
			Name:     c.productions[i].Name,
			Products: append([]string{}, c.productions[i].Products...),
		})
	}
	return c2
}

// Equal returns whether two CFGs have exactly the same productions. Language
// equivalence is undecidable and deliberately not attempted.
func (c *CFG) Equal(other *CFG) bool {
	if c.Size() != other.Size() {
		return false
	}

	productionList := util.NewStringSet()
	for i := range c.productions {
		productionList.Add(c.Readable(i))
	}
	for i := range other.productions {
		if !productionList.Has(other.Readable(i)) {
			return false
		}
	}
	return true
}

// String returns a readable listing of every production, in insertion order.
func (c *CFG) String() string {
	var sb strings.Builder
	for i := range c.productions {
		sb.WriteString(c.Readable(i))
		if i+1 < len(c.productions) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
