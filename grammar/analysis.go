package grammar

import (
	"github.com/dekarrin/minnow/internal/util"
)

// FirstOfProduction returns the FIRST set of the production at the given
// index: the terminals that can begin a derivation of its right-hand side.
func (c *CFG) FirstOfProduction(i int) util.StringSet {
	c.updateFirst()
	return c.prodFirst[i].Copy()
}

// ProductionNullable returns whether the production at the given index can
// derive the empty string.
func (c *CFG) ProductionNullable(i int) bool {
	c.updateFirst()
	return c.prodNullable[i]
}

// First returns the FIRST set of a sequence of symbols given in the
// representation's syntax: each symbol's FIRST is unioned until the first
// non-nullable symbol.
func (c *CFG) First(symbolSequence string) util.StringSet {
	return c.firstOfSymbols(c.repr.ToSymbolSequence(symbolSequence))
}

func (c *CFG) firstOfSymbols(symbols []string) util.StringSet {
	c.updateFirst()

	result := util.NewStringSet()
	for _, symbol := range symbols {
		if c.repr.IsTerminal(symbol) {
			result.Add(symbol)
			break
		}
		for _, index := range c.productionsBySymbol[symbol] {
			result.AddAll(c.prodFirst[index])
		}
		if !c.nullabilityBySymbol[symbol] {
			break
		}
	}
	return result
}

// firstOfSymbol returns the FIRST set of one symbol.
func (c *CFG) firstOfSymbol(symbol string) util.StringSet {
	return c.firstOfSymbols([]string{symbol})
}

// Nullable returns whether a sequence of symbols given in the
// representation's syntax can derive the empty string.
func (c *CFG) Nullable(symbolSequence string) bool {
	return c.nullableSymbols(c.repr.ToSymbolSequence(symbolSequence))
}

func (c *CFG) nullableSymbols(symbols []string) bool {
	c.updateFirst()
	for _, symbol := range symbols {
		if c.repr.IsTerminal(symbol) || !c.nullabilityBySymbol[symbol] {
			return false
		}
	}
	return true
}

// Follow returns the FOLLOW set of a non-terminal: the terminals that can
// legally appear immediately after it in some derivation. The end-of-input
// sentinel is partitioned out; ask Endable whether it was present. Returns an
// empty set for terminals.
func (c *CFG) Follow(nonTerminal string) util.StringSet {
	if c.repr.IsTerminal(nonTerminal) {
		return util.NewStringSet()
	}

	c.updateFollow()
	if set, ok := c.followSets[nonTerminal]; ok {
		return set.Copy()
	}
	return util.NewStringSet()
}

// Endable returns whether the given non-terminal can be the last symbol of a
// complete derivation, i.e. whether the end-of-input sentinel belongs to its
// FOLLOW set. Returns false for terminals.
func (c *CFG) Endable(symbol string) bool {
	if c.repr.IsTerminal(symbol) {
		return false
	}
	c.updateFollow()
	return c.endableNonTerminals.Has(symbol)
}

// updateFollow computes every FOLLOW set: first-based seeding with
// dependency tracking, then propagation along the dependencies to a fixed
// point, then partitioning out the end-of-input sentinel into the endable
// set.
func (c *CFG) updateFollow() {
	if c.followValid {
		return
	}

	c.followSets = map[string]util.StringSet{}
	c.endableNonTerminals = util.NewStringSet()
	if len(c.productions) == 0 {
		c.followValid = true
		return
	}

	follow := func(sym string) util.StringSet {
		set, ok := c.followSets[sym]
		if !ok {
			set = util.NewStringSet()
			c.followSets[sym] = set
		}
		return set
	}

	follow(c.Start()).Add(EndOfString)

	dependencies := map[string]util.StringSet{}

	for p := range c.productions {
		prod := c.productions[p]
		for i, symbol := range prod.Products {
			if c.repr.IsTerminal(symbol) {
				continue
			}

			// everything FIRST-derivable from the rest of the production
			// follows symbol; if the rest is nullable, whatever follows the
			// producer follows symbol too
			restNullable := true
			for j := i + 1; j < len(prod.Products); j++ {
				follow(symbol).AddAll(c.firstOfSymbol(prod.Products[j]))
				if !c.nullableSymbols([]string{prod.Products[j]}) {
					restNullable = false
					break
				}
			}

			if restNullable && symbol != prod.Name {
				deps, ok := dependencies[symbol]
				if !ok {
					deps = util.NewStringSet()
					dependencies[symbol] = deps
				}
				deps.Add(prod.Name)
			}
		}
	}

	stable := false
	for !stable {
		stable = true
		for destination, origins := range dependencies {
			prevSize := follow(destination).Len()
			for origin := range origins {
				follow(destination).AddAll(follow(origin))
			}
			if follow(destination).Len() != prevSize {
				stable = false
			}
		}
	}

	for symbol := range c.nonTerminals {
		if follow(symbol).Has(EndOfString) {
			c.endableNonTerminals.Add(symbol)
			follow(symbol).Remove(EndOfString)
		}
	}

	c.followValid = true
}

// updateFirst computes nullability for every non-terminal and then the FIRST
// set of every production. The FIRST population runs twice: the first pass
// computes preliminary sets, the second propagates sets that were still being
// filled in when their consumers were first visited.
func (c *CFG) updateFirst() {
	if c.firstValid {
		return
	}

	c.nullabilityBySymbol = map[string]bool{}
	c.prodFirst = make([]util.StringSet, len(c.productions))
	c.prodNullable = make([]bool, len(c.productions))
	for i := range c.prodFirst {
		c.prodFirst[i] = util.NewStringSet()
	}

	// nullability of every non-terminal, with a visited set guarding against
	// cyclic grammars
	visited := util.NewKeySet[int]()
	for i := range c.productions {
		c.updateNullability(i, visited)
	}

	firstTable := map[string]util.StringSet{}
	push := func(index int, symbol string) {
		c.prodFirst[index].Add(symbol)
		name := c.productions[index].Name
		set, ok := firstTable[name]
		if !ok {
			set = util.NewStringSet()
			firstTable[name] = set
		}
		set.Add(symbol)
	}

	var populate func(index int, visited util.KeySet[int])
	populate = func(index int, visited util.KeySet[int]) {
		if visited.Has(index) {
			return
		}
		visited.Add(index)

		prod := c.productions[index]
		for _, symbol := range prod.Products {
			if c.repr.IsTerminal(symbol) {
				push(index, symbol)
				return
			}

			for _, i := range c.productionsBySymbol[symbol] {
				populate(i, visited)
			}
			for s := range firstTable[symbol] {
				push(index, s)
			}

			if !c.nullabilityBySymbol[symbol] {
				return
			}
		}

		c.prodNullable[index] = true
	}

	for iter := 0; iter < 2; iter++ {
		visited = util.NewKeySet[int]()
		for i := range c.productions {
			populate(i, visited)
		}
	}

	c.firstValid = true
}

// updateNullability settles the nullability of the production at the given
// index, recursing into the productions it references when the answer is not
// apparent without recursion. A non-terminal is marked not-nullable when no
// production could prove it nullable.
func (c *CFG) updateNullability(index int, visited util.KeySet[int]) {
	prod := c.productions[index]
	if visited.Has(index) {
		return
	}
	if _, settled := c.nullabilityBySymbol[prod.Name]; settled {
		return
	}
	visited.Add(index)

	// try to find the answer without recursion
	allSettledNullable := true
	for _, symbol := range prod.Products {
		if c.repr.IsTerminal(symbol) {
			return
		}
		nullable, settled := c.nullabilityBySymbol[symbol]
		if !settled {
			allSettledNullable = false
		} else if !nullable {
			return
		}
	}

	if allSettledNullable {
		c.nullabilityBySymbol[prod.Name] = true
		c.prodNullable[index] = true
		return
	}

	// recursion is necessary
	for _, symbol := range prod.Products {
		if _, settled := c.nullabilityBySymbol[symbol]; settled {
			// settled symbols are nullable here, or the loop above would
			// have returned
			continue
		}

		for _, i := range c.productionsBySymbol[symbol] {
			c.updateNullability(i, visited)
		}

		if _, settled := c.nullabilityBySymbol[symbol]; !settled {
			// no production marked the symbol nullable, so it isn't
			c.nullabilityBySymbol[symbol] = false
			return
		}
		if !c.nullabilityBySymbol[symbol] {
			return
		}
	}

	c.nullabilityBySymbol[prod.Name] = true
	c.prodNullable[index] = true
}

// Range returns the set of non-terminals that are left-reachable from a
// sequence of symbols given in the representation's syntax: every
// non-terminal that can appear leftmost in some derivation step, walking past
// nullable leading symbols.
func (c *CFG) Range(symbolSequence string) util.StringSet {
	symbols := c.repr.ToSymbolSequence(symbolSequence)

	result := util.NewStringSet()
	for _, symbol := range symbols {
		visited := util.NewKeySet[int]()
		if c.populateRangeBySymbol(symbol, result, visited, false) {
			break
		}
	}
	return result
}

// populateRangeBySymbol records the symbol (when push is set) and every
// non-terminal left-reachable through its productions. Returns whether the
// left-reach walk should stop at this symbol because it cannot derive ε.
func (c *CFG) populateRangeBySymbol(symbol string, result util.StringSet, visited util.KeySet[int], push bool) bool {
	if c.repr.IsTerminal(symbol) {
		return true
	}

	if push {
		result.Add(symbol)
	}

	for _, index := range c.productionsBySymbol[symbol] {
		c.populateRange(index, result, visited)
	}

	return !c.nullableSymbols([]string{symbol})
}

func (c *CFG) populateRange(index int, result util.StringSet, visited util.KeySet[int]) {
	if visited.Has(index) {
		return
	}
	visited.Add(index)

	for _, symbol := range c.productions[index].Products {
		if c.populateRangeBySymbol(symbol, result, visited, true) {
			return
		}
	}
}

// IsRecursive returns whether any non-terminal of the grammar is
// left-recursive, directly or indirectly.
func (c *CFG) IsRecursive() bool {
	for symbol := range c.nonTerminals {
		if c.rangeOfSymbol(symbol).Has(symbol) {
			return true
		}
	}
	return false
}

func (c *CFG) rangeOfSymbol(symbol string) util.StringSet {
	result := util.NewStringSet()
	visited := util.NewKeySet[int]()
	c.populateRangeBySymbol(symbol, result, visited, false)
	return result
}

// RecursionType classifies the left recursion of a non-terminal: RefDirect if
// one of its own productions starts with it (walking past nullable leading
// symbols), RefIndirect if it is left-reachable from itself only through
// other non-terminals, RefNone otherwise. Terminals are RefNone.
func (c *CFG) RecursionType(symbol string) ReferenceType {
	if c.repr.IsTerminal(symbol) {
		return RefNone
	}

	for _, index := range c.productionsBySymbol[symbol] {
		prod := c.productions[index]
		for _, s := range prod.Products {
			if s == symbol {
				return RefDirect
			}
			if c.repr.IsTerminal(s) || !c.nullableSymbols([]string{s}) {
				break
			}
		}
	}

	if c.rangeOfSymbol(symbol).Has(symbol) {
		return RefIndirect
	}

	return RefNone
}

// IsFactored returns whether no non-terminal of the grammar has a factoring
// conflict among its alternatives.
func (c *CFG) IsFactored() bool {
	for symbol := range c.nonTerminals {
		if c.NonFactoringType(symbol) != RefNone {
			return false
		}
	}
	return true
}

// NonFactoringType classifies the factoring conflict of a non-terminal:
// RefDirect if two of its productions share a leading terminal, RefIndirect
// if two of its productions have overlapping FIRST sets, RefNone otherwise.
// Terminals are RefNone.
func (c *CFG) NonFactoringType(symbol string) ReferenceType {
	if c.repr.IsTerminal(symbol) {
		return RefNone
	}
	c.updateFirst()

	history := util.NewStringSet()
	firstSets := util.NewStringSet()
	indirect := false

	for _, index := range c.productionsBySymbol[symbol] {
		prod := c.productions[index]
		if prod.Size() == 0 {
			continue
		}

		if c.repr.IsTerminal(prod.Products[0]) {
			if history.Has(prod.Products[0]) {
				return RefDirect
			}
			history.Add(prod.Products[0])
		}

		if !indirect {
			for s := range c.prodFirst[index] {
				if firstSets.Has(s) {
					indirect = true
					break
				}
				firstSets.Add(s)
			}
		}
	}

	if indirect {
		return RefIndirect
	}
	return RefNone
}
