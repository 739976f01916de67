package grammar

import (
	"fmt"

	"github.com/dekarrin/minnow/internal/util"
)

// WithoutRecursion returns a grammar deriving the same language but with
// immediate left recursion removed: each non-terminal A with productions
//
//	A -> A α1 | ... | A αm | β1 | ... | βn
//
// is rewritten to
//
//	A  -> β1 A' | ... | βn A'
//	A' -> α1 A' | ... | αm A' | ε
//
// This is Algorithm 4.19 from the purple dragon book restricted to the
// immediate case. Only productions whose first symbol is A itself are
// rewritten; a production such as A -> N A γ with N nullable, which
// RecursionType reports as RefDirect, is kept as it is (with A' appended), so
// the result can still be left-recursive. Indirect left recursion is detected
// but not eliminated; it returns an error.
func (c *CFG) WithoutRecursion() (*CFG, error) {
	result := New(c.repr)

	for _, nonTerminal := range c.orderedNonTerminalsByFirstProduction() {
		recType := c.RecursionType(nonTerminal)

		if recType == RefNone {
			for _, index := range c.productionsBySymbol[nonTerminal] {
				prod := c.productions[index]
				result.addParts(ProductionParts{Name: prod.Name, Products: prod.Products})
			}
			continue
		}

		if recType == RefIndirect {
			return nil, fmt.Errorf("cannot eliminate indirect left recursion of %q", nonTerminal)
		}

		newNT := c.primedSymbol(nonTerminal, result)

		for _, index := range c.productionsBySymbol[nonTerminal] {
			prod := c.productions[index]
			if prod.Size() > 0 && prod.Products[0] == nonTerminal {
				// A -> A α becomes A' -> α A'
				products := append([]string{}, prod.Products[1:]...)
				products = append(products, newNT)
				result.addParts(ProductionParts{Name: newNT, Products: products})
			} else {
				// A -> β becomes A -> β A'
				products := append([]string{}, prod.Products...)
				products = append(products, newNT)
				result.addParts(ProductionParts{Name: prod.Name, Products: products})
			}
		}

		result.addParts(ProductionParts{Name: newNT, Products: []string{}})
	}

	return result, nil
}

// orderedNonTerminalsByFirstProduction returns the defined non-terminals in
// the order their first production was added, which keeps the rewrite
// deterministic.
func (c *CFG) orderedNonTerminalsByFirstProduction() []string {
	seen := util.NewStringSet()
	var order []string
	for i := range c.productions {
		if !seen.Has(c.productions[i].Name) {
			seen.Add(c.productions[i].Name)
			order = append(order, c.productions[i].Name)
		}
	}
	return order
}

// primedSymbol derives a fresh non-terminal from the given one by appending a
// prime to its name, re-wrapped in whatever decoration the representation
// uses. Additional primes are appended until the symbol is unused in both
// this grammar and the one under construction.
func (c *CFG) primedSymbol(sym string, result *CFG) string {
	candidate := c.rewrapName(c.repr.Name(sym) + "'")
	for c.nonTerminals.Has(candidate) || result.nonTerminals.Has(candidate) {
		candidate = c.rewrapName(c.repr.Name(candidate) + "'")
	}
	return candidate
}

// rewrapName turns a bare name back into a non-terminal symbol under the
// representation by re-applying the decoration the original symbol carried.
func (c *CFG) rewrapName(name string) string {
	if c.repr.IsNonTerminal(name) {
		return name
	}

	wrapped := "<" + name + ">"
	if c.repr.IsNonTerminal(wrapped) {
		return wrapped
	}

	panic(fmt.Sprintf("cannot form a non-terminal from name %q", name))
}
