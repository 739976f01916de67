package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/minnow/internal/util"
)

// productConstruction builds the pair-state BFS of two DFAs over the union of
// their alphabets. Which pairs accept is decided by acceptPred applied to the
// acceptance of the two halves. Both operands are temporarily completed with a
// materialized error state; the sinks are removed again on every exit path so
// the operation is side-effect-neutral on its operands.
func (d *DFA) productConstruction(other *DFA, acceptPred func(a, b bool) bool) *DFA {
	if len(d.states) == 0 || len(other.states) == 0 {
		return &DFA{}
	}

	union := util.NewKeySet[rune]()
	for c := range d.Alphabet() {
		union.Add(c)
	}
	for c := range other.Alphabet() {
		union.Add(c)
	}
	alphabet := union.Elements()
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	d.materializeErrorStateOver(true, alphabet)
	other.materializeErrorStateOver(true, alphabet)
	defer d.removeMaterializedErrorStates()
	defer other.removeMaterializedErrorStates()

	result := &DFA{}

	type pair struct {
		left, right int
	}
	pairName := func(p pair) string {
		return fmt.Sprintf("(%s,%s)", d.states[p.left].Name, other.states[p.right].Name)
	}

	start := pair{d.initial, other.initial}
	seen := util.NewKeySet[pair]()
	seen.Add(start)
	queue := []pair{start}

	result.AddState(pairName(start))
	if acceptPred(d.states[start.left].Accepts, other.states[start.right].Accepts) {
		result.Accept(pairName(start))
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range alphabet {
			// both sides are complete over the union alphabet, so stepping
			// can never miss
			next := pair{
				left:  d.states[current.left].Transitions[c],
				right: other.states[current.right].Transitions[c],
			}

			if !seen.Has(next) {
				seen.Add(next)
				queue = append(queue, next)

				result.AddState(pairName(next))
				if acceptPred(d.states[next.left].Accepts, other.states[next.right].Accepts) {
					result.Accept(pairName(next))
				}
			}

			result.AddTransition(pairName(current), pairName(next), c)
		}
	}

	result.SetInitial(pairName(start))
	return result
}

// Complement returns a DFA accepting exactly the strings this one rejects,
// relative to its own alphabet.
func (d *DFA) Complement() *DFA {
	result := d.Copy()
	result.MaterializeErrorState(false)

	for i := range result.states {
		result.states[i].Accepts = !result.states[i].Accepts
	}

	// a materialized sink that ended up non-accepting carries no information;
	// drop it to keep the transition function minimal
	for _, name := range result.materializedErrorStates() {
		idx := result.indexByName[name]
		if !result.states[idx].Accepts {
			result.RemoveState(name)
		}
	}

	return result
}

// Intersect returns a DFA accepting exactly the strings accepted by both this
// DFA and the other.
func (d *DFA) Intersect(other *DFA) *DFA {
	return d.productConstruction(other, func(a, b bool) bool { return a && b })
}

// Union returns a DFA accepting exactly the strings accepted by either this
// DFA or the other.
func (d *DFA) Union(other *DFA) *DFA {
	return d.productConstruction(other, func(a, b bool) bool { return a || b })
}

// Contains returns whether the language of this DFA contains the language of
// the other.
func (d *DFA) Contains(other *DFA) bool {
	return d.Complement().Intersect(other).Empty()
}

// Equal returns whether two DFAs accept exactly the same language.
func (d *DFA) Equal(other *DFA) bool {
	return d.Contains(other) && other.Contains(d)
}
