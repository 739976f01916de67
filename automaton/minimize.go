package automaton

import (
	"strings"

	"github.com/dekarrin/minnow/internal/util"
)

// partition is one block of the refinement, kept together with a
// representative member so lifting transitions does not repeatedly search for
// one.
type partition struct {
	members util.IndexSet
	rep     int
}

func newPartition(members util.IndexSet) partition {
	return partition{members: members, rep: members.Any()}
}

// WithoutEquivalentStates returns a DFA equivalent to this one but with all
// equivalent states collapsed into a single state each, via Hopcroft-style
// partition refinement. It assumes every state is reachable; use Minimized to
// also strip unreachable states first.
//
// The receiver temporarily gains a materialized error state during the
// refinement; it is removed again before the method returns.
func (d *DFA) WithoutEquivalentStates() *DFA {
	if len(d.states) == 0 {
		return &DFA{}
	}

	d.MaterializeErrorState(true)
	defer d.removeMaterializedErrorStates()

	classes := d.getEquivalenceClasses()

	// the partition holding the materialized error state vanishes, taking any
	// states equivalent to it (the dead ones) along with it
	errIdx := d.indexByName[d.materializedErrorStates()[0]]
	kept := make([]partition, 0, len(classes))
	for _, p := range classes {
		if !p.members.Contains(errIdx) {
			kept = append(kept, p)
		}
	}

	// order the new states by the lowest original index of each block so the
	// result preserves the relative order of the input states
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			if lowestMember(kept[j].members) < lowestMember(kept[i].members) {
				kept[i], kept[j] = kept[j], kept[i]
			}
		}
	}

	classOf := map[int]int{}
	for i, p := range kept {
		for _, member := range p.members.Elements() {
			classOf[member] = i
		}
	}

	result := &DFA{}
	names := make([]string, len(kept))
	for i, p := range kept {
		names[i] = d.partitionName(p.members)
		result.AddState(names[i])
		if d.states[p.rep].Accepts {
			result.Accept(names[i])
		}
	}

	// lift transitions via the representative of each block
	for i, p := range kept {
		for input, target := range d.states[p.rep].Transitions {
			targetClass, ok := classOf[target]
			if !ok {
				// transition into the dropped error partition
				continue
			}
			result.AddTransition(names[i], names[targetClass], input)
		}
	}

	if initClass, ok := classOf[d.initial]; ok {
		result.SetInitial(names[initClass])
	}

	return result
}

// Minimized returns the minimal DFA for this DFA's language: unreachable
// states are removed first (the refinement assumes reachability), then
// equivalent states are collapsed.
func (d *DFA) Minimized() *DFA {
	return d.WithoutUnreachableStates().WithoutEquivalentStates()
}

// getEquivalenceClasses runs the partition refinement over a complete DFA and
// returns the final blocks.
func (d *DFA) getEquivalenceClasses() []partition {
	n := len(d.states)

	final := util.NewEmptyIndexSet(n)
	for i := range d.states {
		if d.states[i].Accepts {
			final.Add(i)
		}
	}
	nonFinal := final.Complement()

	var blocks []util.IndexSet
	if !final.Empty() {
		blocks = append(blocks, final)
	}
	if !nonFinal.Empty() {
		blocks = append(blocks, nonFinal)
	}

	worklist := []util.IndexSet{}
	inWorklist := map[string]bool{}
	if !final.Empty() {
		worklist = append(worklist, final)
		inWorklist[final.Key()] = true
	}

	alphabet := d.sortedAlphabet()

	for len(worklist) > 0 {
		splitter := worklist[0]
		worklist = worklist[1:]
		delete(inWorklist, splitter.Key())

		for _, c := range alphabet {
			preds := d.stateFilter(c, splitter)

			newBlocks := make([]util.IndexSet, 0, len(blocks))
			for _, y := range blocks {
				inter := y.Intersect(preds)
				diff := y.Difference(preds)
				if inter.Empty() || diff.Empty() {
					newBlocks = append(newBlocks, y)
					continue
				}

				newBlocks = append(newBlocks, inter, diff)

				if inWorklist[y.Key()] {
					// replace Y in the worklist with both halves
					for wi := range worklist {
						if worklist[wi].Equal(y) {
							worklist = append(worklist[:wi], worklist[wi+1:]...)
							break
						}
					}
					delete(inWorklist, y.Key())
					worklist = append(worklist, inter, diff)
					inWorklist[inter.Key()] = true
					inWorklist[diff.Key()] = true
				} else {
					smaller := inter
					if diff.Count() < inter.Count() {
						smaller = diff
					}
					worklist = append(worklist, smaller)
					inWorklist[smaller.Key()] = true
				}
			}
			blocks = newBlocks
		}
	}

	classes := make([]partition, len(blocks))
	for i := range blocks {
		classes[i] = newPartition(blocks[i])
	}
	return classes
}

// stateFilter returns the set of states that, on reading the given input, go
// to a state in the given set.
func (d *DFA) stateFilter(input rune, targets util.IndexSet) util.IndexSet {
	result := util.NewEmptyIndexSet(len(d.states))
	for i := range d.states {
		if target, ok := d.states[i].Transitions[input]; ok && targets.Contains(target) {
			result.Add(i)
		}
	}
	return result
}

// partitionName derives a name for a merged state from its members, keeping
// single-member blocks under their original name.
func (d *DFA) partitionName(members util.IndexSet) string {
	elems := members.Elements()
	if len(elems) == 1 {
		return d.states[elems[0]].Name
	}

	names := make([]string, len(elems))
	for i, idx := range elems {
		names[i] = d.states[idx].Name
	}
	return "{" + strings.Join(names, ",") + "}"
}

func lowestMember(s util.IndexSet) int {
	return s.Any()
}
