// Package automaton provides a deterministic finite automaton with
// minimization and the Boolean algebra of regular languages.
//
// A DFA is built up from named states and character transitions, executed a
// character at a time, and can be simplified (dead/unreachable state removal),
// minimized (Hopcroft-style partition refinement) and combined with other
// DFAs (complement, intersection, union, containment, equality) via product
// construction.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dekarrin/minnow/internal/util"
)

// ErrorStateName is the name given to the materialized error state. If a state
// with this name already exists, a unique variant is generated instead.
const ErrorStateName = "__ERROR__"

// State is a single named node of a DFA. Identity is the name; Accepts marks
// the state as final. Transitions is a partial map from input character to the
// index of the target state.
type State struct {
	Name        string
	Accepts     bool
	Transitions map[rune]int
}

// Copy returns a deep-copied duplicate of this State.
func (s State) Copy() State {
	s2 := State{
		Name:        s.Name,
		Accepts:     s.Accepts,
		Transitions: make(map[rune]int, len(s.Transitions)),
	}
	for k, v := range s.Transitions {
		s2.Transitions[k] = v
	}
	return s2
}

func (s State) String() string {
	inputs := make([]rune, 0, len(s.Transitions))
	for input := range s.Transitions {
		inputs = append(inputs, input)
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i] < inputs[j] })

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("(%q", s.Name))
	if s.Accepts {
		sb.WriteString(" [F]")
	}
	for _, input := range inputs {
		sb.WriteString(fmt.Sprintf(" %q->%d", input, s.Transitions[input]))
	}
	sb.WriteRune(')')
	return sb.String()
}

// DFA is a deterministic finite automaton. The zero value is an empty DFA
// ready to use.
//
// States are kept in insertion order; both directions of the index<->state
// mapping are O(1). Execution state (the current state and the latched error
// flag) lives on the DFA itself: Reset, then feed characters with Read, then
// ask Accepts.
type DFA struct {
	states      []State
	indexByName map[string]int

	initial int
	current int

	// latches on the first missing transition and stays set until Reset.
	errLatched bool
}

// AddState appends a new non-accepting state with the given name and returns
// the DFA to allow chaining. Adding a name that already exists has no effect.
// The first state added becomes the initial state.
func (d *DFA) AddState(name string) *DFA {
	if _, ok := d.indexByName[name]; ok {
		return d
	}

	if d.indexByName == nil {
		d.indexByName = map[string]int{}
	}

	d.states = append(d.states, State{Name: name, Transitions: map[rune]int{}})
	d.indexByName[name] = len(d.states) - 1

	if len(d.states) == 1 {
		d.initial = 0
		d.Reset()
	}

	return d
}

// AddTransition adds a transition between two existing states, replacing any
// prior transition from the same state on the same input. Panics if either
// state does not exist.
func (d *DFA) AddTransition(from, to string, input rune) *DFA {
	fromIdx, ok := d.indexByName[from]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", from))
	}
	toIdx, ok := d.indexByName[to]
	if !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", to))
	}

	d.states[fromIdx].Transitions[input] = toIdx
	return d
}

// RemoveTransition removes the transition on the given input from the given
// state. Removing a transition that does not exist is a no-op.
func (d *DFA) RemoveTransition(from string, input rune) *DFA {
	fromIdx, ok := d.indexByName[from]
	if !ok {
		return d
	}
	delete(d.states[fromIdx].Transitions, input)
	return d
}

// RemoveState removes a state along with every transition into it. Removing a
// state that does not exist is a no-op. Remaining states keep their relative
// order.
func (d *DFA) RemoveState(name string) *DFA {
	idx, ok := d.indexByName[name]
	if !ok {
		return d
	}

	delete(d.indexByName, name)
	d.states = append(d.states[:idx], d.states[idx+1:]...)

	for i := range d.states {
		d.indexByName[d.states[i].Name] = i

		for input, target := range d.states[i].Transitions {
			if target == idx {
				delete(d.states[i].Transitions, input)
			} else if target > idx {
				d.states[i].Transitions[input] = target - 1
			}
		}
	}

	if d.initial == idx {
		d.initial = 0
	} else if d.initial > idx {
		d.initial--
	}

	d.Reset()
	return d
}

// SetInitial marks the named state as the initial state. Panics if the state
// does not exist.
func (d *DFA) SetInitial(name string) *DFA {
	idx, ok := d.indexByName[name]
	if !ok {
		panic(fmt.Sprintf("set initial to non-existent state %q", name))
	}
	d.initial = idx
	d.Reset()
	return d
}

// Accept marks the given states as accepting and returns the DFA to allow
// chaining. Panics if any of the states does not exist.
func (d *DFA) Accept(names ...string) *DFA {
	for _, name := range names {
		idx, ok := d.indexByName[name]
		if !ok {
			panic(fmt.Sprintf("accept non-existent state %q", name))
		}
		d.states[idx].Accepts = true
	}
	return d
}

// Size returns the number of states.
func (d *DFA) Size() int {
	return len(d.states)
}

// Initial returns the name of the initial state. Returns "" for an empty DFA.
func (d *DFA) Initial() string {
	if len(d.states) == 0 {
		return ""
	}
	return d.states[d.initial].Name
}

// Current returns the name of the current state of the execution. Note that
// after the error flag has latched, this is the last state the automaton was
// in before the failed read. Returns "" for an empty DFA.
func (d *DFA) Current() string {
	if len(d.states) == 0 {
		return ""
	}
	return d.states[d.current].Name
}

// StateByName returns the state with the given name.
func (d *DFA) StateByName(name string) (State, bool) {
	idx, ok := d.indexByName[name]
	if !ok {
		return State{}, false
	}
	return d.states[idx], true
}

// Reset restores the execution to the initial state and clears the latched
// error flag. An empty DFA is put directly into the error state.
func (d *DFA) Reset() {
	if len(d.states) > 0 {
		d.current = d.initial
		d.errLatched = false
	} else {
		d.errLatched = true
	}
}

// Read steps the automaton on a single character. If the current state has no
// transition on the character, the error flag latches; further reads are
// silently ignored.
func (d *DFA) Read(input rune) {
	if d.errLatched || len(d.states) == 0 {
		return
	}

	next, ok := d.states[d.current].Transitions[input]
	if !ok {
		d.errLatched = true
		return
	}
	d.current = next
}

// ReadString feeds every character of the input to Read.
func (d *DFA) ReadString(input string) {
	for _, c := range input {
		d.Read(c)
	}
}

// Error returns whether the last read found no outgoing transition from the
// then-current state.
func (d *DFA) Error() bool {
	return d.errLatched
}

// Accepts returns whether the automaton is in a final state with no latched
// error. An empty DFA accepts nothing.
func (d *DFA) Accepts() bool {
	if len(d.states) == 0 || d.errLatched {
		return false
	}
	return d.states[d.current].Accepts
}

// Alphabet returns every character used in a transition of this DFA.
func (d *DFA) Alphabet() util.KeySet[rune] {
	result := util.NewKeySet[rune]()
	for i := range d.states {
		for input := range d.states[i].Transitions {
			result.Add(input)
		}
	}
	return result
}

// sortedAlphabet returns the alphabet in increasing character order so that
// algorithms iterating over it are deterministic.
func (d *DFA) sortedAlphabet() []rune {
	alpha := d.Alphabet().Elements()
	sort.Slice(alpha, func(i, j int) bool { return alpha[i] < alpha[j] })
	return alpha
}

// FinalStates returns the names of all accepting states.
func (d *DFA) FinalStates() util.StringSet {
	result := util.NewStringSet()
	for i := range d.states {
		if d.states[i].Accepts {
			result.Add(d.states[i].Name)
		}
	}
	return result
}

// Copy returns a deep-copied duplicate of this DFA, including its execution
// state.
func (d *DFA) Copy() *DFA {
	d2 := &DFA{
		states:      make([]State, len(d.states)),
		indexByName: make(map[string]int, len(d.indexByName)),
		initial:     d.initial,
		current:     d.current,
		errLatched:  d.errLatched,
	}
	for i := range d.states {
		d2.states[i] = d.states[i].Copy()
	}
	for k, v := range d.indexByName {
		d2.indexByName[k] = v
	}
	return d2
}

func (d *DFA) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", d.Initial()))
	for i := range d.states {
		sb.WriteString("\n\t")
		sb.WriteString(d.states[i].String())
		if i+1 < len(d.states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}

// MaterializeErrorState adds a sink state and fills in every missing
// transition over the current alphabet so the automaton becomes complete. If
// forced is true the sink is added even when the DFA is already complete.
// Algorithms that require a complete transition function (minimization,
// product construction) call this first and remove the sink before returning.
func (d *DFA) MaterializeErrorState(forced bool) {
	d.materializeErrorStateOver(forced, d.sortedAlphabet())
}

func (d *DFA) materializeErrorStateOver(forced bool, alphabet []rune) {
	missing := 0
	for i := range d.states {
		for _, c := range alphabet {
			if _, ok := d.states[i].Transitions[c]; !ok {
				missing++
			}
		}
	}

	if missing == 0 && !forced {
		return
	}

	name := ErrorStateName
	if _, taken := d.indexByName[name]; taken {
		name = ErrorStateName + uuid.NewString()
	}

	d.AddState(name)
	errIdx := d.indexByName[name]

	for i := range d.states {
		for _, c := range alphabet {
			if _, ok := d.states[i].Transitions[c]; !ok {
				d.states[i].Transitions[c] = errIdx
			}
		}
	}
}

// materializedErrorStates returns the names of all currently-materialized
// error states (the canonical name plus any unique variants).
func (d *DFA) materializedErrorStates() []string {
	var names []string
	for i := range d.states {
		if strings.HasPrefix(d.states[i].Name, ErrorStateName) {
			names = append(names, d.states[i].Name)
		}
	}
	return names
}

func (d *DFA) removeMaterializedErrorStates() {
	for _, name := range d.materializedErrorStates() {
		d.RemoveState(name)
	}
}

// getReachableStates returns the set of state indexes reachable from the
// initial state.
func (d *DFA) getReachableStates() util.IndexSet {
	reachable := util.NewEmptyIndexSet(len(d.states))
	if len(d.states) == 0 {
		return reachable
	}
	for _, idx := range d.bfs(d.initial).Elements() {
		reachable.Add(idx)
	}
	return reachable
}

// getDeadStates returns the set of state indexes from which no accepting
// state can be reached.
func (d *DFA) getDeadStates() util.IndexSet {
	dead := util.NewIndexSet(len(d.states))

	accepting := util.NewEmptyIndexSet(len(d.states))
	for i := range d.states {
		if d.states[i].Accepts {
			accepting.Add(i)
		}
	}

	for i := range d.states {
		if d.states[i].Accepts {
			dead.Remove(i)
			continue
		}
		if !d.bfs(i).Intersect(accepting).Empty() {
			dead.Remove(i)
		}
	}

	return dead
}

// bfs returns the set of state indexes reachable from origin, including
// origin itself.
func (d *DFA) bfs(origin int) util.IndexSet {
	result := util.NewEmptyIndexSet(len(d.states))
	result.Add(origin)

	queue := []int{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range d.states[current].Transitions {
			if !result.Contains(target) {
				result.Add(target)
				queue = append(queue, target)
			}
		}
	}
	return result
}

// simplify returns a DFA equal to this one but keeping only the whitelisted
// states, preserving their relative order. Transitions into removed states
// are dropped. The initial marker transfers if the initial state survives.
func (d *DFA) simplify(whitelist util.IndexSet) *DFA {
	result := &DFA{}

	for i := range d.states {
		if whitelist.Contains(i) {
			result.AddState(d.states[i].Name)
			if d.states[i].Accepts {
				result.Accept(d.states[i].Name)
			}
		}
	}

	for i := range d.states {
		if !whitelist.Contains(i) {
			continue
		}
		for input, target := range d.states[i].Transitions {
			if whitelist.Contains(target) {
				result.AddTransition(d.states[i].Name, d.states[target].Name, input)
			}
		}
	}

	if whitelist.Contains(d.initial) {
		result.SetInitial(d.states[d.initial].Name)
	}

	return result
}

// WithoutDeadStates returns a DFA equivalent to this one but without states
// from which no accepting state is reachable.
func (d *DFA) WithoutDeadStates() *DFA {
	return d.simplify(d.getDeadStates().Complement())
}

// WithoutUnreachableStates returns a DFA equivalent to this one but without
// states that cannot be reached from the initial state.
func (d *DFA) WithoutUnreachableStates() *DFA {
	return d.simplify(d.getReachableStates())
}

// WithoutUselessStates returns a DFA equivalent to this one but without
// states that are dead or unreachable. Has the same effect as chaining
// WithoutDeadStates and WithoutUnreachableStates but does it in one pass.
func (d *DFA) WithoutUselessStates() *DFA {
	useful := d.getReachableStates().Intersect(d.getDeadStates().Complement())
	return d.simplify(useful)
}

// Empty returns whether this DFA accepts no strings at all.
func (d *DFA) Empty() bool {
	if len(d.states) == 0 {
		return true
	}
	for _, idx := range d.bfs(d.initial).Elements() {
		if d.states[idx].Accepts {
			return false
		}
	}
	return true
}
