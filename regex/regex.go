// Package regex compiles an extended regular-expression syntax into an ε-NFA
// and executes it by subset-closure simulation.
//
// Supported syntax: literal characters, the "." wildcard, character classes
// "[...]" with ranges and "^" negation, alternation "|", grouping "(...)",
// the quantifiers "*", "+", "?" and counted repetition "{m}", "{m,}",
// "{m,n}", and "\" escapes.
//
// A Regex can be driven a character at a time, which is what the lexer's
// longest-match scan needs: after each Read, Matches reports whether the
// characters so far form a full match and Aborted reports whether no
// continuation can ever match again.
package regex

import (
	"github.com/dekarrin/minnow/internal/util"
)

// Regex is a compiled expression. The compiled state machine is immutable;
// the scan cursor (the active state set) is mutable and shared, so a Regex
// must not be used for two overlapping scans. Reset starts a fresh scan.
type Regex struct {
	expression string
	states     []nfaState
	accept     int
	active     util.KeySet[int]
}

// nfaState is a single ε-NFA state: at most one character-matching edge plus
// any number of spontaneous transitions.
type nfaState struct {
	// pattern is the character pattern of the outgoing matching edge: a
	// literal, a "\"-escaped literal, a "[...]" class or the "." wildcard.
	// Empty if the state has no matching edge.
	pattern string
	next    int

	spontaneous []int
}

// Compile parses an extended regular expression and compiles it into an
// ε-NFA. Malformed patterns return a *PatternError.
func Compile(expr string) (*Regex, error) {
	comps, err := lexPattern(expr)
	if err != nil {
		return nil, err
	}

	comps, err = normalize(comps)
	if err != nil {
		return nil, err
	}

	if err := linkSuccessors(comps); err != nil {
		return nil, err
	}

	r := &Regex{expression: expr}
	r.build(comps)
	r.Reset()
	return r, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables holding compiled
// regular expressions.
func MustCompile(expr string) *Regex {
	r, err := Compile(expr)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// Expression returns the source text the Regex was compiled from.
func (r *Regex) Expression() string {
	return r.expression
}

// Reset restores the scan to its starting point: the ε-closure of the entry
// state.
func (r *Regex) Reset() {
	r.active = util.NewKeySet[int]()
	r.active.Add(0)
	r.expandSpontaneous(r.active)
}

// Read feeds one character to the scan. Every active state follows its
// matching edge if the edge's pattern matches the character; the new active
// set is the ε-closure of the targets. Once the active set is empty it stays
// empty: an aborted scan never recovers.
func (r *Regex) Read(c rune) {
	next := util.NewKeySet[int]()
	for index := range r.active {
		st := r.states[index]
		if st.pattern != "" && patternMatches(st.pattern, c) {
			next.Add(st.next)
		}
	}
	r.expandSpontaneous(next)
	r.active = next
}

// Matches returns whether the characters read since the last Reset form a
// complete match of the expression.
func (r *Regex) Matches() bool {
	return r.active.Has(r.accept)
}

// Aborted returns whether the scan can no longer match no matter what input
// follows.
func (r *Regex) Aborted() bool {
	return r.active.Len() == 0
}

// MatchString resets the scan, reads the entire input and returns whether it
// is a complete match.
func (r *Regex) MatchString(input string) bool {
	r.Reset()
	for _, c := range input {
		r.Read(c)
	}
	return r.Matches()
}

// expandSpontaneous grows the given set to its ε-closure in place.
func (r *Regex) expandSpontaneous(states util.KeySet[int]) {
	queue := states.Elements()

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, index := range r.states[state].spontaneous {
			if !states.Has(index) {
				states.Add(index)
				queue = append(queue, index)
			}
		}
	}
}
