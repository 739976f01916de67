package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// the 6-state machine from the minimization example: q5 is unreachable, q4 is
// dead, q1 and q2 are equivalent.
func buildMinimizationExample() *DFA {
	d := &DFA{}
	d.AddState("q0").AddState("q1").AddState("q2").AddState("q3").AddState("q4").AddState("q5")
	d.AddTransition("q0", "q1", 'a')
	d.AddTransition("q0", "q2", 'b')
	d.AddTransition("q1", "q2", 'b')
	d.AddTransition("q2", "q1", 'b')
	d.AddTransition("q1", "q3", 'c')
	d.AddTransition("q2", "q3", 'c')
	d.AddTransition("q3", "q4", 'a')
	d.AddTransition("q4", "q4", 'b')
	d.AddTransition("q5", "q2", 'a')
	d.Accept("q3")
	d.SetInitial("q0")
	return d
}

// mod-k counter over {a} accepting multiples of k.
func buildModCounter(k int) *DFA {
	d := &DFA{}
	names := make([]string, k)
	for i := 0; i < k; i++ {
		names[i] = string(rune('A' + i))
		d.AddState(names[i])
	}
	for i := 0; i < k; i++ {
		d.AddTransition(names[i], names[(i+1)%k], 'a')
	}
	d.Accept(names[0])
	d.SetInitial(names[0])
	return d
}

func Test_DFA_Execution(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectAccept bool
		expectError  bool
	}{
		{name: "empty input rejected", input: "", expectAccept: false},
		{name: "accepted word", input: "ac", expectAccept: true},
		{name: "other accepted word", input: "bbc", expectAccept: true},
		{name: "prefix only", input: "a", expectAccept: false},
		{name: "missing transition latches", input: "ca", expectAccept: false, expectError: true},
		{name: "reads after latch are dropped", input: "cac", expectAccept: false, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			d := buildMinimizationExample()
			d.Reset()
			d.ReadString(tc.input)

			assert.Equal(tc.expectAccept, d.Accepts())
			assert.Equal(tc.expectError, d.Error())
		})
	}
}

func Test_DFA_EmptyDFA(t *testing.T) {
	assert := assert.New(t)

	d := &DFA{}
	d.Reset()
	d.Read('a')

	assert.False(d.Accepts())
	assert.True(d.Error())
	assert.True(d.Empty())
}

func Test_DFA_RemoveState_PrunesIncoming(t *testing.T) {
	assert := assert.New(t)

	d := buildMinimizationExample()
	d.RemoveState("q3")

	assert.Equal(5, d.Size())
	q1, ok := d.StateByName("q1")
	assert.True(ok)
	_, hasC := q1.Transitions['c']
	assert.False(hasC)

	// removing a state that isn't there is a no-op
	d.RemoveState("nope")
	assert.Equal(5, d.Size())
}

func Test_DFA_MaterializeErrorState(t *testing.T) {
	assert := assert.New(t)

	d := buildMinimizationExample()
	d.MaterializeErrorState(false)

	assert.Equal(7, d.Size())
	sink, ok := d.StateByName(ErrorStateName)
	assert.True(ok)
	assert.False(sink.Accepts)

	// now complete; materializing again without forcing changes nothing
	d2 := d.Copy()
	d2.MaterializeErrorState(false)
	assert.Equal(7, d2.Size())

	// but forcing adds a uniquely-named second sink
	d2.MaterializeErrorState(true)
	assert.Equal(8, d2.Size())
}

func Test_DFA_Simplification(t *testing.T) {
	assert := assert.New(t)

	d := buildMinimizationExample()

	noUnreachable := d.WithoutUnreachableStates()
	assert.Equal(5, noUnreachable.Size())
	_, hasQ5 := noUnreachable.StateByName("q5")
	assert.False(hasQ5)

	noDead := d.WithoutDeadStates()
	_, hasQ4 := noDead.StateByName("q4")
	assert.False(hasQ4)

	useful := d.WithoutUselessStates()
	assert.Equal(4, useful.Size())
	assert.Equal("q0", useful.Initial())
}

func Test_DFA_Minimized(t *testing.T) {
	assert := assert.New(t)

	d := buildMinimizationExample()
	min := d.Minimized()

	assert.Equal(3, min.Size())

	// the minimized automaton still accepts the same language
	for _, word := range []string{"ac", "bbc", "abc", "bc", "abbbc"} {
		min.Reset()
		min.ReadString(word)
		assert.True(min.Accepts(), "expected minimized DFA to accept %q", word)
	}
	for _, word := range []string{"", "a", "b", "aca", "cc", "acb"} {
		min.Reset()
		min.ReadString(word)
		assert.False(min.Accepts(), "expected minimized DFA to reject %q", word)
	}

	// the receiver is left without a materialized sink
	assert.Equal(6, d.Size())

	// minimizing again is a fixed point
	assert.Equal(3, min.Minimized().Size())
}

func Test_DFA_Intersect(t *testing.T) {
	assert := assert.New(t)

	mod3 := buildModCounter(3)
	mod2 := buildModCounter(2)

	prod := mod3.Intersect(mod2)

	// a^n is accepted iff n is a multiple of 6
	for n := 0; n <= 6; n++ {
		word := ""
		for i := 0; i < n; i++ {
			word += "a"
		}
		prod.Reset()
		prod.ReadString(word)
		assert.Equal(n%6 == 0, prod.Accepts(), "a^%d", n)
	}

	// operands must come back without their temporary sinks
	assert.Equal(3, mod3.Size())
	assert.Equal(2, mod2.Size())
}

func Test_DFA_Union(t *testing.T) {
	assert := assert.New(t)

	mod3 := buildModCounter(3)
	mod2 := buildModCounter(2)

	u := mod3.Union(mod2)

	for n := 0; n <= 7; n++ {
		word := ""
		for i := 0; i < n; i++ {
			word += "a"
		}
		u.Reset()
		u.ReadString(word)
		assert.Equal(n%2 == 0 || n%3 == 0, u.Accepts(), "a^%d", n)
	}
}

func Test_DFA_Complement(t *testing.T) {
	assert := assert.New(t)

	mod2 := buildModCounter(2)
	comp := mod2.Complement()

	for n := 0; n <= 5; n++ {
		word := ""
		for i := 0; i < n; i++ {
			word += "a"
		}
		comp.Reset()
		comp.ReadString(word)
		assert.Equal(n%2 != 0, comp.Accepts(), "a^%d", n)
	}

	// double complement is language-equivalent to the original
	assert.True(comp.Complement().Equal(mod2))
}

func Test_DFA_ContainsAndEqual(t *testing.T) {
	assert := assert.New(t)

	mod2 := buildModCounter(2)
	mod6 := buildModCounter(6)

	assert.True(mod2.Contains(mod6))
	assert.False(mod6.Contains(mod2))
	assert.False(mod2.Equal(mod6))

	assert.True(mod2.Equal(buildModCounter(2)))

	// a minimized DFA is equal to its source
	big := buildMinimizationExample()
	assert.True(big.Minimized().Equal(big))
}
