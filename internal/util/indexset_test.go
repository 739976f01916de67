package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IndexSet_NewIsFull(t *testing.T) {
	assert := assert.New(t)

	s := NewIndexSet(70)
	assert.Equal(70, s.Count())
	assert.True(s.Contains(0))
	assert.True(s.Contains(63))
	assert.True(s.Contains(69))
	assert.False(s.Contains(70))
	assert.False(s.Contains(-1))
	assert.False(s.Empty())

	empty := NewEmptyIndexSet(70)
	assert.Equal(0, empty.Count())
	assert.True(empty.Empty())
}

func Test_IndexSet_RemoveAndAdd(t *testing.T) {
	assert := assert.New(t)

	s := NewIndexSet(10)
	s.Remove(3)
	assert.False(s.Contains(3))
	assert.Equal(9, s.Count())

	// removal is idempotent
	s.Remove(3)
	assert.Equal(9, s.Count())

	s.Add(3)
	assert.True(s.Contains(3))
	assert.Equal(10, s.Count())
}

func Test_IndexSet_Any(t *testing.T) {
	assert := assert.New(t)

	s := NewEmptyIndexSet(128)
	s.Add(90)
	assert.Equal(90, s.Any())
	s.Add(5)
	assert.Equal(5, s.Any())

	assert.Panics(func() {
		NewEmptyIndexSet(4).Any()
	})
}

func Test_IndexSet_Algebra(t *testing.T) {
	assert := assert.New(t)

	a := NewEmptyIndexSet(8)
	a.Add(1)
	a.Add(2)
	a.Add(3)

	b := NewEmptyIndexSet(8)
	b.Add(2)
	b.Add(3)
	b.Add(4)

	assert.Equal([]int{2, 3}, a.Intersect(b).Elements())
	assert.Equal([]int{1}, a.Difference(b).Elements())
	assert.Equal([]int{0, 4, 5, 6, 7}, a.Complement().Elements())

	assert.True(a.Equal(a.Copy()))
	assert.False(a.Equal(b))

	// complement respects capacity masking in the last word
	full := NewEmptyIndexSet(70).Complement()
	assert.Equal(70, full.Count())
}

func Test_IndexSet_Key(t *testing.T) {
	assert := assert.New(t)

	a := NewEmptyIndexSet(100)
	a.Add(42)
	b := NewEmptyIndexSet(100)
	b.Add(42)

	assert.Equal(a.Key(), b.Key())

	b.Add(7)
	assert.NotEqual(a.Key(), b.Key())

	// distinct capacities never share a key
	assert.NotEqual(NewEmptyIndexSet(64).Key(), NewEmptyIndexSet(128).Key())
}

func Test_IndexSet_CopyIsIndependent(t *testing.T) {
	assert := assert.New(t)

	a := NewIndexSet(10)
	b := a.Copy()
	b.Remove(5)

	assert.True(a.Contains(5))
	assert.False(b.Contains(5))
}
