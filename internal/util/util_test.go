package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StringSet_Algebra(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y", "z"})
	b := StringSetOf([]string{"y", "z", "w"})

	assert.True(a.Union(b).Equal(StringSetOf([]string{"x", "y", "z", "w"})))
	assert.True(a.Intersection(b).Equal(StringSetOf([]string{"y", "z"})))
	assert.True(a.Difference(b).Equal(StringSetOf([]string{"x"})))
	assert.False(a.DisjointWith(b))
	assert.True(a.DisjointWith(StringSetOf([]string{"q"})))

	assert.Equal("{x, y, z}", a.StringOrdered())
	assert.Equal([]string{"w", "y", "z"}, b.OrderedElements())
}

func Test_Stack(t *testing.T) {
	assert := assert.New(t)

	s := Stack[string]{}
	assert.True(s.Empty())

	s.Push("a")
	s.Push("b")
	assert.Equal(2, s.Len())
	assert.Equal("b", s.Peek())
	assert.Equal("b", s.Pop())
	assert.Equal("a", s.Pop())
	assert.True(s.Empty())

	assert.Panics(func() { s.Pop() })
	assert.Panics(func() { s.Peek() })
}

func Test_Matrix2(t *testing.T) {
	assert := assert.New(t)

	m := NewMatrix2[string, string, int]()
	assert.Nil(m.Get("a", "b"))
	assert.False(m.Has("a", "b"))

	m.Set("a", "b", 42)
	assert.True(m.Has("a", "b"))
	assert.Equal(42, *m.Get("a", "b"))

	m.Set("a", "b", 7)
	assert.Equal(7, *m.Get("a", "b"))
}

func Test_SliceHelpers(t *testing.T) {
	assert := assert.New(t)

	assert.True(InSlice("b", []string{"a", "b"}))
	assert.False(InSlice("c", []string{"a", "b"}))

	assert.True(EqualSlices([]int{1, 2}, []int{1, 2}))
	assert.False(EqualSlices([]int{1, 2}, []int{2, 1}))

	assert.Equal([]string{"a"}, LongestCommonPrefix([]string{"a", "b"}, []string{"a", "c"}))
	assert.Equal([]int{3, 2, 1}, Reversed([]int{1, 2, 3}))

	assert.Equal("a, b, and c", MakeTextList([]string{"a", "b", "c"}))
	assert.Equal("a and b", MakeTextList([]string{"a", "b"}))
}
