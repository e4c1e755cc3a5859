package keyed

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapInsertFind(t *testing.T) {
	m := NewMap[int32, string](IntHasher[int32]{}, 2, 0)
	for i := int32(0); i < 500; i++ {
		require.True(t, m.Insert(i, string(rune('a'+i%26))))
	}
	require.Equal(t, 500, m.Len())
	for i := int32(0); i < 500; i++ {
		v, ok := m.Find(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, string(rune('a'+i%26)), v)
	}
	_, ok := m.Find(500)
	require.False(t, ok)
}

func TestMapInsertReplaces(t *testing.T) {
	m := NewMap[int, int](IntHasher[int]{}, 0, 0)
	require.True(t, m.Insert(7, 1))
	require.False(t, m.Insert(7, 2))
	require.Equal(t, 1, m.Len())
	v, ok := m.Find(7)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestMapSliceKeys(t *testing.T) {
	m := NewMap[[]int32, int](SliceHasher[int32]{}, 0, 0)
	require.True(t, m.Insert([]int32{1, 2, 3}, 10))
	require.True(t, m.Insert([]int32{1, 2}, 20))
	require.True(t, m.Insert(nil, 30))
	require.False(t, m.Insert([]int32{1, 2, 3}, 11))

	v, ok := m.Find([]int32{1, 2, 3})
	require.True(t, ok)
	require.Equal(t, 11, v)
	v, ok = m.Find([]int32{})
	require.True(t, ok)
	require.Equal(t, 30, v)
	require.False(t, m.Contains([]int32{3, 2, 1}))
}

// collide sends every key to the same bucket to exercise chaining.
type collide struct{}

func (collide) Hash(int) uint64    { return 42 }
func (collide) Equal(a, b int) bool { return a == b }

func TestMapChaining(t *testing.T) {
	m := NewMap[int, int](collide{}, 4, 100)
	for i := 0; i < 50; i++ {
		m.Insert(i, i*i)
	}
	for i := 0; i < 50; i++ {
		v, ok := m.Find(i)
		require.True(t, ok)
		require.Equal(t, i*i, v)
	}
	var keys []int
	m.Range(func(k, _ int) bool {
		keys = append(keys, k)
		return true
	})
	// One chain, kept in insertion order.
	for i, k := range keys {
		require.Equal(t, i, k)
	}
}

func TestMapRangeStops(t *testing.T) {
	m := NewMap[int, int](IntHasher[int]{}, 0, 0)
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	n := 0
	m.Range(func(int, int) bool {
		n++
		return n < 3
	})
	require.Equal(t, 3, n)
}

func TestHasherFunc(t *testing.T) {
	h := HasherFunc[string]{
		HashFn:  func(s string) uint64 { return uint64(len(s)) },
		EqualFn: func(a, b string) bool { return a == b },
	}
	s := NewSet[string](h, 0, 0)
	require.True(t, s.Insert("if"))
	require.True(t, s.Insert("id"))
	require.False(t, s.Insert("if"))
	require.True(t, s.Contains("id"))
	require.False(t, s.Contains("of"))
}

func TestSetToArray(t *testing.T) {
	s := NewSet[int32](IntHasher[int32]{}, 1, 0)
	want := []int32{9, 3, 27, 1, 0, 81}
	for _, v := range want {
		s.Insert(v)
		s.Insert(v)
	}
	require.Equal(t, len(want), s.Len())
	got := s.ToArray(nil)
	slices.Sort(got)
	slices.Sort(want)
	require.Equal(t, want, got)
}

func TestSetRangeStops(t *testing.T) {
	s := NewSet[int](IntHasher[int]{}, 0, 0)
	for i := 0; i < 10; i++ {
		s.Insert(i)
	}
	seen := map[int]bool{}
	s.Range(func(k int) bool {
		seen[k] = true
		return len(seen) < 4
	})
	require.Len(t, seen, 4)
	for k := range seen {
		require.True(t, s.Contains(k))
	}
}

func TestSliceHasherOrderMatters(t *testing.T) {
	h := SliceHasher[int32]{}
	require.Equal(t, h.Hash([]int32{1, 2}), h.Hash([]int32{1, 2}))
	require.True(t, h.Equal([]int32{1, 2}, []int32{1, 2}))
	require.False(t, h.Equal([]int32{1, 2}, []int32{2, 1}))
	require.False(t, h.Equal([]int32{1}, []int32{1, 2}))
}
