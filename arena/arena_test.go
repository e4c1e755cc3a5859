package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type node struct {
	id   int
	next *node
}

func TestAllocKeepsAddressesAcrossGrowth(t *testing.T) {
	a := New(WithCapacity[node](4))
	var ptrs []*node
	for i := 0; i < 100; i++ {
		n := a.Alloc()
		n.id = i
		ptrs = append(ptrs, n)
	}
	require.Equal(t, 100, a.Len())
	require.Greater(t, a.Blocks(), 1)
	for i, p := range ptrs {
		require.Equal(t, i, p.id)
	}
}

func TestDefaultGrowth(t *testing.T) {
	for _, x := range []struct {
		prev, request, want int
	}{
		{0, 1, DefaultCapacity},
		{0, 5000, 5000},
		{1024, 1, 1536},
		{1536, 10, 2304},
		{1024, 4096, 4096},
	} {
		require.Equal(t, x.want, DefaultGrowth(x.prev, x.request), "prev=%d request=%d", x.prev, x.request)
	}
}

func TestBlocksGrowByHalf(t *testing.T) {
	a := New(WithCapacity[int](8))
	a.AllocSlice(8)
	require.Equal(t, 8, a.Cap())
	a.AllocSlice(1)
	require.Equal(t, 12, a.Cap())
	a.AllocSlice(40)
	require.Equal(t, 40, a.Cap())
	require.Equal(t, 3, a.Blocks())
}

func TestWithGrowth(t *testing.T) {
	var calls [][2]int
	a := New(WithGrowth[int](func(prev, request int) int {
		calls = append(calls, [2]int{prev, request})
		return max(4, request)
	}))
	for i := 0; i < 10; i++ {
		a.Alloc()
	}
	require.Equal(t, 3, a.Blocks())
	require.Equal(t, 4, a.Cap())
	a.AllocSlice(9)
	require.Equal(t, 4, a.Blocks())
	require.Equal(t, 9, a.Cap())
	require.Equal(t, [][2]int{{0, 1}, {4, 1}, {4, 1}, {4, 9}}, calls)
}

func TestAllocSliceHasNoSpareCapacity(t *testing.T) {
	a := New(WithCapacity[int](16))
	s := a.AllocSlice(2)
	next := a.AllocSlice(2)
	next[0], next[1] = 7, 8
	s = append(s, 99)
	require.Equal(t, []int{7, 8}, next)
	require.Len(t, s, 3)
}

func TestFreeIsLIFO(t *testing.T) {
	a := New(WithCapacity[int](4))
	first := a.AllocSlice(3)
	first[0] = 1
	a.AllocSlice(3) // spills into a second block
	require.Equal(t, 2, a.Blocks())

	a.Free(3)
	require.Equal(t, 1, a.Blocks())
	require.Equal(t, 3, a.Len())
	require.Equal(t, 1, first[0])

	// The released room is handed out again.
	s := a.AllocSlice(1)
	require.Equal(t, 0, s[0])
	require.Equal(t, 1, a.Blocks())
}

func TestFreeAcrossBlocks(t *testing.T) {
	a := New(WithCapacity[int](2))
	for i := 0; i < 10; i++ {
		a.Alloc()
	}
	a.Free(7)
	require.Equal(t, 3, a.Len())
	a.Free(3)
	require.Equal(t, 0, a.Len())
	require.Equal(t, 0, a.Blocks())
}

func TestFreeUnderflowPanics(t *testing.T) {
	a := New[int]()
	a.AllocSlice(2)
	require.PanicsWithValue(t, ErrFreeUnderflow, func() { a.Free(3) })
}

func TestCheckpointRewind(t *testing.T) {
	a := New(WithCapacity[int](4))
	a.AllocSlice(2)
	m := a.Checkpoint()
	a.AllocSlice(3)
	a.AllocSlice(5)
	a.Rewind(m)
	require.Equal(t, 2, a.Len())
	require.Equal(t, 1, a.Blocks())

	high := a.Checkpoint()
	a.Rewind(m)
	a.Free(1)
	require.PanicsWithValue(t, ErrBadMark, func() { a.Rewind(high) })
}

func TestDestroy(t *testing.T) {
	a := New[node]()
	a.Alloc()
	a.AllocSlice(10)
	a.Destroy()
	require.Equal(t, 0, a.Len())
	require.Equal(t, 0, a.Blocks())
	require.NotNil(t, a.Alloc())
}
