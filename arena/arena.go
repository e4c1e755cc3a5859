// Package arena implements a typed region allocator. Objects are handed out
// from chained blocks and released together; the only individual release is
// the most recent allocation (LIFO), which is what scratch keys need.
package arena

import "github.com/pkg/errors"

// DefaultCapacity is the number of objects in the first block.
const DefaultCapacity = 1024

var (
	ErrFreeUnderflow = errors.New("arena: free of more objects than allocated")
	ErrBadMark       = errors.New("arena: rewind to a mark above the current top")
)

// GrowthFunc returns the capacity of the next block given the capacity of the
// previous one (0 for the first block) and the size of the request.
type GrowthFunc func(prev, request int) int

// DefaultGrowth grows by half of the previous block, and never below the
// request.
func DefaultGrowth(prev, request int) int {
	next := DefaultCapacity
	if prev > 0 {
		next = prev + prev/2
	}
	return max(next, request)
}

// Arena owns objects of type T. Returned pointers and slices are never
// relocated; growing the arena chains a new block.
type Arena[T any] struct {
	blocks [][]T
	growth GrowthFunc
	size   int
}

type Option[T any] func(*Arena[T])

// WithGrowth replaces the growth policy.
func WithGrowth[T any](f GrowthFunc) Option[T] {
	return func(a *Arena[T]) {
		a.growth = f
	}
}

// WithCapacity sets the capacity of the first block, and keeps growing by
// half afterwards.
func WithCapacity[T any](first int) Option[T] {
	return func(a *Arena[T]) {
		a.growth = func(prev, request int) int {
			if prev == 0 {
				return max(first, request)
			}
			return DefaultGrowth(prev, request)
		}
	}
}

func New[T any](opts ...Option[T]) *Arena[T] {
	a := &Arena[T]{growth: DefaultGrowth}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Alloc returns a pointer to a new zero value.
func (a *Arena[T]) Alloc() *T {
	return &a.AllocSlice(1)[0]
}

// AllocSlice returns n contiguous zero values. The slice has no spare
// capacity, so appending to it never writes into the arena.
func (a *Arena[T]) AllocSlice(n int) []T {
	if n <= 0 {
		return nil
	}
	a.size += n
	if last := len(a.blocks) - 1; last >= 0 {
		tail := a.blocks[last]
		if used := len(tail); cap(tail)-used >= n {
			a.blocks[last] = tail[:used+n]
			return tail[used : used+n : used+n]
		}
	}
	prev := 0
	if len(a.blocks) > 0 {
		prev = cap(a.blocks[len(a.blocks)-1])
	}
	block := make([]T, n, a.growth(prev, n))
	a.blocks = append(a.blocks, block)
	return block[:n:n]
}

// Free releases the n most recently allocated objects. Tail blocks that
// become empty are dropped.
func (a *Arena[T]) Free(n int) {
	if n > a.size {
		panic(ErrFreeUnderflow)
	}
	a.size -= n
	for n > 0 {
		last := len(a.blocks) - 1
		tail := a.blocks[last]
		k := min(n, len(tail))
		clear(tail[len(tail)-k:])
		tail = tail[:len(tail)-k]
		n -= k
		if len(tail) == 0 {
			a.blocks[last] = nil
			a.blocks = a.blocks[:last]
			continue
		}
		a.blocks[last] = tail
	}
}

// Mark is a saved allocation cursor.
type Mark struct {
	size int
}

// Checkpoint saves the current top of the arena.
func (a *Arena[T]) Checkpoint() Mark {
	return Mark{size: a.size}
}

// Rewind releases everything allocated since m was taken.
func (a *Arena[T]) Rewind(m Mark) {
	if m.size > a.size {
		panic(ErrBadMark)
	}
	a.Free(a.size - m.size)
}

// Len is the number of live objects.
func (a *Arena[T]) Len() int {
	return a.size
}

// Blocks is the number of chained blocks.
func (a *Arena[T]) Blocks() int {
	return len(a.blocks)
}

// Cap is the capacity of the tail block, or 0 if the arena is empty.
func (a *Arena[T]) Cap() int {
	if len(a.blocks) == 0 {
		return 0
	}
	return cap(a.blocks[len(a.blocks)-1])
}

// Destroy releases every block at once. The arena may be reused afterwards.
func (a *Arena[T]) Destroy() {
	a.blocks = nil
	a.size = 0
}
