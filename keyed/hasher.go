// Package keyed provides hash containers over caller-supplied hashing and
// equality, with entries owned by an arena.
package keyed

import (
	"encoding/binary"

	"github.com/twmb/murmur3"
)

// Hasher is the hashing strategy of a container. Equal keys must hash
// equally.
type Hasher[K any] interface {
	Hash(k K) uint64
	Equal(a, b K) bool
}

// HasherFunc adapts a pair of functions to Hasher.
type HasherFunc[K any] struct {
	HashFn  func(K) uint64
	EqualFn func(a, b K) bool
}

func (h HasherFunc[K]) Hash(k K) uint64 {
	return h.HashFn(k)
}

func (h HasherFunc[K]) Equal(a, b K) bool {
	return h.EqualFn(a, b)
}

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// goldenMul is Knuth's multiplicative hashing constant.
const goldenMul = 2654435761

// IntHasher hashes integer handles.
type IntHasher[T Integer] struct{}

func (IntHasher[T]) Hash(k T) uint64 {
	return uint64(k) * goldenMul
}

func (IntHasher[T]) Equal(a, b T) bool {
	return a == b
}

// SliceHasher hashes integer slices element-wise with murmur3. Two slices are
// equal when they have the same elements in the same order, so callers that
// want set semantics must keep them sorted.
type SliceHasher[T Integer] struct{}

func (SliceHasher[T]) Hash(k []T) uint64 {
	buf := make([]byte, 0, 8*len(k))
	for _, v := range k {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	return murmur3.Sum64(buf)
}

func (SliceHasher[T]) Equal(a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
