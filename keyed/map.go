package keyed

import (
	"github.com/liran-funaro/dfalex/arena"
)

const (
	DefaultCapacity   = 16
	DefaultLoadFactor = 0.75
)

type entry[K, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// Map is an open-hashing (separate chaining) map. Entries live in an arena;
// a resize moves them to a fresh arena and drops the old one whole.
type Map[K, V any] struct {
	hasher     Hasher[K]
	buckets    []*entry[K, V]
	entries    *arena.Arena[entry[K, V]]
	size       int
	loadFactor float64
}

// NewMap creates a map with the given initial bucket count and load factor.
// Non-positive arguments select the defaults.
func NewMap[K, V any](hasher Hasher[K], capacity int, loadFactor float64) *Map[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if loadFactor <= 0 {
		loadFactor = DefaultLoadFactor
	}
	return &Map[K, V]{
		hasher:     hasher,
		buckets:    make([]*entry[K, V], capacity),
		entries:    arena.New[entry[K, V]](),
		loadFactor: loadFactor,
	}
}

func (m *Map[K, V]) bucket(k K) int {
	return int(m.hasher.Hash(k) % uint64(len(m.buckets)))
}

func (m *Map[K, V]) lookup(k K) *entry[K, V] {
	for e := m.buckets[m.bucket(k)]; e != nil; e = e.next {
		if m.hasher.Equal(e.key, k) {
			return e
		}
	}
	return nil
}

// Find returns the value stored under k.
func (m *Map[K, V]) Find(k K) (V, bool) {
	if e := m.lookup(k); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	return m.lookup(k) != nil
}

// Insert stores v under k, replacing any previous value. It reports whether
// k was new.
func (m *Map[K, V]) Insert(k K, v V) bool {
	if e := m.lookup(k); e != nil {
		e.value = v
		return false
	}
	m.size++
	if float64(m.size)/float64(len(m.buckets)) > m.loadFactor {
		m.resize(m.size + m.size/2)
	}
	e := m.entries.Alloc()
	e.key, e.value = k, v
	m.link(m.buckets, e)
	return true
}

// link appends e at the tail of its chain, keeping insertion order within a
// bucket.
func (m *Map[K, V]) link(buckets []*entry[K, V], e *entry[K, V]) {
	i := int(m.hasher.Hash(e.key) % uint64(len(buckets)))
	if buckets[i] == nil {
		buckets[i] = e
		return
	}
	tail := buckets[i]
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = e
}

func (m *Map[K, V]) resize(capacity int) {
	entries := arena.New[entry[K, V]]()
	buckets := make([]*entry[K, V], capacity)
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			ne := entries.Alloc()
			ne.key, ne.value = e.key, e.value
			m.link(buckets, ne)
		}
	}
	m.entries.Destroy()
	m.entries = entries
	m.buckets = buckets
}

// Len is the number of keys.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Range calls fn for each entry in bucket order until fn returns false.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Destroy releases all entries. The map must not be used afterwards.
func (m *Map[K, V]) Destroy() {
	m.entries.Destroy()
	m.buckets = nil
	m.size = 0
}
