package keyed

// Set is a Map without values.
type Set[K any] struct {
	m *Map[K, struct{}]
}

func NewSet[K any](hasher Hasher[K], capacity int, loadFactor float64) *Set[K] {
	return &Set[K]{m: NewMap[K, struct{}](hasher, capacity, loadFactor)}
}

// Insert adds k and reports whether it was new.
func (s *Set[K]) Insert(k K) bool {
	return s.m.Insert(k, struct{}{})
}

func (s *Set[K]) Contains(k K) bool {
	return s.m.Contains(k)
}

func (s *Set[K]) Len() int {
	return s.m.Len()
}

// ToArray appends every key to dst in bucket order and returns the result.
func (s *Set[K]) ToArray(dst []K) []K {
	s.Range(func(k K) bool {
		dst = append(dst, k)
		return true
	})
	return dst
}

// Range calls fn on every key until it returns false.
func (s *Set[K]) Range(fn func(k K) bool) {
	s.m.Range(func(k K, _ struct{}) bool {
		return fn(k)
	})
}

func (s *Set[K]) Destroy() {
	s.m.Destroy()
}
