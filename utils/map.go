package utils

type Hashable interface {
	HashCode() uint64
	EqualI(Hashable) bool
}

// Map is a hash map keyed by Hashable values, resolving collisions by
// EqualI. Values are stored per bucket in insertion order.
type Map[V any] map[uint64][]mapEntry[V]

type mapEntry[V any] struct {
	e Hashable
	v V
}

// finds the value of e in map
func (m Map[V]) Find(e Hashable) (V, bool) {
	for _, x := range m[e.HashCode()] {
		if x.e.EqualI(e) {
			return x.v, true
		}
	}
	var zero V
	return zero, false
}

// Update applies f to the value stored for e (the zero value when absent)
// and stores the result.
func (m Map[V]) Update(e Hashable, f func(V) V) {
	h := e.HashCode()
	s := m[h]
	for i := range s {
		if s[i].e.EqualI(e) {
			s[i].v = f(s[i].v)
			return
		}
	}
	var zero V
	m[h] = append(s, mapEntry[V]{e: e, v: f(zero)})
}

func (m Map[V]) Len() int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}

