package graph

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// AlphabetSize is the number of input byte values the automata handle.
// Bytes outside of it never transition.
const AlphabetSize = 128

// CondSet is a set of byte values, the condition of a consuming edge.
type CondSet struct {
	bits *bitset.BitSet
}

func NewCondSet() CondSet {
	return CondSet{bits: bitset.New(AlphabetSize)}
}

// SingleCond matches exactly c.
func SingleCond(c byte) CondSet {
	return NewCondSet().Add(c)
}

// WildCond matches every byte but carriage-return and line-feed.
func WildCond() CondSet {
	s := NewCondSet().AddRange(0, AlphabetSize-1)
	s.bits.Clear('\r').Clear('\n')
	return s
}

func (s CondSet) Add(c byte) CondSet {
	s.bits.Set(uint(c))
	return s
}

// AddRange adds [from, to]. It is a no-op when from > to.
func (s CondSet) AddRange(from, to byte) CondSet {
	for c := uint(from); c <= uint(to); c++ {
		s.bits.Set(c)
	}
	return s
}

// Complement returns a new set holding the bytes of the alphabet not in s.
func (s CondSet) Complement() CondSet {
	return CondSet{bits: s.bits.Complement()}
}

// Union adds every byte of o to s.
func (s CondSet) Union(o CondSet) CondSet {
	if o.bits != nil {
		s.bits.InPlaceUnion(o.bits)
	}
	return s
}

func (s CondSet) Has(c byte) bool {
	return s.bits != nil && s.bits.Test(uint(c))
}

func (s CondSet) Empty() bool {
	return s.bits == nil || s.bits.None()
}

func (s CondSet) Count() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// Each calls fn with every byte of the set in increasing order.
func (s CondSet) Each(fn func(c byte)) {
	if s.bits == nil {
		return
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(byte(i))
	}
}

// Ranges returns the set as sorted inclusive pairs.
func (s CondSet) Ranges() [][2]byte {
	var res [][2]byte
	s.Each(func(c byte) {
		if n := len(res); n > 0 && res[n-1][1]+1 == c {
			res[n-1][1] = c
			return
		}
		res = append(res, [2]byte{c, c})
	})
	return res
}

// byteToDot escapes c so it can sit inside a quoted DOT label.
func byteToDot(c byte) string {
	q := strconv.QuoteToASCII(string(rune(c)))
	return q[1 : len(q)-1]
}

// String renders the set as a character class.
func (s CondSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.Ranges() {
		b.WriteString(byteToDot(r[0]))
		if r[0] != r[1] {
			b.WriteByte('-')
			b.WriteString(byteToDot(r[1]))
		}
	}
	b.WriteByte(']')
	return b.String()
}
