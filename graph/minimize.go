package graph

import (
	"cmp"
	"slices"

	"github.com/dolthub/swiss"
)

// Minimize DFA -> minimal DFA
// States are first grouped by accepted symbol, then groups are split until
// every member of a group moves to the same group on every byte. The result
// is a new automaton numbered canonically; d is left untouched, so callers
// swap to the result and destroy d.
func (d *DFA) Minimize() *DFA {
	if len(d.States) == 0 {
		return d.Canonical()
	}
	m := minimizer{
		dfa:     d,
		order:   make([]int32, len(d.States)),
		blockOf: make([]int32, len(d.States)),
	}
	m.initialBlocks()
	for m.refine() {
	}
	merged := m.rebuild()
	defer merged.Destroy()
	return merged.Canonical()
}

type minimizer struct {
	dfa *DFA
	// order lists state IDs so that every block is a contiguous run.
	order []int32
	// starts holds the offset in order of each block; the state at that
	// offset is the block leader.
	starts  []int
	blockOf []int32
}

func (m *minimizer) blockEnd(i int) int {
	if i+1 < len(m.starts) {
		return m.starts[i+1]
	}
	return len(m.order)
}

func (m *minimizer) initialBlocks() {
	for i := range m.order {
		m.order[i] = int32(i)
	}
	accept := func(id int32) int {
		return m.dfa.States[id].Accept
	}
	slices.SortStableFunc(m.order, func(a, b int32) int {
		return cmp.Compare(accept(a), accept(b))
	})
	for i, id := range m.order {
		if i == 0 || accept(m.order[i-1]) != accept(id) {
			m.starts = append(m.starts, i)
		}
	}
	m.assignBlocks()
}

func (m *minimizer) assignBlocks() {
	for i := range m.starts {
		for _, id := range m.order[m.starts[i]:m.blockEnd(i)] {
			m.blockOf[id] = int32(i)
		}
	}
}

// refine runs one pass over every block and reports whether any block split.
// Targets are looked up in the partition as it was when the pass started.
func (m *minimizer) refine() bool {
	starts := make([]int, 0, len(m.starts))
	split := false
	for i, lo := range m.starts {
		groups := m.refineBlock(m.order[lo:m.blockEnd(i)])
		for _, g := range groups {
			starts = append(starts, lo+g)
		}
		split = split || len(groups) > 1
	}
	if split {
		m.starts = starts
		m.assignBlocks()
	}
	return split
}

// refineBlock reorders members into runs that agree on the target block of
// every byte, and returns the offset of each run.
func (m *minimizer) refineBlock(members []int32) []int {
	groups := []int{0}
	for c := 0; c < AlphabetSize && len(groups) < len(members); c++ {
		next := make([]int, 0, len(groups))
		for i, lo := range groups {
			hi := len(members)
			if i+1 < len(groups) {
				hi = groups[i+1]
			}
			if hi-lo < 2 {
				next = append(next, lo)
				continue
			}
			for _, g := range m.splitGroup(members[lo:hi], byte(c)) {
				next = append(next, lo+g)
			}
		}
		groups = next
	}
	return groups
}

// splitGroup stably partitions members by the block their c-transition lands
// in. A missing transition is a group of its own.
func (m *minimizer) splitGroup(members []int32, c byte) []int {
	index := swiss.NewMap[int32, int](4)
	var runs [][]int32
	for _, id := range members {
		target := m.dfa.States[id].Next[c]
		if target != NoTransition {
			target = m.blockOf[target]
		}
		g, ok := index.Get(target)
		if !ok {
			g = len(runs)
			index.Put(target, g)
			runs = append(runs, nil)
		}
		runs[g] = append(runs[g], id)
	}
	if len(runs) == 1 {
		return []int{0}
	}
	offsets := make([]int, 0, len(runs))
	pos := 0
	for _, run := range runs {
		offsets = append(offsets, pos)
		pos += copy(members[pos:], run)
	}
	return offsets
}

// rebuild makes one state per block, copying the leader.
func (m *minimizer) rebuild() *DFA {
	res := newDfa(m.dfa.Symbols)
	for range m.starts {
		res.newState()
	}
	for i, lo := range m.starts {
		leader := m.dfa.States[m.order[lo]]
		s := res.States[i]
		s.Accept = leader.Accept
		for c, t := range leader.Next {
			if t != NoTransition {
				s.Next[c] = m.blockOf[t]
			}
		}
	}
	res.Start = m.blockOf[m.dfa.Start]
	return res
}

// Canonical returns a copy of d numbered breadth-first from the start state,
// visiting bytes in increasing order. The start state becomes 0 and states
// that cannot be reached are dropped. Two automata with the same structure up
// to renaming have identical canonical forms.
func (d *DFA) Canonical() *DFA {
	res := newDfa(d.Symbols)
	if len(d.States) == 0 {
		res.newState()
		return res
	}
	ids := make([]int32, len(d.States))
	for i := range ids {
		ids[i] = NoTransition
	}
	queue := []int32{d.Start}
	ids[d.Start] = 0
	for pos := 0; pos < len(queue); pos++ {
		for _, t := range d.States[queue[pos]].Next {
			if t != NoTransition && ids[t] == NoTransition {
				ids[t] = int32(len(queue))
				queue = append(queue, t)
			}
		}
	}
	for _, old := range queue {
		o := d.States[old]
		s := res.newState()
		s.Accept = o.Accept
		s.Set = o.Set
		for c, t := range o.Next {
			if t != NoTransition {
				s.Next[c] = ids[t]
			}
		}
	}
	res.Start = 0
	return res
}
