package graph

import (
	"slices"

	"github.com/liran-funaro/dfalex/arena"
	"github.com/liran-funaro/dfalex/keyed"
)

const (
	NoAccept           = -1
	NoTransition int32 = -1
)

// DState is a DFA state.
type DState struct {
	ID     int32
	Accept int                 // Index of the accepted rule, or NoAccept.
	Next   [AlphabetSize]int32 // Target state per byte, or NoTransition.
	Set    []StateID           // The NFA states represented by this state.
}

// DFA is a deterministic automaton. Its states are owned by its arena and
// addressed by their ID, which is their index in States.
type DFA struct {
	Symbols []string // Rule symbols, indexed by DState.Accept.
	States  []*DState
	Start   int32
	region  *arena.Arena[DState]
}

func newDfa(symbols []string) *DFA {
	return &DFA{
		Symbols: symbols,
		region:  arena.New[DState](),
	}
}

func (d *DFA) newState() *DState {
	s := d.region.Alloc()
	s.ID = int32(len(d.States))
	s.Accept = NoAccept
	for i := range s.Next {
		s.Next[i] = NoTransition
	}
	d.States = append(d.States, s)
	return s
}

// StartState returns the state scanning begins in.
func (d *DFA) StartState() *DState {
	return d.States[d.Start]
}

// Len is the number of states.
func (d *DFA) Len() int {
	return len(d.States)
}

// Symbol returns the symbol accepted by s, or "" for a rejecting state.
func (d *DFA) Symbol(s *DState) string {
	if s.Accept == NoAccept {
		return ""
	}
	return d.Symbols[s.Accept]
}

// Unreachable lists the rules that no input can produce: every string they
// match is claimed by an earlier rule, or only the empty string is. The start
// state counts only when a transition leads back to it.
func (d *DFA) Unreachable() []int {
	seen := make([]bool, len(d.Symbols))
	for _, s := range d.States {
		for _, t := range s.Next {
			if t == NoTransition {
				continue
			}
			if a := d.States[t].Accept; a != NoAccept {
				seen[a] = true
			}
		}
	}
	var res []int
	for i, ok := range seen {
		if !ok {
			res = append(res, i)
		}
	}
	return res
}

// Destroy releases every state.
func (d *DFA) Destroy() {
	d.region.Destroy()
	d.States = nil
}

// StateKey is a sorted, duplicate-free list of NFA states.
type StateKey []StateID

// BuildDfa NFA -> DFA
// The start state is the closure of the start states of every rule. The NFA is
// only read, and may be destroyed once BuildDfa returns.
func BuildDfa(nfa *NFA, rules []Rule) *DFA {
	symbols := make([]string, len(rules))
	for i, r := range rules {
		symbols[i] = r.Symbol
	}
	b := dfaBuilder{
		nfa:   nfa,
		rules: rules,
		dfa:   newDfa(symbols),
		keys:  arena.New[StateID](),
		tab:   keyed.NewMap[StateKey, int32](keyed.HasherFunc[StateKey]{HashFn: hashKey, EqualFn: equalKeys}, 0, 0),
	}
	defer b.keys.Destroy()
	defer b.tab.Destroy()

	frontier := make([]StateID, 0, len(rules))
	for _, r := range rules {
		frontier = append(frontier, r.Start)
	}
	b.dfa.Start = b.get(frontier)
	return b.dfa
}

func hashKey(k StateKey) uint64 {
	return keyed.SliceHasher[StateID]{}.Hash(k)
}

func equalKeys(a, b StateKey) bool {
	return keyed.SliceHasher[StateID]{}.Equal(a, b)
}

type dfaBuilder struct {
	nfa   *NFA
	rules []Rule
	dfa   *DFA
	keys  *arena.Arena[StateID] // Scratch keys, released in LIFO order.
	tab   *keyed.Map[StateKey, int32]
}

// nilClosure returns every state reachable from frontier through nil edges.
func (n *NFA) nilClosure(frontier []StateID) *keyed.Set[StateID] {
	set := keyed.NewSet[StateID](keyed.IntHasher[StateID]{}, 2*len(frontier)+1, 0)
	todo := slices.Clone(frontier)
	for len(todo) > 0 {
		id := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if !set.Insert(id) {
			continue
		}
		for _, e := range n.State(id).E {
			if e.Epsilon() && !set.Contains(e.Dst) {
				todo = append(todo, e.Dst)
			}
		}
	}
	return set
}

// Nullable reports whether r matches the empty string.
func (n *NFA) Nullable(r Rule) bool {
	closure := n.nilClosure([]StateID{r.Start})
	defer closure.Destroy()
	return closure.Contains(r.End)
}

// get returns the DFA state of the closure of frontier, building it and
// everything reachable from it on first sight.
func (b *dfaBuilder) get(frontier []StateID) int32 {
	closure := b.nfa.nilClosure(frontier)
	mark := b.keys.Checkpoint()
	key := StateKey(b.keys.AllocSlice(closure.Len()))
	key = closure.ToArray(key[:0])
	slices.Sort(key)

	if id, found := b.tab.Find(key); found {
		closure.Destroy()
		b.keys.Rewind(mark)
		return id
	}

	// Register before recursing so loops find this state.
	s := b.dfa.newState()
	s.Set = slices.Clone(key)
	b.tab.Insert(key, s.ID)

	for i, r := range b.rules {
		if closure.Contains(r.End) {
			s.Accept = i
			break
		}
	}
	closure.Destroy()

	alphabet := NewCondSet()
	for _, id := range key {
		for _, e := range b.nfa.State(id).E {
			if !e.Epsilon() {
				alphabet.Union(e.Cond)
			}
		}
	}
	alphabet.Each(func(c byte) {
		var next []StateID
		for _, id := range key {
			for _, e := range b.nfa.State(id).E {
				if !e.Epsilon() && e.Cond.Has(c) {
					next = append(next, e.Dst)
				}
			}
		}
		s.Next[c] = b.get(next)
	})
	return s.ID
}
