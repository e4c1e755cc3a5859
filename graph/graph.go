package graph

import (
	"github.com/liran-funaro/dfalex/arena"
	"github.com/pkg/errors"
)

const (
	KNil = iota
	KRune
	KClass
	KWild
)

// maxEdges bounds the out-degree of an NFA state. Thompson construction never
// needs more.
const maxEdges = 2

var ErrTooManyEdges = errors.New("NFA state already has two out-edges")

// StateID is a stable handle of an NFA state.
type StateID int32

const NoState StateID = -1

type Edge struct {
	Kind int     // Nil/Rune/Class/Wild.
	Cond CondSet // Bytes that take this edge. Empty for nil edges.
	Dst  StateID // Destination state.
}

// Epsilon reports whether the edge is taken without consuming input.
func (e *Edge) Epsilon() bool {
	return e.Kind == KNil
}

type State struct {
	ID StateID
	E  []Edge // Out-edges.
}

// Fragment is a compiled sub-expression: the edges between Start and End.
type Fragment struct {
	Start, End StateID
}

// NFA is a nondeterministic automaton shared by every compiled rule. States
// are owned by the NFA's arena and addressed through a growable table.
type NFA struct {
	region *arena.Arena[State]
	states []*State
}

func NewNFA() *NFA {
	return &NFA{region: arena.New[State]()}
}

func (n *NFA) newState() StateID {
	s := n.region.Alloc()
	s.ID = StateID(len(n.states))
	s.E = make([]Edge, 0, maxEdges)
	n.states = append(n.states, s)
	return s.ID
}

func (n *NFA) newFragment() Fragment {
	return Fragment{Start: n.newState(), End: n.newState()}
}

func (n *NFA) addEdge(from, to StateID, kind int, cond CondSet) {
	u := n.states[from]
	if len(u.E) == maxEdges {
		panic(ErrTooManyEdges)
	}
	u.E = append(u.E, Edge{Kind: kind, Cond: cond, Dst: to})
}

func (n *NFA) newNilEdge(from, to StateID) {
	n.addEdge(from, to, KNil, CondSet{})
}

// State returns the state behind id.
func (n *NFA) State(id StateID) *State {
	return n.states[id]
}

// Len is the number of states.
func (n *NFA) Len() int {
	return len(n.states)
}

// Destroy releases every state. Automata built from the NFA stay valid; the
// NFA itself must not be used afterwards.
func (n *NFA) Destroy() {
	n.region.Destroy()
	n.states = nil
}
