package graph

import (
	"fmt"
	"io"
)

// WriteDotGraph Print the NFA in DOT format, one cluster per rule.
//
//	$ dot -Tps input.dot -o output.ps
func (n *NFA) WriteDotGraph(out io.Writer, rules []Rule, id string) error {
	w := dotWriter{out: out}
	w.printf("digraph %v {\n  rankdir=LR;\n", id)
	accepts := make(map[StateID]string, len(rules))
	for _, r := range rules {
		accepts[r.End] = r.Symbol
		w.printf("  %d[shape=box,xlabel=%q];\n", r.Start, r.Symbol)
	}
	for _, s := range n.states {
		if sym, ok := accepts[s.ID]; ok {
			w.printf("  %d[style=filled,color=green,xlabel=%q];\n", s.ID, sym)
		}
		for _, e := range s.E {
			w.printf("  %d -> %d%s;\n", s.ID, e.Dst, edgeLabel(e))
		}
	}
	w.printf("}\n")
	return w.err
}

func edgeLabel(e Edge) string {
	switch e.Kind {
	case KRune:
		var c byte
		e.Cond.Each(func(b byte) { c = b })
		return fmt.Sprintf("[label=\"%s\"]", byteToDot(c))
	case KWild:
		return "[color=blue]"
	case KClass:
		return fmt.Sprintf("[label=\"%s\"]", e.Cond)
	}
	return ""
}

// WriteDotGraph Print the DFA in DOT format. Transitions to the same target
// are merged into one edge labelled with their class.
func (d *DFA) WriteDotGraph(out io.Writer, id string) error {
	w := dotWriter{out: out}
	w.printf("digraph %v {\n  rankdir=LR;\n  %d[shape=box];\n", id, d.Start)
	for _, s := range d.States {
		if s.Accept != NoAccept {
			w.printf("  %d[style=filled,color=green,xlabel=%q];\n", s.ID, d.Symbols[s.Accept])
		}
		var targets []int32
		conds := make(map[int32]CondSet)
		for c, t := range s.Next {
			if t == NoTransition {
				continue
			}
			cond, ok := conds[t]
			if !ok {
				cond = NewCondSet()
				conds[t] = cond
				targets = append(targets, t)
			}
			cond.Add(byte(c))
		}
		for _, t := range targets {
			w.printf("  %d -> %d[label=\"%s\"];\n", s.ID, t, conds[t])
		}
	}
	w.printf("}\n")
	return w.err
}

type dotWriter struct {
	out io.Writer
	err error
}

func (w *dotWriter) printf(format string, a ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, a...)
}
