package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/liran-funaro/dfalex/graph"
	"github.com/pkg/errors"
)

// Stage records the size and build time of one automaton.
type Stage struct {
	Name    string
	States  int
	Elapsed time.Duration
}

// Program is a compiled rule file. The NFA is kept for its DOT dump until
// Destroy.
type Program struct {
	Rules    []*Rule
	NFA      *graph.NFA
	NFARules []graph.Rule
	DFA      *graph.DFA // Minimized.
	Stages   []Stage
}

// ParseProgram reads and compiles a rule file.
func ParseProgram(in io.Reader) (*Program, error) {
	rules, err := ParseRules(in)
	if err != nil {
		return nil, err
	}
	return Compile(rules)
}

// Compile runs the rules through the automaton pipeline:
// Regex -> NFA -> DFA -> minimal DFA.
func Compile(rules []*Rule) (*Program, error) {
	x := &Program{Rules: rules}

	start := time.Now()
	nfa, nfaRules, err := graph.BuildNfa(rules)
	if err != nil {
		return nil, patternError(rules, err)
	}
	x.NFA, x.NFARules = nfa, nfaRules
	x.record("nfa", x.NFA.Len(), start)

	start = time.Now()
	dfa := graph.BuildDfa(x.NFA, x.NFARules)
	x.record("dfa", dfa.Len(), start)

	start = time.Now()
	x.DFA = dfa.Minimize()
	dfa.Destroy()
	x.record("minimal", x.DFA.Len(), start)
	return x, nil
}

// patternError places a pattern syntax error in the rule file.
func patternError(rules []*Rule, err error) error {
	var ruleErr *graph.RuleError
	if !errors.As(err, &ruleErr) {
		return err
	}
	r := rules[ruleErr.Index]
	var syntaxErr *graph.PatternSyntaxError
	if errors.As(ruleErr.Err, &syntaxErr) {
		return fmt.Errorf("%d:%d: %s: %w", r.Line, r.Col+syntaxErr.Offset, r.Symbol, syntaxErr.Err)
	}
	return fmt.Errorf("%d:%d: %s: %w", r.Line, r.Col, r.Symbol, ruleErr.Err)
}

func (x *Program) record(name string, states int, start time.Time) {
	x.Stages = append(x.Stages, Stage{Name: name, States: states, Elapsed: time.Since(start)})
}

// Unreachable lists the symbols no input can produce: an earlier rule claims
// every string they match.
func (x *Program) Unreachable() []string {
	var res []string
	for _, i := range x.DFA.Unreachable() {
		res = append(res, x.Rules[i].Symbol)
	}
	return res
}

// Nullable lists the symbols whose pattern matches the empty string. The
// scanner never returns an empty token, so such a rule only matches its
// non-empty strings.
func (x *Program) Nullable() []string {
	var res []string
	for i, r := range x.NFARules {
		if x.NFA.Nullable(r) {
			res = append(res, x.Rules[i].Symbol)
		}
	}
	return res
}

func (x *Program) WriteNFADotGraph(writer io.Writer) error {
	return x.NFA.WriteDotGraph(writer, x.NFARules, "NFA")
}

func (x *Program) WriteDFADotGraph(writer io.Writer) error {
	return x.DFA.WriteDotGraph(writer, "DFA")
}

// Destroy releases both automata.
func (x *Program) Destroy() {
	x.NFA.Destroy()
	x.DFA.Destroy()
}
