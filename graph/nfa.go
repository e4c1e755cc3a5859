package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnmatchedLpar       = errors.New("unmatched '('")
	ErrUnmatchedRpar       = errors.New("unmatched ')'")
	ErrUnmatchedLbkt       = errors.New("unmatched '['")
	ErrBadRange            = errors.New("bad range in character class")
	ErrExtraneousBackslash = errors.New("extraneous backslash")
	ErrBareClosure         = errors.New("closure applies to nothing")
	ErrEmptyExpression     = errors.New("empty expression")
	ErrNonASCII            = errors.New("byte outside of the ASCII range")
)

// PatternSyntaxError reports a malformed pattern and where it went wrong.
type PatternSyntaxError struct {
	Pattern string
	Offset  int
	Err     error
}

func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("offset %d in %q: %v", e.Offset, e.Pattern, e.Err)
}

func (e *PatternSyntaxError) Unwrap() error {
	return e.Err
}

// RuleError is the compile error of the Index-th expression of BuildNfa.
type RuleError struct {
	Index  int
	Symbol string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Symbol, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Expression is a named pattern.
type Expression interface {
	GetSymbol() string
	GetRegex() string
}

// Rule is a compiled expression. Rules declared earlier win ties.
type Rule struct {
	Symbol  string
	Pattern string
	Fragment
}

// BuildNfa Regex -> NFA
// Every expression is compiled into the same NFA. The fragment end of each
// rule is its accepting state.
func BuildNfa[E Expression](expressions []E) (*NFA, []Rule, error) {
	nfa := NewNFA()
	rules := make([]Rule, 0, len(expressions))
	for i, x := range expressions {
		r, err := nfa.AddRule(x.GetSymbol(), x.GetRegex())
		if err != nil {
			nfa.Destroy()
			return nil, nil, &RuleError{Index: i, Symbol: x.GetSymbol(), Err: err}
		}
		rules = append(rules, r)
	}
	return nfa, rules, nil
}

// AddRule compiles pattern into n.
func (n *NFA) AddRule(symbol, pattern string) (Rule, error) {
	f, err := n.Compile(pattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Symbol: symbol, Pattern: pattern, Fragment: f}, nil
}

// Compile parses pattern and adds its states to n.
//
//	expression := term ('|' term)*
//	term       := factor+
//	factor     := base ('*' | '+' | '?')?
//	base       := '(' expression ')' | '[' class ']' | '.' | escapedChar | char
//	class      := ['^'] (char | char '-' char)*
func (n *NFA) Compile(pattern string) (Fragment, error) {
	b := nfaBuilder{nfa: n, regexp: pattern}
	f, err := b.pRe()
	if err != nil {
		return Fragment{}, err
	}
	if b.pos < len(b.regexp) {
		// pRe only stops early on ')'.
		return Fragment{}, b.fail(ErrUnmatchedRpar)
	}
	return f, nil
}

type nfaBuilder struct {
	nfa    *NFA
	regexp string
	pos    int
	depth  int // Open parentheses.
}

func (b *nfaBuilder) fail(err error) error {
	return &PatternSyntaxError{Pattern: b.regexp, Offset: b.pos, Err: err}
}

func (b *nfaBuilder) done() bool {
	return b.pos >= len(b.regexp)
}

func (b *nfaBuilder) peek() byte {
	return b.regexp[b.pos]
}

// next consumes one byte, resolving backslash escapes.
func (b *nfaBuilder) next() (byte, error) {
	c := b.peek()
	if c >= AlphabetSize {
		return 0, b.fail(ErrNonASCII)
	}
	b.pos++
	if c != '\\' {
		return c, nil
	}
	if b.done() {
		return 0, b.fail(ErrExtraneousBackslash)
	}
	c = b.peek()
	if c >= AlphabetSize {
		return 0, b.fail(ErrNonASCII)
	}
	b.pos++
	switch c {
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'n':
		return '\n', nil
	}
	return c, nil
}

func (b *nfaBuilder) pRe() (Fragment, error) {
	f, err := b.pCat()
	if err != nil {
		return Fragment{}, err
	}
	for !b.done() && b.peek() == '|' {
		b.pos++
		right, err := b.pCat()
		if err != nil {
			return Fragment{}, err
		}
		f = b.alternate(f, right)
	}
	return f, nil
}

func (b *nfaBuilder) alternate(left, right Fragment) Fragment {
	res := b.nfa.newFragment()
	b.nfa.newNilEdge(res.Start, left.Start)
	b.nfa.newNilEdge(res.Start, right.Start)
	b.nfa.newNilEdge(left.End, res.End)
	b.nfa.newNilEdge(right.End, res.End)
	return res
}

func (b *nfaBuilder) pCat() (Fragment, error) {
	if !b.done() && b.peek() == ')' && b.depth == 0 {
		return Fragment{}, b.fail(ErrUnmatchedRpar)
	}
	if b.done() || b.peek() == '|' || b.peek() == ')' {
		return Fragment{}, b.fail(ErrEmptyExpression)
	}
	f, err := b.pClosure()
	if err != nil {
		return Fragment{}, err
	}
	for !b.done() && b.peek() != '|' && b.peek() != ')' {
		next, err := b.pClosure()
		if err != nil {
			return Fragment{}, err
		}
		b.nfa.newNilEdge(f.End, next.Start)
		f.End = next.End
	}
	return f, nil
}

func (b *nfaBuilder) pClosure() (Fragment, error) {
	inner, err := b.pTerm()
	if err != nil || b.done() {
		return inner, err
	}
	switch b.peek() {
	case '*':
		b.pos++
		res := b.nfa.newFragment()
		b.nfa.newNilEdge(res.Start, inner.Start)
		b.nfa.newNilEdge(res.Start, res.End)
		b.nfa.newNilEdge(inner.End, inner.Start)
		b.nfa.newNilEdge(inner.End, res.End)
		return res, nil
	case '+':
		b.pos++
		res := b.nfa.newFragment()
		b.nfa.newNilEdge(res.Start, inner.Start)
		b.nfa.newNilEdge(inner.End, inner.Start)
		b.nfa.newNilEdge(inner.End, res.End)
		return res, nil
	case '?':
		b.pos++
		res := b.nfa.newFragment()
		b.nfa.newNilEdge(res.Start, inner.Start)
		b.nfa.newNilEdge(res.Start, res.End)
		b.nfa.newNilEdge(inner.End, res.End)
		return res, nil
	}
	return inner, nil
}

func (b *nfaBuilder) pTerm() (Fragment, error) {
	switch b.peek() {
	case '*', '+', '?':
		return Fragment{}, b.fail(ErrBareClosure)
	case '(':
		open := b.pos
		b.pos++
		b.depth++
		f, err := b.pRe()
		b.depth--
		if err != nil {
			return Fragment{}, err
		}
		if b.done() {
			b.pos = open
			return Fragment{}, b.fail(ErrUnmatchedLpar)
		}
		b.pos++
		return f, nil
	case '[':
		return b.pCharClass()
	case '.':
		b.pos++
		f := b.nfa.newFragment()
		b.nfa.addEdge(f.Start, f.End, KWild, WildCond())
		return f, nil
	}
	c, err := b.next()
	if err != nil {
		return Fragment{}, err
	}
	f := b.nfa.newFragment()
	b.nfa.addEdge(f.Start, f.End, KRune, SingleCond(c))
	return f, nil
}

func (b *nfaBuilder) pCharClass() (Fragment, error) {
	open := b.pos
	b.pos++
	negate := false
	if !b.done() && b.peek() == '^' {
		negate = true
		b.pos++
	}
	cond := NewCondSet()
	for !b.done() && b.peek() != ']' {
		from := b.pos
		lo, err := b.next()
		if err != nil {
			return Fragment{}, err
		}
		// A '-' right before the closing bracket is literal.
		if b.pos+1 < len(b.regexp) && b.peek() == '-' && b.regexp[b.pos+1] != ']' {
			b.pos++
			hi, err := b.next()
			if err != nil {
				return Fragment{}, err
			}
			if lo > hi {
				b.pos = from
				return Fragment{}, b.fail(ErrBadRange)
			}
			cond.AddRange(lo, hi)
			continue
		}
		cond.Add(lo)
	}
	if b.done() {
		b.pos = open
		return Fragment{}, b.fail(ErrUnmatchedLbkt)
	}
	b.pos++
	if negate {
		cond = cond.Complement()
	}
	f := b.nfa.newFragment()
	b.nfa.addEdge(f.Start, f.End, KClass, cond)
	return f, nil
}
