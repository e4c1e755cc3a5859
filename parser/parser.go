package parser

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"unicode/utf8"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
)

var (
	ErrMissingPattern  = errors.New("missing pattern")
	ErrBadSymbol       = errors.New("symbol is not an identifier")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrReservedSymbol  = errors.New("reserved symbol")
)

// ReservedSymbol is the token kind of a failed scan.
const ReservedSymbol = "Reject"

// Rule is one line of a rule file.
type Rule struct {
	Symbol  string
	Pattern string
	Line    int
	Col     int // Column of the first byte of the pattern.
}

func (r *Rule) GetSymbol() string {
	return r.Symbol
}

func (r *Rule) GetRegex() string {
	return r.Pattern
}

// ParseRules reads a rule file: one `<symbol> <pattern>` per line. Blank
// lines and lines starting with '#' are skipped.
func ParseRules(in io.Reader) ([]*Rule, error) {
	p := parser{
		in:      bufio.NewReader(in),
		line:    1,
		symbols: swiss.NewMap[string, int](16),
	}
	rules := p.parseRoot()
	if p.err != nil {
		return nil, p.err
	}
	return rules, nil
}

type parser struct {
	in       *bufio.Reader
	line     int
	col      int
	r        rune
	err      error
	eof      bool
	isUnread bool

	// symbols maps every declared symbol to its line.
	symbols *swiss.Map[string, int]
}

func (p *parser) reportError(err error) {
	p.reportErrorAt(p.line, p.col, err)
}

func (p *parser) reportErrorAt(line, col int, err error) {
	if err == nil {
		return
	}

	// We only report the first error.
	if p.err != nil {
		return
	}
	p.err = fmt.Errorf("%d:%d: %w", line, col, err)
}

// read returns true if successful.
func (p *parser) read() bool {
	if p.err != nil || p.eof {
		return false
	}

	if p.isUnread {
		p.isUnread = false
		return true
	}

	var err error
	p.r, _, err = p.in.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.eof = true
		} else {
			p.reportError(err)
		}
		return false
	}

	if p.r == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	return true
}

func (p *parser) unread() {
	p.isUnread = true
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// readNextNonBlank skips blanks within the line. It returns true if
// successful.
func (p *parser) readNextNonBlank() bool {
	for p.read() {
		if !isBlank(p.r) {
			return true
		}
	}
	return false
}

// readNextNonWs skips blanks and newlines. It returns true if successful.
func (p *parser) readNextNonWs() bool {
	for p.read() {
		if !isBlank(p.r) && p.r != '\n' {
			return true
		}
	}
	return false
}

func (p *parser) skipLine() {
	for p.read() && p.r != '\n' {
	}
}

// readWord reads up to the next blank or newline, starting at the current
// rune.
func (p *parser) readWord() string {
	var buf []rune
	for ok := true; ok && !isBlank(p.r) && p.r != '\n'; ok = p.read() {
		buf = append(buf, p.r)
	}
	if !p.eof {
		p.unread()
	}
	return string(buf)
}

// readPattern reads the rest of the line, starting at the current rune.
func (p *parser) readPattern() string {
	var buf []rune
	for ok := true; ok && p.r != '\n'; ok = p.read() {
		buf = append(buf, p.r)
	}
	return string(trimPattern(buf))
}

// trimPattern drops trailing blanks, except one escaped by a backslash.
func trimPattern(buf []rune) []rune {
	e := len(buf)
	for e > 0 && isBlank(buf[e-1]) {
		e--
	}
	if e < len(buf) && escapes(buf[:e]) {
		e++
	}
	return buf[:e]
}

// escapes reports whether buf ends with an unpaired backslash.
func escapes(buf []rune) bool {
	n := 0
	for i := len(buf) - 1; i >= 0 && buf[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

/*
Rule File Grammar
=================

FILE:
	LINE
	LINE
	...

LINE:
	(1) empty or blank
	(2) # comment
	(3) SYMBOL BLANKS PATTERN

SYMBOL: a Go identifier, not "Reject"
PATTERN: the rest of the line, trailing blanks trimmed
*/

func (p *parser) parseRoot() []*Rule {
	var rules []*Rule
	for p.readNextNonWs() {
		if p.r == '#' {
			p.skipLine()
			continue
		}
		rule := p.parseRule()
		if rule == nil {
			break
		}
		rules = append(rules, rule)
	}
	return rules
}

func (p *parser) parseRule() *Rule {
	line, col := p.line, p.col
	symbol := p.readWord()
	if err := p.checkSymbol(symbol); err != nil {
		p.reportErrorAt(line, col, err)
		return nil
	}

	if !p.readNextNonBlank() || p.r == '\n' {
		p.reportErrorAt(line, col+utf8.RuneCountInString(symbol), errors.Wrap(ErrMissingPattern, symbol))
		return nil
	}
	rule := &Rule{Symbol: symbol, Line: p.line, Col: p.col}
	rule.Pattern = p.readPattern()
	if p.err != nil {
		return nil
	}
	p.symbols.Put(symbol, line)
	return rule
}

func (p *parser) checkSymbol(symbol string) error {
	switch {
	case !token.IsIdentifier(symbol):
		return errors.Wrapf(ErrBadSymbol, "%q", symbol)
	case symbol == ReservedSymbol:
		return errors.Wrap(ErrReservedSymbol, symbol)
	}
	if prev, ok := p.symbols.Get(symbol); ok {
		return errors.Wrapf(ErrDuplicateSymbol, "%s, first declared on line %d", symbol, prev)
	}
	return nil
}
