// Package writer emits a table-driven Go scanner for a minimized DFA: a
// header file with the token kinds and a source file with the transition
// table and the Scan loop.
package writer

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"go/token"
	"go/types"
	"math"
	"regexp"
	"strconv"

	"github.com/liran-funaro/dfalex/graph"
	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// Banner marks both emitted files as generated.
const Banner = "// Code generated by dfalex; DO NOT EDIT."

// DefaultPackage is the package of the emitted files unless one is set.
const DefaultPackage = "lexer"

var (
	ErrBadPackage = errors.New("package name is not an identifier")
	ErrNameClash  = errors.New("token name clashes with a generated or predeclared name")
)

// generatedNames are the identifiers the emitted files declare or import
// besides the token kinds, and the names Go reserves at package level.
var generatedNames = map[string]bool{
	"strconv":     true,
	"init":        true,
	"_":           true,
	"TokenKind":   true,
	"Reject":      true,
	"Scan":        true,
	"state":       true,
	"startState":  true,
	"transitions": true,
	"accepts":     true,
	"tokenNames":  true,
}

//go:embed scanner.go
var scannerTextFull string

var scanCode = scannerText()

func scannerText() string {
	s := regexp.MustCompile(
		`(?s)^.*?
// \[PREAMBLE PLACEHOLDER]
(.*?)
// \[SUFFIX PLACEHOLDER]
.*$`,
	).FindStringSubmatch(scannerTextFull)
	return s[1]
}

// ScannerBuilder renders a DFA as Go code.
type ScannerBuilder struct {
	Package string // DefaultPackage if empty.
	Prefix  string // Prepended to every token kind name.

	out *bytes.Buffer
	err error
}

// Scanner holds the two emitted files.
type Scanner struct {
	Header []byte
	Source []byte
}

func (b *ScannerBuilder) writeString(s string) {
	if b.err != nil {
		return
	}
	_, b.err = b.out.WriteString(s)
}

func (b *ScannerBuilder) writef(format string, a ...any) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.out, format, a...)
}

func (b *ScannerBuilder) packageName() string {
	if b.Package == "" {
		return DefaultPackage
	}
	return b.Package
}

// KindNames returns the constant name of every rule of d, in rule order.
func (b *ScannerBuilder) KindNames(d *graph.DFA) ([]string, error) {
	names := make([]string, len(d.Symbols))
	for i, s := range d.Symbols {
		name := b.Prefix + s
		if !token.IsIdentifier(name) || generatedNames[name] || types.Universe.Lookup(name) != nil {
			return nil, errors.Wrap(ErrNameClash, name)
		}
		names[i] = name
	}
	return names, nil
}

// StateType is the smallest unsigned type that can index n table rows.
func StateType(n int) string {
	switch {
	case n <= math.MaxUint8+1:
		return "uint8"
	case n <= math.MaxUint16+1:
		return "uint16"
	}
	return "uint32"
}

// DumpFormattedScanner renders d. Row 0 of the table is the dead state; DFA
// state i becomes row i+1.
func (b *ScannerBuilder) DumpFormattedScanner(d *graph.DFA) (*Scanner, error) {
	if !token.IsIdentifier(b.packageName()) {
		return nil, errors.Wrap(ErrBadPackage, b.packageName())
	}
	names, err := b.KindNames(d)
	if err != nil {
		return nil, err
	}

	res := &Scanner{}
	header := b.render(func() { b.writeHeader(d, names) })
	if res.Header, err = formatCode("tokens.go", header); err != nil {
		return nil, errors.Wrap(err, "format header")
	}
	source := b.render(func() { b.writeSource(d, names) })
	if res.Source, err = formatCode("scanner.go", source); err != nil {
		return nil, errors.Wrap(err, "format source")
	}
	if b.err != nil {
		return nil, b.err
	}
	return res, nil
}

func (b *ScannerBuilder) render(body func()) []byte {
	b.out = &bytes.Buffer{}
	b.writef("%s\n\npackage %s\n\n", Banner, b.packageName())
	body()
	return b.out.Bytes()
}

func (b *ScannerBuilder) writeHeader(d *graph.DFA, names []string) {
	b.writeString("// TokenKind is the kind of token returned by Scan.\ntype TokenKind int\n\n")
	b.writeString("const (\n\tReject TokenKind = iota\n")
	for _, name := range names {
		b.writef("\t%s\n", name)
	}
	b.writeString(")\n\n")

	b.writeString("var tokenNames = [...]string{\"Reject\",")
	for _, s := range d.Symbols {
		b.writef("%q,", s)
	}
	b.writeString("}\n\n")

	// strconv is added by imports.Process.
	b.writeString(`func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}
`)
}

func (b *ScannerBuilder) writeSource(d *graph.DFA, names []string) {
	rows := d.Len() + 1
	b.writeString(scanCode)
	b.writef("\n\ntype state = %s\n\n", StateType(rows))
	b.writef("const startState state = %d\n\n", d.Start+1)

	b.writeString("// transitions[s][c] is the state after reading c in state s. State 0 is\n// the dead state.\n")
	b.writef("var transitions = [%d][%d]state{\n{},\n", rows, graph.AlphabetSize)
	for _, s := range d.States {
		b.writeString("{")
		for c, t := range s.Next {
			if t != graph.NoTransition {
				b.writef("%s: %d,", strconv.QuoteRuneToASCII(rune(c)), t+1)
			}
		}
		b.writeString("},\n")
	}
	b.writeString("}\n\n")

	b.writef("var accepts = [%d]TokenKind{Reject,", rows)
	for _, s := range d.States {
		if s.Accept == graph.NoAccept {
			b.writeString("Reject,")
		} else {
			b.writef("%s,", names[s.Accept])
		}
	}
	b.writeString("}\n")
}

func formatCode(filename string, src []byte) ([]byte, error) {
	src, err := format.Source(src)
	if err != nil {
		return src, err
	}
	return imports.Process(filename, src, &imports.Options{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
		Fragment:  true,
	})
}
