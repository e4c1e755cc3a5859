package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/liran-funaro/dfalex/graph"
	"github.com/stretchr/testify/require"
)

const lexerRules = `# A tiny lexer.
If          if
Id          [a-z][a-z0-9]*

Number      [0-9][0-9]*
Whitespace  ( |\t|\r|\n)+
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(lexerRules))
	require.NoError(t, err)
	require.Equal(t, []*Rule{
		{Symbol: "If", Pattern: "if", Line: 2, Col: 13},
		{Symbol: "Id", Pattern: "[a-z][a-z0-9]*", Line: 3, Col: 13},
		{Symbol: "Number", Pattern: "[0-9][0-9]*", Line: 5, Col: 13},
		{Symbol: "Whitespace", Pattern: `( |\t|\r|\n)+`, Line: 6, Col: 13},
	}, rules)
}

func TestParseRulesLayout(t *testing.T) {
	for _, x := range []struct {
		name, in string
		want     []string
	}{
		{"empty", "", nil},
		{"blank lines", "\n \n\t\n", nil},
		{"comment only", "# nothing\n   # indented\n", nil},
		{"no final newline", "A a", []string{"A=a"}},
		{"crlf", "A a\r\nB b\r\n", []string{"A=a", "B=b"}},
		{"indented", "   A\t\t a b \t\n", []string{"A=a b"}},
		{"escaped trailing blank", "Sp a\\  \n", []string{"Sp=a\\ "}},
		{"double backslash", "Bs a\\\\  \n", []string{"Bs=a\\\\"}},
		{"hash in pattern", "H #[0-9]+ # not a comment", []string{"H=#[0-9]+ # not a comment"}},
		{"unicode symbol", "Größe a", []string{"Größe=a"}},
	} {
		t.Run(x.name, func(t *testing.T) {
			rules, err := ParseRules(strings.NewReader(x.in))
			require.NoError(t, err)
			var got []string
			for _, r := range rules {
				got = append(got, r.Symbol+"="+r.Pattern)
			}
			require.Equal(t, x.want, got)
		})
	}
}

func TestParseRulesErrors(t *testing.T) {
	for _, x := range []struct {
		name, in string
		err      error
		pos      string
	}{
		{"missing pattern", "A a\nB\n", ErrMissingPattern, "2:2: "},
		{"missing pattern at eof", "Abc", ErrMissingPattern, "1:4: "},
		{"missing pattern blanks", "A a\n  B   \n", ErrMissingPattern, "2:4: "},
		{"bad symbol", "A a\n9x a\n", ErrBadSymbol, "2:1: "},
		{"keyword", "if a\n", ErrBadSymbol, "1:1: "},
		{"punctuation", "A-B a\n", ErrBadSymbol, "1:1: "},
		{"reserved", "Reject a\n", ErrReservedSymbol, "1:1: "},
		{"duplicate", "A a\nB b\n  A c\n", ErrDuplicateSymbol, "3:3: "},
	} {
		t.Run(x.name, func(t *testing.T) {
			_, err := ParseRules(strings.NewReader(x.in))
			require.ErrorIs(t, err, x.err)
			require.True(t, strings.HasPrefix(err.Error(), x.pos), err.Error())
		})
	}
}

func TestCompile(t *testing.T) {
	x, err := ParseProgram(strings.NewReader(lexerRules))
	require.NoError(t, err)
	defer x.Destroy()

	tokens, err := x.DFA.Tokenize([]byte("if a4 123"))
	require.NoError(t, err)
	var symbols []string
	for _, tok := range tokens {
		symbols = append(symbols, tok.Symbol)
	}
	require.Equal(t, []string{"If", "Whitespace", "Id", "Whitespace", "Number"}, symbols)

	require.Len(t, x.Stages, 3)
	require.Equal(t, "nfa", x.Stages[0].Name)
	require.Equal(t, x.NFA.Len(), x.Stages[0].States)
	require.Equal(t, x.DFA.Len(), x.Stages[2].States)
	require.LessOrEqual(t, x.Stages[2].States, x.Stages[1].States)
	require.Empty(t, x.Unreachable())
	require.Empty(t, x.Nullable())
}

func TestCompileDiagnostics(t *testing.T) {
	x, err := ParseProgram(strings.NewReader("Id [a-z]+\nIf if\nOpt 0*\n"))
	require.NoError(t, err)
	defer x.Destroy()
	require.Equal(t, []string{"If"}, x.Unreachable())
	require.Equal(t, []string{"Opt"}, x.Nullable())
}

func TestCompilePatternError(t *testing.T) {
	_, err := ParseProgram(strings.NewReader("A a\nB   x(yz\n"))
	require.ErrorIs(t, err, graph.ErrUnmatchedLpar)
	require.True(t, strings.HasPrefix(err.Error(), "2:6: B: "), err.Error())

	_, err = ParseProgram(strings.NewReader("A [z-a]\n"))
	require.ErrorIs(t, err, graph.ErrBadRange)
	require.True(t, strings.HasPrefix(err.Error(), "1:4: A: "), err.Error())

	_, err = Compile([]*Rule{
		{Symbol: "A", Pattern: "a", Line: 3, Col: 5},
		{Symbol: "B", Pattern: "b)", Line: 7, Col: 2},
	})
	require.ErrorIs(t, err, graph.ErrUnmatchedRpar)
	require.Equal(t, "7:3: B: unmatched ')'", err.Error())
}

func TestCompileEmpty(t *testing.T) {
	x, err := ParseProgram(strings.NewReader("# no rules\n"))
	require.NoError(t, err)
	defer x.Destroy()
	require.Equal(t, 1, x.DFA.Len())
	require.Equal(t, graph.NoAccept, x.DFA.StartState().Accept)
}

func TestProgramDotGraphs(t *testing.T) {
	x, err := ParseProgram(strings.NewReader("A a+\nB b\n"))
	require.NoError(t, err)
	defer x.Destroy()

	var buf bytes.Buffer
	require.NoError(t, x.WriteNFADotGraph(&buf))
	require.Contains(t, buf.String(), "digraph NFA {")
	buf.Reset()
	require.NoError(t, x.WriteDFADotGraph(&buf))
	require.Contains(t, buf.String(), "digraph DFA {")
	require.Contains(t, buf.String(), `xlabel="B"`)
}
