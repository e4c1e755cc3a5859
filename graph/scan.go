package graph

import (
	"github.com/pkg/errors"
)

var ErrNoMatch = errors.New("no rule matches")

// Match runs the automaton from the start of input with maximal munch: it
// follows transitions as long as there are any and returns the rule of the
// last accepting state reached, with the number of bytes consumed up to it.
// A state only counts once at least one byte was consumed, so a match is
// never empty. Without a match it returns (NoAccept, 0).
func (d *DFA) Match(input []byte) (accept int, n int) {
	accept = NoAccept
	st := d.Start
	for i, c := range input {
		if c >= AlphabetSize {
			break
		}
		st = d.States[st].Next[c]
		if st == NoTransition {
			break
		}
		if a := d.States[st].Accept; a != NoAccept {
			accept, n = a, i+1
		}
	}
	return accept, n
}

// Token is one match of Tokenize.
type Token struct {
	Rule   int
	Symbol string
	Text   string
	Offset int
}

// Tokenize splits input into consecutive maximal matches. It stops at the
// first offset where no rule matches.
func (d *DFA) Tokenize(input []byte) ([]Token, error) {
	var tokens []Token
	for pos := 0; pos < len(input); {
		accept, n := d.Match(input[pos:])
		if accept == NoAccept {
			return tokens, errors.Wrapf(ErrNoMatch, "offset %d", pos)
		}
		tokens = append(tokens, Token{
			Rule:   accept,
			Symbol: d.Symbols[accept],
			Text:   string(input[pos : pos+n]),
			Offset: pos,
		})
		pos += n
	}
	return tokens, nil
}
