package writer

// [PREAMBLE PLACEHOLDER]

// Scan matches the longest token at the start of *cursor and moves the cursor
// past it. When no token starts there it returns Reject and leaves the cursor
// alone.
func Scan(cursor *[]byte) TokenKind {
	input := *cursor
	st := startState
	kind, n := Reject, 0
	for i, c := range input {
		if int(c) >= len(transitions[st]) {
			break
		}
		if st = transitions[st][c]; st == 0 {
			break
		}
		if a := accepts[st]; a != Reject {
			kind, n = a, i+1
		}
	}
	*cursor = input[n:]
	return kind
}

// [SUFFIX PLACEHOLDER]

type state = uint8

type TokenKind int

const Reject TokenKind = 0

const startState state = 1

var (
	transitions = [2][128]state{}
	accepts     = [2]TokenKind{}
)
