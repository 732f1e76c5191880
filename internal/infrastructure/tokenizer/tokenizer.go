package tokenizer

import (
	"strings"
	"sync"
	"unicode"
)

// Tokenizer is a deterministic, reversible word-level tokenizer. A piece is
// a run of letters/digits or a single symbol rune, carrying its preceding
// whitespace, so Decode(Encode(s)) == s for any input with at least one
// non-space rune. Ids come from a process-local vocabulary and are stable
// for the process lifetime, which is exactly the stability contract the
// chunker depends on.
type Tokenizer struct {
	mu     sync.Mutex
	ids    map[string]int
	pieces []string
}

func New() *Tokenizer {
	return &Tokenizer{
		ids: make(map[string]int, 1024),
	}
}

func (t *Tokenizer) Encode(text string) []int {
	pieces := split(text)
	if len(pieces) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int, 0, len(pieces))
	for _, piece := range pieces {
		id, ok := t.ids[piece]
		if !ok {
			id = len(t.pieces)
			t.ids[piece] = id
			t.pieces = append(t.pieces, piece)
		}
		out = append(out, id)
	}
	return out
}

func (t *Tokenizer) Decode(ids []int) string {
	if len(ids) == 0 {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	for _, id := range ids {
		if id < 0 || id >= len(t.pieces) {
			continue
		}
		b.WriteString(t.pieces[id])
	}
	return b.String()
}

func (t *Tokenizer) Count(text string) int {
	return len(split(text))
}

// split cuts text into pieces: each piece is either a maximal letter/digit
// run or a single other rune, prefixed with the whitespace that preceded
// it. Trailing whitespace is folded into the last piece so concatenating
// all pieces reproduces the input. Whitespace-only input has zero pieces.
func split(text string) []string {
	if text == "" {
		return nil
	}

	pieces := make([]string, 0, 16)
	var pending strings.Builder // whitespace waiting for its piece
	var word strings.Builder    // current letter/digit run, incl. prefix

	flushWord := func() {
		if word.Len() > 0 {
			pieces = append(pieces, word.String())
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flushWord()
			pending.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if word.Len() == 0 && pending.Len() > 0 {
				word.WriteString(pending.String())
				pending.Reset()
			}
			word.WriteRune(r)
		default:
			flushWord()
			piece := pending.String() + string(r)
			pending.Reset()
			pieces = append(pieces, piece)
		}
	}
	flushWord()

	if pending.Len() > 0 && len(pieces) > 0 {
		pieces[len(pieces)-1] += pending.String()
	}
	return pieces
}
