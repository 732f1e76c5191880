package chunking

import (
	"reflect"
	"testing"
)

func TestSplitSentencesBasic(t *testing.T) {
	got := splitSentences("Sentence one. Sentence two. Sentence three.")
	want := []string{"Sentence one.", "Sentence two.", "Sentence three."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sentences = %q, want %q", got, want)
	}
}

func TestSplitSentencesProtectsAbbreviations(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Dr. Smith arrived early. He left late.", 2},
		{"Use widgets, e.g. Gadgets and sprockets. Then stop.", 2},
		{"The U.S. Economy grew. Analysts agreed.", 2},
		{"See fig. 3 for details.", 1},
		{"Written by J. Smith. Published later.", 2},
	}
	for _, tc := range cases {
		got := splitSentences(tc.in)
		if len(got) != tc.want {
			t.Errorf("splitSentences(%q) = %q, want %d sentences", tc.in, got, tc.want)
		}
	}
}

func TestSplitSentencesRequiresUpperOrDigitAfterBoundary(t *testing.T) {
	// Lowercase continuation after a period is not a boundary.
	got := splitSentences("The file ext. was wrong. It failed.")
	if len(got) != 2 {
		t.Fatalf("sentences = %q, want 2", got)
	}
}

func TestSplitSentencesExclamationAndQuestion(t *testing.T) {
	got := splitSentences("Really! Are you sure? Yes.")
	want := []string{"Really!", "Are you sure?", "Yes."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sentences = %q, want %q", got, want)
	}
}

func TestSplitSentencesParagraphBreaks(t *testing.T) {
	// Blank lines split even without terminal punctuation.
	got := splitSentences("first block without punctuation\n\nSecond block here.")
	if len(got) != 2 {
		t.Fatalf("sentences = %q, want 2", got)
	}
	if got[0] != "first block without punctuation" {
		t.Fatalf("first = %q", got[0])
	}
}

func TestSplitSentencesClosingQuote(t *testing.T) {
	got := splitSentences(`He said "stop." Then he left.`)
	if len(got) != 2 {
		t.Fatalf("sentences = %q, want 2", got)
	}
}

func TestSplitSentencesNoBoundary(t *testing.T) {
	got := splitSentences("no punctuation at all just words")
	if len(got) != 1 {
		t.Fatalf("sentences = %q, want the whole text as one sentence", got)
	}
}

func TestSplitSentencesDigitStartsSentence(t *testing.T) {
	got := splitSentences("Step one is done. 2 more remain.")
	if len(got) != 2 {
		t.Fatalf("sentences = %q, want 2", got)
	}
}
