package textlayout

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestEstimateWidth(t *testing.T) {
	cases := []struct {
		text     string
		fontSize int
		want     int
	}{
		{"hello", 60, 180},
		{"", 60, 0},
		{"a", 0, 0},
		{"ab", 55, 66},
		// e + combining acute composes to a single rune under NFC.
		{"cafe\u0301", 10, 24},
	}
	for _, tc := range cases {
		if got := EstimateWidth(tc.text, tc.fontSize); got != tc.want {
			t.Fatalf("EstimateWidth(%q, %d) = %d, want %d", tc.text, tc.fontSize, got, tc.want)
		}
	}
}

func TestWrapPacksGreedily(t *testing.T) {
	// font 10 => 6px per rune; max 60px => 10 runes per line.
	got := Wrap("the quick brown fox jumps", 10, 60)
	want := "the quick\nbrown fox\njumps"
	if got != want {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
}

func TestWrapKeepsOversizedWordOnItsOwnLine(t *testing.T) {
	got := Lines("a extraordinarily b", 10, 30)
	want := []string{"a", "extraordinarily", "b"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Lines = %q, want %q", got, want)
	}
}

func TestWrapEmptyInput(t *testing.T) {
	if got := Wrap("   \n ", 60, 100); got != "" {
		t.Fatalf("expected empty wrap, got %q", got)
	}
}

func TestWrapNeverExceedsWidthExceptSingleWords(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	for iter := 0; iter < 200; iter++ {
		words := make([]string, 1+rng.IntN(20))
		for i := range words {
			b := make([]byte, 1+rng.IntN(14))
			for j := range b {
				b[j] = alphabet[rng.IntN(len(alphabet))]
			}
			words[i] = string(b)
		}
		fontSize := 20 + rng.IntN(60)
		maxWidth := 50 + rng.IntN(900)
		text := strings.Join(words, " ")
		lines := Lines(text, fontSize, maxWidth)
		if strings.Join(lines, " ") != text {
			t.Fatalf("wrap changed words: %q -> %q", text, lines)
		}
		for _, line := range lines {
			if LineWidth(line, fontSize) <= maxWidth {
				continue
			}
			if strings.Contains(line, " ") {
				t.Fatalf("line %q exceeds %d at font %d", line, maxWidth, fontSize)
			}
		}
	}
}
