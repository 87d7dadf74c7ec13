package textlayout

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CharWidthRatio is the estimated glyph advance as a fraction of the font
// size, biased wide so stroked text stays inside its box.
const CharWidthRatio = 0.6

// EstimateWidth returns the estimated rendered width of text in pixels.
// Text is NFC-normalised first so combining sequences count as one glyph.
func EstimateWidth(text string, fontSize int) int {
	if fontSize <= 0 || text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(norm.NFC.String(text))
	return int(math.Floor(float64(runes*fontSize)*CharWidthRatio + 1e-9))
}

// Lines greedily packs the whitespace-separated words of text into lines. A
// word joins the current line while lineWidth + spaceWidth + wordWidth fits
// maxWidth. Words are never split; a word wider than maxWidth occupies its
// own line.
func Lines(text string, fontSize, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	space := EstimateWidth(" ", fontSize)
	lines := make([]string, 0, 2)
	current := []string{words[0]}
	width := EstimateWidth(words[0], fontSize)
	for _, word := range words[1:] {
		wordWidth := EstimateWidth(word, fontSize)
		if width+space+wordWidth <= maxWidth {
			current = append(current, word)
			width += space + wordWidth
			continue
		}
		lines = append(lines, strings.Join(current, " "))
		current = []string{word}
		width = wordWidth
	}
	return append(lines, strings.Join(current, " "))
}

// LineWidth is the packed width of a single line as Lines measures it.
func LineWidth(line string, fontSize int) int {
	words := strings.Fields(line)
	if len(words) == 0 {
		return 0
	}
	width := EstimateWidth(" ", fontSize) * (len(words) - 1)
	for _, word := range words {
		width += EstimateWidth(word, fontSize)
	}
	return width
}

// Wrap returns text wrapped to maxWidth with lines joined by a single newline.
func Wrap(text string, fontSize, maxWidth int) string {
	return strings.Join(Lines(text, fontSize, maxWidth), "\n")
}
