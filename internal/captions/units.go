package captions

import (
	"strings"

	"clipforge/internal/textlayout"
)

// Style selects how tokens are grouped for display.
type Style string

const (
	StyleSentence   Style = "sentence"
	StyleWordByWord Style = "word_by_word"
)

// DefaultMaxWords caps a sentence-style group.
const DefaultMaxWords = 4

// Unit is one displayed caption span.
type Unit struct {
	Words []WordTimestamp
	Start float64
	End   float64
	// Text is the display text, already wrapped to the layout width.
	Text string
}

// Duration returns End-Start.
func (u Unit) Duration() float64 {
	return u.End - u.Start
}

// Layout carries the text metrics used to pre-wrap unit text. A zero
// WrapWidth disables wrapping.
type Layout struct {
	FontSize  int
	WrapWidth int
}

// Options controls Build.
type Options struct {
	Style    Style
	MaxWords int
	Layout   Layout
}

// Build preprocesses words and groups them into display units. Units whose
// duration is not positive are dropped.
func Build(words []WordTimestamp, opts Options) []Unit {
	cleaned := Preprocess(words)
	if len(cleaned) == 0 {
		return nil
	}

	var groups [][]WordTimestamp
	if opts.Style == StyleWordByWord {
		groups = make([][]WordTimestamp, len(cleaned))
		for i := range cleaned {
			groups[i] = cleaned[i : i+1]
		}
	} else {
		groups = GroupSentences(cleaned, opts.MaxWords)
	}

	units := make([]Unit, 0, len(groups))
	for _, group := range groups {
		unit := newUnit(group, opts.Layout)
		if unit.Duration() <= 0 {
			continue
		}
		units = append(units, unit)
	}
	return units
}

// GroupSentences accumulates tokens until one ends with '.', '!' or '?', or
// the group holds maxWords tokens. A trailing partial group is flushed.
func GroupSentences(words []WordTimestamp, maxWords int) [][]WordTimestamp {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	var groups [][]WordTimestamp
	start := 0
	for i, w := range words {
		if endsSentence(w.Word) || i-start+1 >= maxWords {
			groups = append(groups, words[start:i+1])
			start = i + 1
		}
	}
	if start < len(words) {
		groups = append(groups, words[start:])
	}
	return groups
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

func newUnit(group []WordTimestamp, layout Layout) Unit {
	tokens := make([]string, len(group))
	for i, w := range group {
		tokens[i] = w.Word
	}
	text := strings.Join(tokens, " ")
	if layout.WrapWidth > 0 && layout.FontSize > 0 {
		text = textlayout.Wrap(text, layout.FontSize, layout.WrapWidth)
	}
	return Unit{
		Words: append([]WordTimestamp(nil), group...),
		Start: group[0].Start,
		End:   group[len(group)-1].End,
		Text:  text,
	}
}
