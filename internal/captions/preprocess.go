package captions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const paragraphBreak = "\n\n"

// Sentence punctuation glued to a capitalised next word, e.g. "done.Next".
var concatenatedSentence = regexp.MustCompile(`^(.+[.!?])([A-Z].*)$`)

// Preprocess corrects provider artifacts before grouping. Tokens spanning a
// paragraph break are split into their non-empty parts, tokens where one
// sentence runs into the next without a space are split in two, and any
// remaining newlines are removed. Split intervals are divided in proportion
// to character count. Tokens left empty are dropped.
func Preprocess(words []WordTimestamp) []WordTimestamp {
	out := make([]WordTimestamp, 0, len(words))
	for _, w := range words {
		if strings.Contains(w.Word, paragraphBreak) {
			parts := nonEmptyParts(strings.Split(w.Word, paragraphBreak))
			if len(parts) > 1 {
				out = append(out, splitProportionally(w, parts)...)
				continue
			}
		}
		if m := concatenatedSentence.FindStringSubmatch(w.Word); m != nil {
			out = append(out, splitProportionally(w, m[1:])...)
			continue
		}
		clean := strings.Join(strings.Fields(w.Word), " ")
		if clean == "" {
			continue
		}
		out = append(out, WordTimestamp{Word: clean, Start: w.Start, End: w.End})
	}
	return out
}

func nonEmptyParts(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitProportionally divides w's interval across parts by rune count. The
// last part ends exactly at w.End so the pieces cover the original span.
func splitProportionally(w WordTimestamp, parts []string) []WordTimestamp {
	total := 0
	for _, p := range parts {
		total += utf8.RuneCountInString(p)
	}
	span := w.Duration()
	out := make([]WordTimestamp, len(parts))
	cursor := w.Start
	for i, p := range parts {
		var d float64
		if total > 0 {
			d = span * float64(utf8.RuneCountInString(p)) / float64(total)
		} else {
			d = span / float64(len(parts))
		}
		end := cursor + d
		if i == len(parts)-1 {
			end = w.End
		}
		out[i] = WordTimestamp{Word: p, Start: cursor, End: end}
		cursor = end
	}
	return out
}
