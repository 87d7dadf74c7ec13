package captions

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MinSyntheticWordSeconds is the floor applied to each synthesized token
// before the sequence is rescaled to the narration length.
const MinSyntheticWordSeconds = 0.15

// Synthesize spreads the script's whitespace-delimited tokens across total
// seconds. Each token is weighted by sqrt(max(runes, 1)), floored at
// MinSyntheticWordSeconds, and the sequence is rescaled so the last token ends
// exactly at total. An empty script or non-positive total yields nil.
func Synthesize(script string, total float64) []WordTimestamp {
	tokens := strings.Fields(script)
	if len(tokens) == 0 || total <= 0 {
		return nil
	}

	weights := make([]float64, len(tokens))
	var sum float64
	for i, token := range tokens {
		weights[i] = math.Sqrt(float64(max(utf8.RuneCountInString(token), 1)))
		sum += weights[i]
	}

	words := make([]WordTimestamp, len(tokens))
	cursor := 0.0
	for i, token := range tokens {
		d := max(total*weights[i]/sum, MinSyntheticWordSeconds)
		words[i] = WordTimestamp{Word: token, Start: cursor, End: cursor + d}
		cursor += d
	}

	scale := total / cursor
	for i := range words {
		words[i].Start *= scale
		words[i].End *= scale
	}
	words[len(words)-1].End = total
	return words
}
