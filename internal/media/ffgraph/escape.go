package ffgraph

import (
	"strconv"
	"strings"
)

// optionEscaper handles the filter option level (key=value:key=value).
var optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)

// graphEscaper handles the filtergraph level (chains and pads).
var graphEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `,`, `\,`, `;`, `\;`, `[`, `\[`, `]`, `\]`)

// escapeValue escapes an option value for use inside -filter_complex. Both
// parsing levels strip one layer of escaping, so the value is escaped twice.
func escapeValue(value string) string {
	return graphEscaper.Replace(optionEscaper.Replace(value))
}

// ffColor converts "#RRGGBB" to ffmpeg's 0xRRGGBB form; names pass through.
func ffColor(value string) string {
	value = strings.TrimSpace(value)
	if rest, ok := strings.CutPrefix(value, "#"); ok {
		return "0x" + rest
	}
	if value == "" {
		return "white"
	}
	return value
}

// num formats seconds with microsecond precision and no trailing zeros.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
