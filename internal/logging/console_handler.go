package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleFieldLimit caps the fields printed under an INFO line. DEBUG and
// below print everything.
const consoleFieldLimit = 8

// renderIDPrefix is how much of the correlation id the header shows.
const renderIDPrefix = 8

// fieldRank orders the fields an operator reads first. Unranked fields keep
// their emission order after these.
var fieldRank = map[string]int{
	FieldEventType:     0,
	FieldErrorHint:     1,
	FieldImpact:        2,
	"reason":           3,
	"clip":             4,
	"encoder":          5,
	"output":           6,
	"duration_seconds": 7,
	"entries":          8,
	"captions":         9,
}

// header fields are lifted out of the body.
var headerFields = map[string]bool{
	FieldComponent:     true,
	FieldProject:       true,
	FieldTier:          true,
	FieldCorrelationID: true,
}

type field struct {
	key   string
	value slog.Value
}

type consoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// consoleHandler prints one header line per record followed by indented
// "key: value" lines.
type consoleHandler struct {
	out       *consoleOutput
	level     slog.Leveler
	addSource bool
	prefix    string
	preset    []field
}

func newPrettyHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &consoleOutput{w: w}, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = append(cloneFields(h.preset), flatten(h.prefix, attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = joinKey(h.prefix, name)
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := cloneFields(h.preset)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, flatten(h.prefix, []slog.Attr{attr})...)
		return true
	})
	fields = lastWins(fields)

	head := map[string]string{}
	body := fields[:0:0]
	for _, f := range fields {
		if headerFields[f.key] {
			if _, seen := head[f.key]; !seen {
				head[f.key] = attrString(f.value)
			}
			continue
		}
		body = append(body, f)
	}
	sort.SliceStable(body, func(i, j int) bool {
		return rankOf(body[i].key) < rankOf(body[j].key)
	})

	var sb strings.Builder
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(formatTimestamp(ts))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(record.Level))
	if c := head[FieldComponent]; c != "" {
		sb.WriteString(" [" + c + "]")
	}
	if subject := FormatSubject(head[FieldProject], head[FieldTier]); subject != "" {
		sb.WriteString(" " + subject)
	}
	if rid := head[FieldCorrelationID]; rid != "" {
		if len(rid) > renderIDPrefix {
			rid = rid[:renderIDPrefix]
		}
		sb.WriteString(" #" + rid)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	sb.WriteString(" – " + msg)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			sb.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	sb.WriteByte('\n')

	shown := body
	if record.Level >= slog.LevelInfo && len(body) > consoleFieldLimit {
		shown = body[:consoleFieldLimit]
	}
	for _, f := range shown {
		sb.WriteString("    - " + f.key + ": " + formatValue(f.value) + "\n")
	}
	if hidden := len(body) - len(shown); hidden > 0 {
		sb.WriteString("    + " + strconv.Itoa(hidden) + " more field")
		if hidden != 1 {
			sb.WriteByte('s')
		}
		sb.WriteString(" hidden\n")
	}

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.w, sb.String())
	return err
}

// FormatSubject renders "project (tier)", or whichever half is present.
func FormatSubject(project, tier string) string {
	project = strings.TrimSpace(project)
	tier = strings.TrimSpace(tier)
	switch {
	case project != "" && tier != "":
		return project + " (" + tier + ")"
	case project != "":
		return project
	default:
		return tier
	}
}

func rankOf(key string) int {
	if r, ok := fieldRank[key]; ok {
		return r
	}
	return len(fieldRank)
}

func flatten(prefix string, attrs []slog.Attr) []field {
	var out []field
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		v := attr.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			out = append(out, flatten(joinKey(prefix, attr.Key), v.Group())...)
			continue
		}
		if attr.Key == "" {
			continue
		}
		out = append(out, field{key: joinKey(prefix, attr.Key), value: v})
	}
	return out
}

// lastWins keeps the first position of each key with the latest value.
func lastWins(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	pos := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if i, ok := pos[f.key]; ok {
			out[i].value = f.value
			continue
		}
		pos[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func cloneFields(fields []field) []field {
	return append([]field(nil), fields...)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
