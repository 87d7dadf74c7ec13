package assembly

import (
	"log/slog"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipforge/internal/captions"
	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
	"clipforge/internal/textlayout"
)

const (
	wordBoxInset = 100
	hookBoxInset = 150
	// strokeWrapFactor keeps stroked glyphs inside the caption box.
	strokeWrapFactor = 6

	hookTopFraction     = 0.15
	hookDefaultFraction = 0.2
)

// captionLayout returns the box and wrap widths for the configured style.
func captionLayout(video config.Video, cc config.Captions) (box int, layout captions.Layout) {
	if captions.Style(cc.Style) == captions.StyleWordByWord {
		box = video.Width - wordBoxInset
		return box, captions.Layout{FontSize: cc.FontSize, WrapWidth: box}
	}
	box = video.Width - cc.HorizontalMargin
	return box, captions.Layout{FontSize: cc.FontSize, WrapWidth: box - strokeWrapFactor*cc.StrokeWidth}
}

func lineHeight(fontSize int, spacing float64) int {
	if spacing <= 0 {
		spacing = 1
	}
	return int(math.Round(float64(fontSize) * spacing))
}

func (a *Assembler) captionOverlays(units []captions.Unit) []clip.Text {
	cc := a.cfg.Captions
	box, _ := captionLayout(a.cfg.Video, cc)
	texts := make([]clip.Text, 0, len(units))
	for _, unit := range units {
		if unit.Duration() <= 0 {
			continue
		}
		texts = append(texts, clip.Text{
			Text:        unit.Text,
			Font:        cc.Font,
			FontSize:    cc.FontSize,
			Color:       cc.Color,
			StrokeColor: cc.StrokeColor,
			StrokeWidth: cc.StrokeWidth,
			BoxWidth:    box,
			LineSpacing: lineHeight(cc.FontSize, cc.LineSpacing),
			Anchor:      clip.AnchorCenter,
			Start:       unit.Start,
			End:         unit.End,
		})
	}
	return texts
}

// hookOverlay describes the opening hook, clamped to the composition. ok is
// false when there is nothing to draw.
func (a *Assembler) hookOverlay(text string, total float64) (clip.Text, bool) {
	hc := a.cfg.HookText
	text = strings.TrimSpace(text)
	if !hc.Enabled || text == "" {
		return clip.Text{}, false
	}
	end := math.Min(hc.Duration, total)
	if end <= 0 {
		return clip.Text{}, false
	}
	if hc.Uppercase {
		text = cases.Upper(language.Und).String(text)
	}

	box := a.cfg.Video.Width - hookBoxInset
	overlay := clip.Text{
		Text:        textlayout.Wrap(text, hc.FontSize, box),
		Font:        hc.Font,
		FontSize:    hc.FontSize,
		Color:       hc.Color,
		StrokeColor: hc.StrokeColor,
		StrokeWidth: hc.StrokeWidth,
		BoxWidth:    box,
		LineSpacing: lineHeight(hc.FontSize, a.cfg.Captions.LineSpacing),
		Start:       0,
		End:         end,
		Fade:        hc.Fade,
	}
	switch hc.Position {
	case config.HookPositionCenter:
		overlay.Anchor = clip.AnchorCenter
	case config.HookPositionTopCenter:
		overlay.Anchor = clip.AnchorTop
		overlay.Top = int(float64(a.cfg.Video.Height) * hookTopFraction)
	default:
		overlay.Anchor = clip.AnchorTop
		overlay.Top = int(float64(a.cfg.Video.Height) * hookDefaultFraction)
	}
	return overlay, true
}

// drawAll applies each overlay in order. A failed overlay is skipped and the
// previous frame stack carries on.
func drawAll(logger *slog.Logger, backend clip.Backend, base clip.Video, texts []clip.Text, event string) (clip.Video, []OverlayResult) {
	results := make([]OverlayResult, 0, len(texts))
	for _, t := range texts {
		result := OverlayResult{Text: t.Text, Start: t.Start, End: t.End}
		next, err := backend.DrawText(base, t)
		if err != nil {
			result.Reason = err.Error()
			logging.WarnWithContext(logger, "text overlay skipped", event,
				logging.String("text", t.Text),
				logging.Seconds("start", t.Start),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the font and work_dir"),
				logging.String(logging.FieldImpact, "overlay missing from the video"),
			)
			results = append(results, result)
			continue
		}
		base = next
		result.Drawn = true
		results = append(results, result)
	}
	return base, results
}
