package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
)

// ClipStatus reports what happened to one footage clip during a build.
type ClipStatus string

const (
	ClipUsed    ClipStatus = "used"
	ClipSkipped ClipStatus = "skipped"
)

// ClipResult is the per-clip outcome of a build.
type ClipResult struct {
	Filename string
	Status   ClipStatus
	// Reason explains a skip.
	Reason string
	Loops  int
}

// Track is the output of Build.
type Track struct {
	Video   clip.Video
	Entries []Entry
	Results []ClipResult
	// Filler is set when no footage was usable.
	Filler bool
}

// Skipped returns the results for clips that were not used.
func (t Track) Skipped() []ClipResult {
	var out []ClipResult
	for _, r := range t.Results {
		if r.Status == ClipSkipped {
			out = append(out, r)
		}
	}
	return out
}

// Builder lays footage clips out across a narration.
type Builder struct {
	backend     clip.Backend
	width       int
	height      int
	fillerColor string
	logger      *slog.Logger
}

// NewBuilder returns a builder producing frames of the configured geometry.
func NewBuilder(backend clip.Backend, video config.Video, logger *slog.Logger) *Builder {
	color := video.FillerColor
	if color == "" {
		color = "black"
	}
	return &Builder{
		backend:     backend,
		width:       video.Width,
		height:      video.Height,
		fillerColor: color,
		logger:      logging.NewComponentLogger(logger, "timeline"),
	}
}

type loadedClip struct {
	footage FootageClip
	video   clip.Video
	index   int
}

// Build opens every clip under footageDir, gives each usable one an equal
// share of total, and composes them into one track. It never fails: unusable
// clips are skipped with a reason and, when none remain, the track is a solid
// colour filler.
func (b *Builder) Build(ctx context.Context, footageDir string, clips []FootageClip, total float64) Track {
	total = math.Max(total, 0)
	results := make([]ClipResult, len(clips))
	usable := make([]loadedClip, 0, len(clips))

	for i, footage := range clips {
		results[i] = ClipResult{Filename: footage.Filename}
		video, reason := b.load(ctx, footageDir, footage)
		if reason != "" {
			results[i].Status = ClipSkipped
			results[i].Reason = reason
			logging.WarnWithContext(b.logger, "footage clip skipped", "footage_clip_skipped",
				logging.String("clip", footage.Filename),
				logging.String("reason", reason),
				logging.String(logging.FieldErrorHint, "re-download or remove the clip"),
				logging.String(logging.FieldImpact, "remaining clips get longer slices"),
			)
			continue
		}
		usable = append(usable, loadedClip{footage: footage, video: video, index: i})
	}

	if len(usable) == 0 || total <= 0 {
		return b.filler(total, results, len(clips))
	}

	slice := total / float64(len(usable))
	layers := make([]clip.Video, 0, len(usable))
	entries := make([]Entry, 0, len(usable))
	offset := 0.0
	for i, item := range usable {
		end := offset + slice
		if i == len(usable)-1 || end > total {
			end = total
		}
		length := end - offset

		fitted := b.cover(item.video)
		loops := 1
		if d := fitted.Duration(); d < length {
			loops = int(math.Ceil(length/d - 1e-9))
			fitted = fitted.Loop(loops)
		}
		fitted = fitted.Subrange(0, length).At(offset)

		layers = append(layers, fitted)
		entries = append(entries, Entry{
			ClipFilename: item.footage.Filename,
			Start:        offset,
			End:          end,
			Keyword:      item.footage.Keyword,
		})
		results[item.index].Status = ClipUsed
		results[item.index].Loops = loops
		offset = end
	}

	b.logger.Info("timeline built",
		logging.Int("clips", len(clips)),
		logging.Int("used", len(usable)),
		logging.Seconds("slice_seconds", slice),
		logging.Seconds("total_seconds", total),
	)
	return Track{
		Video:   b.backend.Compose(b.width, b.height, total, layers),
		Entries: entries,
		Results: results,
	}
}

func (b *Builder) load(ctx context.Context, footageDir string, footage FootageClip) (clip.Video, string) {
	if footage.Filename == "" {
		return nil, "clip has no filename"
	}
	path := footage.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(footageDir, path)
	}
	video, err := b.backend.OpenVideo(ctx, path)
	if err != nil {
		return nil, fmt.Sprintf("load failed: %v", err)
	}
	if d := video.Duration(); d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return nil, fmt.Sprintf("unusable duration %.3fs", d)
	}
	if w, h := video.Size(); w <= 0 || h <= 0 {
		return nil, fmt.Sprintf("unusable dimensions %dx%d", w, h)
	}
	return video, ""
}

// cover scales v until it fills the frame on both axes, then crops the excess
// symmetrically.
func (b *Builder) cover(v clip.Video) clip.Video {
	w, h := v.Size()
	scale := math.Max(float64(b.width)/float64(w), float64(b.height)/float64(h))
	nw := max(int(math.Ceil(float64(w)*scale-1e-9)), b.width)
	nh := max(int(math.Ceil(float64(h)*scale-1e-9)), b.height)
	return v.Resize(nw, nh).CropCenter(b.width, b.height)
}

func (b *Builder) filler(total float64, results []ClipResult, requested int) Track {
	logging.WarnWithContext(b.logger, "no usable footage; using filler track", "timeline_filler",
		logging.Int("clips", requested),
		logging.Seconds("total_seconds", total),
		logging.String(logging.FieldErrorHint, "add footage clips to the project"),
		logging.String(logging.FieldImpact, "video shows a solid colour"),
	)
	for i := range results {
		if results[i].Status == "" {
			results[i].Status = ClipSkipped
			results[i].Reason = "narration has no duration to fill"
		}
	}
	var entries []Entry
	if total > 0 {
		entries = []Entry{{ClipFilename: FillerFilename, Start: 0, End: total}}
	}
	return Track{
		Video:   b.backend.Filler(b.width, b.height, b.fillerColor, total),
		Entries: entries,
		Results: results,
		Filler:  true,
	}
}
