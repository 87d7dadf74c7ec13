package audiomix

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip/cliptest"
)

func musicConfig() config.Music {
	return config.Music{Enabled: true, Volume: 0.15, FadeIn: 1, FadeOut: 2}
}

func TestMixLoopsAndTrimsShortMusic(t *testing.T) {
	backend := cliptest.New()
	backend.AddAudio("voice.mp3", 10)
	backend.AddAudio("music.mp3", 4)
	ctx := context.Background()
	narration, _ := backend.OpenAudio(ctx, "voice.mp3")

	result := NewMixer(backend, musicConfig(), logging.NewNop()).Mix(ctx, narration, 10, "music.mp3")
	if result.Status != MusicMixed {
		t.Fatalf("status = %s, want mixed (%s)", result.Status, result.Reason)
	}
	if result.Loops != 3 {
		t.Fatalf("loops = %d, want 3", result.Loops)
	}
	if result.Audio.Duration() != 10 {
		t.Fatalf("duration = %v, want 10", result.Audio.Duration())
	}
	mix := result.Audio.(*cliptest.Audio)
	if len(mix.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(mix.Tracks))
	}
	if mix.Tracks[0] != narration {
		t.Fatal("narration must be the first, untouched track")
	}
	bed := mix.Tracks[1].(*cliptest.Audio)
	wantOps := []string{"loop(3)", "subrange(0,10)", "gain(0.15)", "fadein(1)", "fadeout(2)"}
	if !slices.Equal(bed.Ops, wantOps) {
		t.Fatalf("music ops = %v, want %v", bed.Ops, wantOps)
	}
	if bed.Duration() != 10 {
		t.Fatalf("music duration = %v, want 10", bed.Duration())
	}
}

func TestMixTrimsLongMusicWithoutLooping(t *testing.T) {
	backend := cliptest.New()
	backend.AddAudio("voice.mp3", 30)
	backend.AddAudio("music.mp3", 120)
	ctx := context.Background()
	narration, _ := backend.OpenAudio(ctx, "voice.mp3")

	cfg := musicConfig()
	cfg.FadeIn, cfg.FadeOut = 0, 0
	result := NewMixer(backend, cfg, logging.NewNop()).Mix(ctx, narration, 30, "music.mp3")
	bed := result.Audio.(*cliptest.Audio).Tracks[1].(*cliptest.Audio)
	if !slices.Equal(bed.Ops, []string{"subrange(0,30)", "gain(0.15)"}) {
		t.Fatalf("music ops = %v", bed.Ops)
	}
	if result.Loops != 1 {
		t.Fatalf("loops = %d, want 1", result.Loops)
	}
}

func TestMixFallsBackToNarration(t *testing.T) {
	backend := cliptest.New()
	backend.AddAudio("voice.mp3", 10)
	backend.AddAudio("silent.mp3", 0)
	ctx := context.Background()
	narration, _ := backend.OpenAudio(ctx, "voice.mp3")

	disabled := musicConfig()
	disabled.Enabled = false
	cases := []struct {
		name   string
		cfg    config.Music
		track  string
		status MusicStatus
	}{
		{"disabled", disabled, "music.mp3", MusicDisabled},
		{"no track", musicConfig(), "", MusicNone},
		{"missing file", musicConfig(), "missing.mp3", MusicFailed},
		{"zero duration", musicConfig(), "silent.mp3", MusicFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewMixer(backend, tc.cfg, logging.NewNop()).Mix(ctx, narration, 10, tc.track)
			if result.Status != tc.status {
				t.Fatalf("status = %s, want %s", result.Status, tc.status)
			}
			mix := result.Audio.(*cliptest.Audio)
			if len(mix.Tracks) != 1 || mix.Tracks[0] != narration {
				t.Fatalf("expected narration only, got %+v", mix.Tracks)
			}
			if mix.Duration() != 10 {
				t.Fatalf("duration = %v, want 10", mix.Duration())
			}
			if tc.status == MusicFailed && result.Reason == "" {
				t.Fatal("expected a failure reason")
			}
		})
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveTrack(t *testing.T) {
	root := t.TempDir()
	musicDir := filepath.Join(root, "music")
	touch(t, filepath.Join(musicDir, "calm", "a.mp3"))
	touch(t, filepath.Join(musicDir, "calm", "b.WAV"))
	touch(t, filepath.Join(musicDir, "calm", "notes.txt"))
	touch(t, filepath.Join(musicDir, "epic", "c.mp3"))
	explicit := filepath.Join(root, "custom.mp3")
	touch(t, explicit)

	if got := ResolveTrack(musicDir, explicit, "epic", nil); got != explicit {
		t.Fatalf("explicit track = %q", got)
	}
	if got := ResolveTrack(musicDir, filepath.Join(root, "gone.mp3"), "epic", nil); got != filepath.Join(musicDir, "epic", "c.mp3") {
		t.Fatalf("mood fallback = %q", got)
	}

	seen := map[string]bool{}
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		seen[ResolveTrack(musicDir, "", "", rng)] = true
	}
	want := map[string]bool{
		filepath.Join(musicDir, "calm", "a.mp3"): true,
		filepath.Join(musicDir, "calm", "b.WAV"): true,
	}
	if len(seen) != len(want) {
		t.Fatalf("default mood picks = %v", seen)
	}
	for path := range seen {
		if !want[path] {
			t.Fatalf("unexpected pick %q", path)
		}
	}

	if got := ResolveTrack(musicDir, "", "unknown", rand.New(rand.NewPCG(3, 4))); filepath.Dir(got) != filepath.Join(musicDir, "calm") {
		t.Fatalf("expected first mood directory, got %q", got)
	}
	if got := ResolveTrack(filepath.Join(root, "nothing"), "", "calm", nil); got != "" {
		t.Fatalf("expected no track, got %q", got)
	}
}
