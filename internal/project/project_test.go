package project_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"clipforge/internal/project"
	"clipforge/internal/services"
	"clipforge/internal/testsupport"
	"clipforge/internal/timeline"
)

const sampleState = `{
  "id": "2026-01-02_ocean-facts_abcd1234",
  "topic": "ocean facts",
  "status": "draft",
  "script": "The ocean is deep.",
  "hook_text": "You won't believe this",
  "music_mood": "epic",
  "music_track": "music/custom.mp3",
  "footage_clips": [
    {"filename": "clip_001.mp4", "pexels_id": 12345, "keyword": "ocean", "duration": 12.5, "url": "https://example.com/1"},
    {"filename": "clip_002.mp4", "pexels_id": 67890, "keyword": "waves", "duration": 4.0, "start_time": null}
  ]
}`

func TestLoadReadsState(t *testing.T) {
	root := t.TempDir()
	id := "2026-01-02_ocean-facts_abcd1234"
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, project.StateFile), []byte(sampleState), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := project.Load(root, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.State.HookText != "You won't believe this" || p.State.MusicMood != "epic" {
		t.Fatalf("unexpected state: %+v", p.State)
	}
	want := []timeline.FootageClip{
		{Filename: "clip_001.mp4", SourceID: 12345, Keyword: "ocean", Duration: 12.5, URL: "https://example.com/1"},
		{Filename: "clip_002.mp4", SourceID: 67890, Keyword: "waves", Duration: 4},
	}
	if !slices.Equal(p.State.FootageClips, want) {
		t.Fatalf("clips = %+v, want %+v", p.State.FootageClips, want)
	}
	if p.Script() != "The ocean is deep." {
		t.Fatalf("script = %q", p.Script())
	}
	if p.MusicTrack() != filepath.Join(dir, "music", "custom.mp3") {
		t.Fatalf("music track = %q", p.MusicTrack())
	}

	if err := os.WriteFile(filepath.Join(dir, project.ScriptFile), []byte("  Edited script.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p.Script() != "Edited script." {
		t.Fatalf("script.txt should override, got %q", p.Script())
	}
	if p.VoiceoverPath() != filepath.Join(dir, "voiceover.mp3") || p.FootageDir() != filepath.Join(dir, "footage") {
		t.Fatalf("unexpected paths: %s %s", p.VoiceoverPath(), p.FootageDir())
	}
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	if _, err := project.Load(root, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := project.Load(root, "../escape"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	bad := filepath.Join(root, "bad")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, project.StateFile), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := project.Load(root, "bad"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad JSON, got %v", err)
	}

	empty := filepath.Join(root, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	p, err := project.Load(root, "empty")
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if p.State.ID != "empty" || len(p.State.FootageClips) != 0 || p.Script() != "" {
		t.Fatalf("unexpected empty project: %+v", p.State)
	}
}

func TestFileSinkRoundTrip(t *testing.T) {
	root := t.TempDir()
	sink := project.FileSink{ProjectsDir: root}
	entries := []timeline.Entry{
		{ClipFilename: "a.mp4", Start: 0, End: 2.5, Keyword: "x"},
		{ClipFilename: "b.mp4", Start: 2.5, End: 5, Keyword: "y"},
	}
	if err := sink.ReplaceTimeline(context.Background(), "p1", entries); err != nil {
		t.Fatalf("ReplaceTimeline: %v", err)
	}
	got, err := project.ReadTimeline(filepath.Join(root, "p1", project.TimelineFile))
	if err != nil {
		t.Fatalf("ReadTimeline: %v", err)
	}
	if !slices.Equal(got, entries) {
		t.Fatalf("timeline = %+v, want %+v", got, entries)
	}
	if err := sink.ReplaceTimeline(context.Background(), "../x", entries); err == nil {
		t.Fatal("expected invalid id to be rejected")
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteJSON(t, filepath.Join(root, "b", project.StateFile), project.State{ID: "b"})
	testsupport.WriteJSON(t, filepath.Join(root, "a", project.StateFile), project.State{ID: "a"})
	if err := os.MkdirAll(filepath.Join(root, "no-state"), 0o755); err != nil {
		t.Fatal(err)
	}
	ids, err := project.List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("ids = %v", ids)
	}
	if ids, err := project.List(filepath.Join(root, "nope")); err != nil || ids != nil {
		t.Fatalf("List(missing) = %v, %v", ids, err)
	}
}
