package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipforge/internal/fileutil"
	"clipforge/internal/services"
	"clipforge/internal/timeline"
)

// File names inside a project directory.
const (
	StateFile     = "project.json"
	ScriptFile    = "script.txt"
	VoiceoverFile = "voiceover.mp3"
	FootageDir    = "footage"
	TimelineFile  = "timeline.json"
)

// State is the subset of project.json the assembler reads. Unknown fields
// written by upstream tools are ignored.
type State struct {
	ID           string                 `json:"id"`
	Topic        string                 `json:"topic,omitempty"`
	Script       string                 `json:"script,omitempty"`
	HookText     string                 `json:"hook_text,omitempty"`
	MusicTrack   string                 `json:"music_track,omitempty"`
	MusicMood    string                 `json:"music_mood,omitempty"`
	Duration     float64                `json:"duration,omitempty"`
	FootageClips []timeline.FootageClip `json:"footage_clips"`
}

// Project is a loaded project directory.
type Project struct {
	ID    string
	Dir   string
	State State
}

// ValidateID rejects identifiers that would escape the projects directory.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return errors.New("project id is empty")
	case id == "." || id == "..":
		return fmt.Errorf("invalid project id %q", id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("project id %q must not contain path separators", id)
	}
	return nil
}

// Load reads <projectsDir>/<id>/project.json. A missing directory is
// reported as services.ErrNotFound; a directory without project.json loads
// with an empty state.
func Load(projectsDir, id string) (*Project, error) {
	id = strings.TrimSpace(id)
	if err := ValidateID(id); err != nil {
		return nil, services.Wrap(services.ErrValidation, "project", "load", "Invalid project id", err)
	}
	dir := filepath.Join(projectsDir, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", dir)
		}
		return nil, services.Wrap(services.ErrNotFound, "project", "load", fmt.Sprintf("Project %q not found", id), err)
	}

	p := &Project{ID: id, Dir: dir, State: State{ID: id}}
	data, err := os.ReadFile(filepath.Join(dir, StateFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return p, nil
	case err != nil:
		return nil, services.Wrap(services.ErrConfiguration, "project", "read state", "Failed to read project.json", err)
	}
	if err := json.Unmarshal(data, &p.State); err != nil {
		return nil, services.Wrap(services.ErrValidation, "project", "parse state", "project.json is not valid JSON", err)
	}
	if p.State.ID == "" {
		p.State.ID = id
	}
	return p, nil
}

// List returns the ids of every directory under projectsDir that holds a
// project.json, sorted by name.
func List(projectsDir string) ([]string, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(projectsDir, entry.Name(), StateFile)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// Script returns script.txt when present, otherwise the script stored in
// project.json.
func (p *Project) Script() string {
	if data, err := os.ReadFile(filepath.Join(p.Dir, ScriptFile)); err == nil {
		if script := strings.TrimSpace(string(data)); script != "" {
			return script
		}
	}
	return strings.TrimSpace(p.State.Script)
}

func (p *Project) VoiceoverPath() string { return filepath.Join(p.Dir, VoiceoverFile) }

func (p *Project) FootageDir() string { return filepath.Join(p.Dir, FootageDir) }

func (p *Project) TimelinePath() string { return filepath.Join(p.Dir, TimelineFile) }

// OutputPath returns the rendered file for name, e.g. "preview.mp4".
func (p *Project) OutputPath(name string) string { return filepath.Join(p.Dir, name) }

// MusicTrack resolves the explicit music_track setting. Relative paths are
// taken relative to the project directory.
func (p *Project) MusicTrack() string {
	track := strings.TrimSpace(p.State.MusicTrack)
	if track == "" || filepath.IsAbs(track) {
		return track
	}
	return filepath.Join(p.Dir, track)
}

// FileSink writes each project's timeline to <projectsDir>/<id>/timeline.json
// for inspection tooling.
type FileSink struct {
	ProjectsDir string
}

var _ timeline.Sink = FileSink{}

// ReplaceTimeline overwrites timeline.json atomically.
func (s FileSink) ReplaceTimeline(_ context.Context, projectID string, entries []timeline.Entry) error {
	if err := ValidateID(projectID); err != nil {
		return err
	}
	if entries == nil {
		entries = []timeline.Entry{}
	}
	path := filepath.Join(s.ProjectsDir, projectID, TimelineFile)
	if err := fileutil.WriteJSONAtomic(path, entries); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTimeline loads a timeline.json written by FileSink.
func ReadTimeline(path string) ([]timeline.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []timeline.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}
