package audiomix

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMood is used when a project names no mood.
const DefaultMood = "calm"

// ResolveTrack picks the music file for a project. An explicit track wins when
// it exists. Otherwise a random *.mp3 or *.wav is drawn from musicDir/<mood>,
// falling back to the first mood directory present. An empty result means
// there is nothing to mix.
func ResolveTrack(musicDir, explicit, mood string, rng *rand.Rand) string {
	if explicit != "" {
		if info, err := os.Stat(explicit); err == nil && !info.IsDir() {
			return explicit
		}
	}
	if musicDir == "" {
		return ""
	}
	mood = strings.TrimSpace(mood)
	if mood == "" {
		mood = DefaultMood
	}

	dir := filepath.Join(musicDir, mood)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = firstSubdir(musicDir)
		if dir == "" {
			return ""
		}
	}

	tracks := musicFiles(dir)
	if len(tracks) == 0 {
		return ""
	}
	if rng == nil {
		return tracks[rand.IntN(len(tracks))]
	}
	return tracks[rng.IntN(len(tracks))]
}

func firstSubdir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

func musicFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mp3", ".wav":
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(out)
	return out
}
