package preflight

import (
	"clipforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks a render depends on. Optional inputs
// are only checked when the feature that reads them is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Projects directory", cfg.Paths.ProjectsDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.Music.Enabled {
		results = append(results, CheckReadableDir("Music library", cfg.MusicDir()))
	}
	if cfg.Captions.Enabled && config.IsFontFile(cfg.Captions.Font) {
		results = append(results, CheckReadableFile("Caption font", cfg.Captions.Font))
	}
	if cfg.HookText.Enabled && config.IsFontFile(cfg.HookText.Font) && cfg.HookText.Font != cfg.Captions.Font {
		results = append(results, CheckReadableFile("Hook font", cfg.HookText.Font))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
