package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsDir  string `toml:"projects_dir"`
	AssetsDir    string `toml:"assets_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
	WorkDir      string `toml:"work_dir"`
}

// Video contains output frame geometry.
type Video struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	FPS         int    `toml:"fps"`
	FillerColor string `toml:"filler_color"`
}

// Captions contains caption styling and grouping settings.
type Captions struct {
	Enabled          bool    `toml:"enabled"`
	Style            string  `toml:"style"`
	Font             string  `toml:"font"`
	FontSize         int     `toml:"font_size"`
	Color            string  `toml:"color"`
	StrokeColor      string  `toml:"stroke_color"`
	StrokeWidth      int     `toml:"stroke_width"`
	MaxWords         int     `toml:"max_words"`
	HorizontalMargin int     `toml:"horizontal_margin"`
	LineSpacing      float64 `toml:"line_spacing"`
}

// HookText contains settings for the opening hook overlay.
type HookText struct {
	Enabled     bool    `toml:"enabled"`
	Font        string  `toml:"font"`
	FontSize    int     `toml:"font_size"`
	Color       string  `toml:"color"`
	StrokeColor string  `toml:"stroke_color"`
	StrokeWidth int     `toml:"stroke_width"`
	Duration    float64 `toml:"duration"`
	Position    string  `toml:"position"`
	Uppercase   bool    `toml:"uppercase"`
	Fade        float64 `toml:"fade"`
}

// Music contains background music settings.
type Music struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
	FadeIn  float64 `toml:"fade_in"`
	FadeOut float64 `toml:"fade_out"`
	Mood    string  `toml:"mood"`
}

// Render contains encoder settings.
type Render struct {
	FFmpegBinary         string   `toml:"ffmpeg_binary"`
	FFprobeBinary        string   `toml:"ffprobe_binary"`
	Threads              int      `toml:"threads"`
	HardwareAcceleration string   `toml:"hardware_acceleration"`
	Encoders             []string `toml:"encoders"`
	AudioCodec           string   `toml:"audio_codec"`
	AudioBitrate         string   `toml:"audio_bitrate"`
	FinalBitrate         string   `toml:"final_bitrate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for clipforge.
//
// Configuration sections by subsystem:
//   - Paths: project, asset, log, database and scratch directories
//   - Video: output frame geometry and filler colour
//   - Captions: caption style, font and grouping
//   - HookText: opening hook overlay
//   - Music: background music mixing
//   - Render: ffmpeg binaries and encoder selection
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Video    Video    `toml:"video"`
	Captions Captions `toml:"captions"`
	HookText HookText `toml:"hook_text"`
	Music    Music    `toml:"music"`
	Render   Render   `toml:"render"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a render writes into. The
// projects and assets directories belong to upstream collaborators and are
// never created here.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.WorkDir}
	if strings.TrimSpace(c.Paths.DatabasePath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.DatabasePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for encoding.
func (c *Config) FFmpegBinary() string {
	if c == nil || strings.TrimSpace(c.Render.FFmpegBinary) == "" {
		return defaultFFmpegBinary
	}
	return c.Render.FFmpegBinary
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if c == nil || strings.TrimSpace(c.Render.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return c.Render.FFprobeBinary
}

// MusicDir returns the directory holding mood-named music folders.
func (c *Config) MusicDir() string {
	return filepath.Join(c.Paths.AssetsDir, "music")
}

// ProjectDir returns the directory for the named project.
func (c *Config) ProjectDir(project string) string {
	return filepath.Join(c.Paths.ProjectsDir, project)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultWorkDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "clipforge", "work")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/clipforge/work"
	}
	return filepath.Join(home, ".cache", "clipforge", "work")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}
