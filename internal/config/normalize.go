package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVideo()
	c.normalizeCaptions()
	c.normalizeHookText()
	c.normalizeMusic()
	c.normalizeRender()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVideo() {
	c.Video.FillerColor = strings.TrimSpace(c.Video.FillerColor)
	if c.Video.FillerColor == "" {
		c.Video.FillerColor = defaultFillerColor
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.Style = strings.ToLower(strings.TrimSpace(c.Captions.Style))
	switch c.Captions.Style {
	case "":
		c.Captions.Style = defaultCaptionStyle
	case "word-by-word", "word":
		c.Captions.Style = CaptionStyleWordByWord
	}
	c.Captions.Font = c.resolveFont(c.Captions.Font, defaultCaptionFont)
	c.Captions.Color = strings.TrimSpace(c.Captions.Color)
	c.Captions.StrokeColor = strings.TrimSpace(c.Captions.StrokeColor)
	if c.Captions.LineSpacing <= 0 {
		c.Captions.LineSpacing = defaultCaptionLineSpacing
	}
}

func (c *Config) normalizeHookText() {
	c.HookText.Font = c.resolveFont(c.HookText.Font, c.Captions.Font)
	c.HookText.Position = strings.ToLower(strings.TrimSpace(c.HookText.Position))
	if c.HookText.Position == "" {
		c.HookText.Position = defaultHookPosition
	}
	c.HookText.Color = strings.TrimSpace(c.HookText.Color)
	if c.HookText.Color == "" {
		c.HookText.Color = defaultCaptionColor
	}
	c.HookText.StrokeColor = strings.TrimSpace(c.HookText.StrokeColor)
	if c.HookText.StrokeColor == "" {
		c.HookText.StrokeColor = defaultCaptionStrokeColor
	}
}

func (c *Config) normalizeMusic() {
	c.Music.Mood = strings.ToLower(strings.TrimSpace(c.Music.Mood))
	if c.Music.Mood == "" {
		c.Music.Mood = defaultMusicMood
	}
}

func (c *Config) normalizeRender() {
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		if value, ok := os.LookupEnv("CLIPFORGE_FFMPEG"); ok {
			c.Render.FFmpegBinary = strings.TrimSpace(value)
		}
	}
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("CLIPFORGE_FFPROBE"); ok {
			c.Render.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}

	c.Render.HardwareAcceleration = strings.ToLower(strings.TrimSpace(c.Render.HardwareAcceleration))
	switch c.Render.HardwareAcceleration {
	case "":
		c.Render.HardwareAcceleration = defaultHardwareAcceleration
	case "none", "false", "disabled":
		c.Render.HardwareAcceleration = HardwareAccelerationOff
	}

	encoders := make([]string, 0, len(c.Render.Encoders))
	seen := make(map[string]struct{}, len(c.Render.Encoders))
	for _, enc := range c.Render.Encoders {
		normalized := strings.ToLower(strings.TrimSpace(enc))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		encoders = append(encoders, normalized)
	}
	c.Render.Encoders = encoders

	c.Render.AudioCodec = strings.TrimSpace(c.Render.AudioCodec)
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	c.Render.AudioBitrate = strings.TrimSpace(c.Render.AudioBitrate)
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = defaultAudioBitrate
	}
	c.Render.FinalBitrate = strings.TrimSpace(c.Render.FinalBitrate)
	if c.Render.FinalBitrate == "" {
		c.Render.FinalBitrate = defaultFinalBitrate
	}
	if c.Render.Threads < 0 {
		c.Render.Threads = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// resolveFont keeps fontconfig names as-is and resolves bare font file names
// against <assets_dir>/fonts.
func (c *Config) resolveFont(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if !IsFontFile(value) {
		return value
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) || strings.ContainsRune(value, filepath.Separator) {
		if expanded, err := expandPath(value); err == nil {
			return expanded
		}
		return value
	}
	return filepath.Join(c.Paths.AssetsDir, "fonts", value)
}

// IsFontFile reports whether value names a font file rather than a fontconfig
// pattern.
func IsFontFile(value string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(value))) {
	case ".ttf", ".otf", ".ttc":
		return true
	default:
		return false
	}
}
