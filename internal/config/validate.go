package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateHookText(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		return errors.New("paths.projects_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := ensurePositiveMap(map[string]int{
		"video.width":  c.Video.Width,
		"video.height": c.Video.Height,
		"video.fps":    c.Video.FPS,
	}); err != nil {
		return err
	}
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return errors.New("video.width and video.height must be even for yuv420p output")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	switch c.Captions.Style {
	case CaptionStyleSentence, CaptionStyleWordByWord:
	default:
		return fmt.Errorf("captions.style must be %q or %q, got %q", CaptionStyleSentence, CaptionStyleWordByWord, c.Captions.Style)
	}
	if err := ensurePositiveMap(map[string]int{
		"captions.font_size": c.Captions.FontSize,
		"captions.max_words": c.Captions.MaxWords,
	}); err != nil {
		return err
	}
	if c.Captions.StrokeWidth < 0 {
		return errors.New("captions.stroke_width must not be negative")
	}
	if c.Captions.HorizontalMargin < 0 || c.Captions.HorizontalMargin >= c.Video.Width {
		return errors.New("captions.horizontal_margin must be between 0 and video.width")
	}
	if c.Captions.Enabled && strings.TrimSpace(c.Captions.Font) == "" {
		return errors.New("captions.font must be set when captions.enabled is true")
	}
	return nil
}

func (c *Config) validateHookText() error {
	if !c.HookText.Enabled {
		return nil
	}
	if c.HookText.FontSize <= 0 {
		return errors.New("hook_text.font_size must be positive")
	}
	if c.HookText.Duration < 0 {
		return errors.New("hook_text.duration must not be negative")
	}
	if c.HookText.Fade < 0 {
		return errors.New("hook_text.fade must not be negative")
	}
	if c.HookText.StrokeWidth < 0 {
		return errors.New("hook_text.stroke_width must not be negative")
	}
	return nil
}

func (c *Config) validateMusic() error {
	if c.Music.Volume < 0 {
		return errors.New("music.volume must not be negative")
	}
	if c.Music.FadeIn < 0 || c.Music.FadeOut < 0 {
		return errors.New("music.fade_in and music.fade_out must not be negative")
	}
	return nil
}

func (c *Config) validateRender() error {
	switch c.Render.HardwareAcceleration {
	case HardwareAccelerationAuto, HardwareAccelerationOff:
	default:
		return fmt.Errorf("render.hardware_acceleration must be %q or %q, got %q", HardwareAccelerationAuto, HardwareAccelerationOff, c.Render.HardwareAcceleration)
	}
	if c.Render.Threads > 64 {
		return errors.New("render.threads must be 64 or fewer")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
