package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clipforge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantProjects := filepath.Join(tempHome, ".local", "share", "clipforge", "projects")
	if cfg.Paths.ProjectsDir != wantProjects {
		t.Fatalf("unexpected projects dir: got %q want %q", cfg.Paths.ProjectsDir, wantProjects)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, ".cache", "clipforge", "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 || cfg.Video.FPS != 30 {
		t.Fatalf("unexpected geometry: %+v", cfg.Video)
	}
	if cfg.Captions.Style != config.CaptionStyleSentence {
		t.Fatalf("expected sentence captions by default, got %q", cfg.Captions.Style)
	}
	if cfg.Captions.MaxWords != 4 {
		t.Fatalf("expected max words 4, got %d", cfg.Captions.MaxWords)
	}
	if cfg.HookText.Font != cfg.Captions.Font {
		t.Fatalf("expected hook font to fall back to caption font, got %q", cfg.HookText.Font)
	}
	if cfg.Music.Volume != 0.15 || cfg.Music.FadeIn != 1.0 || cfg.Music.FadeOut != 2.0 {
		t.Fatalf("unexpected music defaults: %+v", cfg.Music)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if len(cfg.Render.Encoders) != len(config.DefaultEncoders) {
		t.Fatalf("unexpected encoders: %v", cfg.Render.Encoders)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.WorkDir, filepath.Dir(cfg.Paths.DatabasePath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.ProjectsDir); err == nil {
		t.Fatal("projects dir belongs to upstream collaborators and should not be created")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clipforge.toml")

	type payload struct {
		Paths struct {
			AssetsDir string `toml:"assets_dir"`
		} `toml:"paths"`
		Video struct {
			Width  int `toml:"width"`
			Height int `toml:"height"`
		} `toml:"video"`
		Captions struct {
			Style string `toml:"style"`
			Font  string `toml:"font"`
		} `toml:"captions"`
		Render struct {
			Encoders []string `toml:"encoders"`
		} `toml:"render"`
	}
	custom := payload{}
	custom.Paths.AssetsDir = filepath.Join(tempDir, "assets")
	custom.Video.Width = 720
	custom.Video.Height = 1280
	custom.Captions.Style = " Word-By-Word "
	custom.Captions.Font = "Montserrat-Bold.ttf"
	custom.Render.Encoders = []string{"H264_QSV", "", "h264_qsv", "h264_nvenc"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Video.Width != 720 || cfg.Video.Height != 1280 {
		t.Fatalf("unexpected geometry: %+v", cfg.Video)
	}
	if cfg.Captions.Style != config.CaptionStyleWordByWord {
		t.Fatalf("expected word_by_word style, got %q", cfg.Captions.Style)
	}
	wantFont := filepath.Join(tempDir, "assets", "fonts", "Montserrat-Bold.ttf")
	if cfg.Captions.Font != wantFont {
		t.Fatalf("expected font resolved under assets, got %q", cfg.Captions.Font)
	}
	if strings.Join(cfg.Render.Encoders, ",") != "h264_qsv,h264_nvenc" {
		t.Fatalf("unexpected encoders: %v", cfg.Render.Encoders)
	}
	if cfg.MusicDir() != filepath.Join(tempDir, "assets", "music") {
		t.Fatalf("unexpected music dir: %q", cfg.MusicDir())
	}
}

func TestEnvVarFallbackForBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLIPFORGE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("CLIPFORGE_FFPROBE", " /opt/ffmpeg/bin/ffprobe ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg from env, got %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("expected ffprobe from env, got %q", cfg.FFprobeBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"odd width", func(c *config.Config) { c.Video.Width = 1081 }, "even"},
		{"zero fps", func(c *config.Config) { c.Video.FPS = 0 }, "video.fps"},
		{"unknown style", func(c *config.Config) { c.Captions.Style = "karaoke" }, "captions.style"},
		{"zero max words", func(c *config.Config) { c.Captions.MaxWords = 0 }, "captions.max_words"},
		{"margin too wide", func(c *config.Config) { c.Captions.HorizontalMargin = 2000 }, "horizontal_margin"},
		{"negative hook duration", func(c *config.Config) { c.HookText.Duration = -1 }, "hook_text.duration"},
		{"negative volume", func(c *config.Config) { c.Music.Volume = -0.5 }, "music.volume"},
		{"bad hwaccel", func(c *config.Config) { c.Render.HardwareAcceleration = "cuda" }, "hardware_acceleration"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q in %q", tc.name, tc.want, err.Error())
		}
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Captions.FontSize != 60 || cfg.HookText.FontSize != 90 {
		t.Fatalf("unexpected sample font sizes: %d %d", cfg.Captions.FontSize, cfg.HookText.FontSize)
	}
}

func TestIsFontFile(t *testing.T) {
	if !config.IsFontFile("arialbd.ttf") || !config.IsFontFile("/x/Font.OTF") {
		t.Fatal("expected font files to be recognised")
	}
	if config.IsFontFile("Arial:style=Bold") {
		t.Fatal("fontconfig pattern should not be treated as a file")
	}
}
