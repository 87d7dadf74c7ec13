package config

const (
	defaultProjectsDir          = "~/.local/share/clipforge/projects"
	defaultAssetsDir            = "~/.local/share/clipforge/assets"
	defaultLogDir               = "~/.local/share/clipforge/logs"
	defaultDatabasePath         = "~/.local/share/clipforge/clipforge.db"
	defaultLogRetentionDays     = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultWidth                = 1080
	defaultHeight               = 1920
	defaultFPS                  = 30
	defaultFillerColor          = "black"
	defaultCaptionStyle         = CaptionStyleSentence
	defaultCaptionFont          = "Arial:style=Bold"
	defaultCaptionFontSize      = 60
	defaultCaptionColor         = "#FFFFFF"
	defaultCaptionStrokeColor   = "#000000"
	defaultCaptionStrokeWidth   = 3
	defaultCaptionMaxWords      = 4
	defaultCaptionMargin        = 300
	defaultCaptionLineSpacing   = 1.5
	defaultHookFontSize         = 90
	defaultHookStrokeWidth      = 4
	defaultHookDuration         = 3.0
	defaultHookPosition         = HookPositionTopCenter
	defaultHookFade             = 0.3
	defaultMusicVolume          = 0.15
	defaultMusicFadeIn          = 1.0
	defaultMusicFadeOut         = 2.0
	defaultMusicMood            = "calm"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultRenderThreads        = 4
	defaultHardwareAcceleration = HardwareAccelerationAuto
	defaultAudioCodec           = "aac"
	defaultAudioBitrate         = "192k"
	defaultFinalBitrate         = "8000k"
)

// Recognised enumerations.
const (
	CaptionStyleSentence   = "sentence"
	CaptionStyleWordByWord = "word_by_word"

	HookPositionTopCenter = "top_center"
	HookPositionCenter    = "center"

	HardwareAccelerationAuto = "auto"
	HardwareAccelerationOff  = "off"
)

// DefaultEncoders lists hardware encoders in probe preference order.
var DefaultEncoders = []string{"h264_nvenc", "h264_qsv", "h264_videotoolbox"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir:  defaultProjectsDir,
			AssetsDir:    defaultAssetsDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
			WorkDir:      defaultWorkDir(),
		},
		Video: Video{
			Width:       defaultWidth,
			Height:      defaultHeight,
			FPS:         defaultFPS,
			FillerColor: defaultFillerColor,
		},
		Captions: Captions{
			Enabled:          true,
			Style:            defaultCaptionStyle,
			Font:             defaultCaptionFont,
			FontSize:         defaultCaptionFontSize,
			Color:            defaultCaptionColor,
			StrokeColor:      defaultCaptionStrokeColor,
			StrokeWidth:      defaultCaptionStrokeWidth,
			MaxWords:         defaultCaptionMaxWords,
			HorizontalMargin: defaultCaptionMargin,
			LineSpacing:      defaultCaptionLineSpacing,
		},
		HookText: HookText{
			Enabled:     true,
			FontSize:    defaultHookFontSize,
			Color:       defaultCaptionColor,
			StrokeColor: defaultCaptionStrokeColor,
			StrokeWidth: defaultHookStrokeWidth,
			Duration:    defaultHookDuration,
			Position:    defaultHookPosition,
			Uppercase:   false,
			Fade:        defaultHookFade,
		},
		Music: Music{
			Enabled: true,
			Volume:  defaultMusicVolume,
			FadeIn:  defaultMusicFadeIn,
			FadeOut: defaultMusicFadeOut,
			Mood:    defaultMusicMood,
		},
		Render: Render{
			Threads:              defaultRenderThreads,
			HardwareAcceleration: defaultHardwareAcceleration,
			Encoders:             append([]string(nil), DefaultEncoders...),
			AudioCodec:           defaultAudioCodec,
			AudioBitrate:         defaultAudioBitrate,
			FinalBitrate:         defaultFinalBitrate,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
