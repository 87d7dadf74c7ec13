package render

import (
	"strconv"

	"clipforge/internal/config"
)

// SoftwareEncoder is used when no hardware encoder passes the probe.
const SoftwareEncoder = "libx264"

const (
	previewBitrate      = "3000k"
	defaultFinalBitrate = "8000k"
	defaultAudioCodec   = "aac"
	defaultAudioBitrate = "192k"
)

// Params returns the codec arguments for a tier and encoder. Audio settings
// do not depend on the video encoder.
func Params(tier Tier, encoder string, r config.Render, fps int) []string {
	if encoder == "" {
		encoder = SoftwareEncoder
	}
	bitrate := orDefault(r.FinalBitrate, defaultFinalBitrate)
	args := []string{"-c:v", encoder}
	args = append(args, videoParams(tier, encoder, bitrate)...)
	args = append(args, "-pix_fmt", "yuv420p")
	if fps > 0 {
		args = append(args, "-r", strconv.Itoa(fps))
	}
	args = append(args,
		"-c:a", orDefault(r.AudioCodec, defaultAudioCodec),
		"-b:a", orDefault(r.AudioBitrate, defaultAudioBitrate),
	)
	if r.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(r.Threads))
	}
	return append(args, "-movflags", "+faststart")
}

func videoParams(tier Tier, encoder, bitrate string) []string {
	final := tier == TierFinal
	switch encoder {
	case "h264_nvenc":
		if final {
			return []string{"-preset", "p6", "-rc", "vbr", "-cq", "19", "-b:v", bitrate}
		}
		return []string{"-preset", "p1", "-cq", "30"}
	case "h264_qsv":
		if final {
			return []string{"-preset", "slow", "-global_quality", "20", "-b:v", bitrate}
		}
		return []string{"-preset", "veryfast", "-global_quality", "30"}
	case "h264_videotoolbox":
		if final {
			return []string{"-b:v", bitrate}
		}
		return []string{"-realtime", "1", "-b:v", previewBitrate}
	default:
		if final {
			return []string{"-preset", "medium", "-b:v", bitrate}
		}
		return []string{"-preset", "ultrafast", "-crf", "28"}
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
