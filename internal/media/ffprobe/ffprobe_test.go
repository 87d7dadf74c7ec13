package ffprobe

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 1920, Height: 1080, AvgFrameRate: "30000/1001"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 || !result.HasAudio() {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if w, h := result.Dimensions(); w != 1920 || h != 1080 {
		t.Fatalf("unexpected dimensions: %dx%d", w, h)
	}
	video, _ := result.VideoStream()
	if math.Abs(video.FrameRate()-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate: %v", video.FrameRate())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestDimensionsHonourRotation(t *testing.T) {
	tagged := Result{Streams: []Stream{{CodecType: "video", Width: 1920, Height: 1080, Tags: map[string]string{"rotate": "90"}}}}
	if w, h := tagged.Dimensions(); w != 1080 || h != 1920 {
		t.Fatalf("expected rotated dimensions, got %dx%d", w, h)
	}
	matrix := Result{Streams: []Stream{{CodecType: "video", Width: 1280, Height: 720, SideData: []SideData{{Type: "Display Matrix", Rotation: -90}}}}}
	if w, h := matrix.Dimensions(); w != 720 || h != 1280 {
		t.Fatalf("expected rotated dimensions, got %dx%d", w, h)
	}
	flipped := Result{Streams: []Stream{{CodecType: "video", Width: 1280, Height: 720, Tags: map[string]string{"rotate": "180"}}}}
	if w, h := flipped.Dimensions(); w != 1280 || h != 720 {
		t.Fatalf("180 degree rotation should not swap axes, got %dx%d", w, h)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Duration: "4.5"}, {CodecType: "audio", Duration: "4.62"}},
		Format:  Format{Duration: "N/A"},
	}
	if result.DurationSeconds() != 4.62 {
		t.Fatalf("expected stream fallback 4.62, got %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestInspectDecodesHelperOutput(t *testing.T) {
	restore := SetCommandForTests(helperCommand("ok"))
	defer restore()

	result, err := Inspect(context.Background(), "ffprobe", "/clips/a.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if w, h := result.Dimensions(); w != 640 || h != 360 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw json retained")
	}
}

func TestInspectReportsFailure(t *testing.T) {
	restore := SetCommandForTests(helperCommand("fail"))
	defer restore()

	_, err := Inspect(context.Background(), "ffprobe", "/clips/broken.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func helperCommand(mode string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", mode}
		cs = append(cs, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	switch args[0] {
	case "ok":
		fmt.Fprint(os.Stdout, `{"streams":[{"index":0,"codec_type":"video","width":640,"height":360,"avg_frame_rate":"25/1"}],"format":{"duration":"2.500000"}}`)
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, "moov atom not found")
		os.Exit(1)
	}
}
