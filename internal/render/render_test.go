package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media/clip"
	"clipforge/internal/media/ffgraph"
	"clipforge/internal/services"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

func (r *recorder) count(match string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if slices.Contains(call, match) {
			n++
		}
	}
	return n
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func install(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	restore := SetCommandForTests(rec.command)
	t.Cleanup(restore)
	return rec
}

func TestEncoderProbeRunsOnce(t *testing.T) {
	rec := install(t)
	t.Setenv("HELPER_WORKING_ENCODERS", "h264_qsv")
	probe := NewEncoderProbe("ffmpeg", config.Default().Render, logging.NewNop())

	ctx := context.Background()
	if got := probe.Encoder(ctx); got != "h264_qsv" {
		t.Fatalf("encoder = %q, want h264_qsv", got)
	}
	if got := probe.Encoder(ctx); got != "h264_qsv" {
		t.Fatalf("second encoder = %q, want h264_qsv", got)
	}
	if n := rec.count("-encoders"); n != 1 {
		t.Fatalf("encoder listing ran %d times, want 1", n)
	}
	if n := rec.count("lavfi"); n != 2 {
		t.Fatalf("test encodes ran %d times, want 2 (nvenc then qsv)", n)
	}

	statuses := probe.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %+v", statuses)
	}
	if statuses[0].Working || !statuses[0].Listed || statuses[0].Detail == "" {
		t.Fatalf("unexpected nvenc status: %+v", statuses[0])
	}
	if !statuses[1].Working {
		t.Fatalf("expected qsv to work: %+v", statuses[1])
	}
	if statuses[2].Listed {
		t.Fatalf("videotoolbox should not be listed: %+v", statuses[2])
	}

	probe.Invalidate()
	probe.Encoder(ctx)
	if n := rec.count("-encoders"); n != 2 {
		t.Fatalf("expected a fresh probe after Invalidate, listing ran %d times", n)
	}
}

func TestEncoderProbeConcurrentFirstCall(t *testing.T) {
	rec := install(t)
	t.Setenv("HELPER_WORKING_ENCODERS", "h264_nvenc")
	probe := NewEncoderProbe("ffmpeg", config.Default().Render, logging.NewNop())

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = probe.Encoder(context.Background())
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		if got != "h264_nvenc" {
			t.Fatalf("unexpected encoder %q", got)
		}
	}
	if n := rec.count("-encoders"); n != 1 {
		t.Fatalf("encoder listing ran %d times, want 1", n)
	}
}

func TestEncoderProbeFallsBackToSoftware(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rec := install(t)
		r := config.Default().Render
		r.HardwareAcceleration = config.HardwareAccelerationOff
		if got := NewEncoderProbe("ffmpeg", r, logging.NewNop()).Encoder(context.Background()); got != SoftwareEncoder {
			t.Fatalf("encoder = %q", got)
		}
		if len(rec.calls) != 0 {
			t.Fatalf("expected no commands, got %v", rec.calls)
		}
	})
	t.Run("nothing works", func(t *testing.T) {
		install(t)
		t.Setenv("HELPER_WORKING_ENCODERS", "")
		if got := NewEncoderProbe("ffmpeg", config.Default().Render, logging.NewNop()).Encoder(context.Background()); got != SoftwareEncoder {
			t.Fatalf("encoder = %q", got)
		}
	})
	t.Run("listing fails", func(t *testing.T) {
		install(t)
		t.Setenv("HELPER_LISTING_FAIL", "1")
		if got := NewEncoderProbe("ffmpeg", config.Default().Render, logging.NewNop()).Encoder(context.Background()); got != SoftwareEncoder {
			t.Fatalf("encoder = %q", got)
		}
	})
}

func TestParamsPerTierAndEncoder(t *testing.T) {
	r := config.Default().Render
	cases := []struct {
		tier    Tier
		encoder string
		want    []string
		absent  []string
	}{
		{TierPreview, "libx264", []string{"-c:v libx264", "-preset ultrafast", "-crf 28"}, []string{"-b:v"}},
		{TierFinal, "libx264", []string{"-preset medium", "-b:v 8000k"}, []string{"-crf"}},
		{TierPreview, "h264_nvenc", []string{"-preset p1", "-cq 30"}, []string{"-b:v"}},
		{TierFinal, "h264_nvenc", []string{"-preset p6", "-rc vbr", "-cq 19", "-b:v 8000k"}, nil},
		{TierPreview, "h264_qsv", []string{"-preset veryfast", "-global_quality 30"}, nil},
		{TierFinal, "h264_qsv", []string{"-preset slow", "-global_quality 20", "-b:v 8000k"}, nil},
		{TierPreview, "h264_videotoolbox", []string{"-realtime 1"}, nil},
		{TierFinal, "h264_videotoolbox", []string{"-b:v 8000k"}, []string{"-realtime"}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s/%s", tc.tier, tc.encoder), func(t *testing.T) {
			joined := strings.Join(Params(tc.tier, tc.encoder, r, 30), " ")
			for _, want := range append(tc.want, "-c:a aac", "-b:a 192k", "-pix_fmt yuv420p", "-r 30", "-threads 4", "-movflags +faststart") {
				if !strings.Contains(joined, want) {
					t.Fatalf("params %q missing %q", joined, want)
				}
			}
			for _, absent := range tc.absent {
				if strings.Contains(joined, absent) {
					t.Fatalf("params %q unexpectedly contain %q", joined, absent)
				}
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	if tier, err := ParseTier(" Final "); err != nil || tier != TierFinal {
		t.Fatalf("ParseTier(Final) = %q, %v", tier, err)
	}
	if _, err := ParseTier("draft"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
	if TierPreview.OutputName() != "preview.mp4" {
		t.Fatalf("unexpected output name %q", TierPreview.OutputName())
	}
}

func testComposition() clip.Composition {
	backend := ffgraph.New(nil, 30, "")
	return clip.Composition{
		Video:    backend.Filler(1080, 1920, "black", 5),
		Width:    1080,
		Height:   1920,
		FPS:      30,
		Duration: 5,
	}
}

func testPipeline() *Pipeline {
	cfg := config.Default()
	cfg.Render.HardwareAcceleration = config.HardwareAccelerationOff
	return NewPipeline(&cfg, NewEncoderProbe(cfg.FFmpegBinary(), cfg.Render, logging.NewNop()), logging.NewNop())
}

func TestEncodeWritesOutput(t *testing.T) {
	rec := install(t)
	output := filepath.Join(t.TempDir(), "out", "preview.mp4")

	outcome, err := testPipeline().Encode(context.Background(), testComposition(), TierPreview, output)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if outcome.Encoder != SoftwareEncoder || outcome.Output != output {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if err := Verify(output); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if _, err := os.Stat(output + ".partial"); !os.IsNotExist(err) {
		t.Fatalf("expected partial file to be gone, stat err=%v", err)
	}
	args := strings.Join(rec.last(), " ")
	for _, want := range []string{"-filter_complex", "-map [vout]", "-t 5.000", "-progress pipe:1", "-preset ultrafast"} {
		if !strings.Contains(args, want) {
			t.Fatalf("ffmpeg args %q missing %q", args, want)
		}
	}
}

func TestEncodeFailureIsFatal(t *testing.T) {
	install(t)
	t.Setenv("HELPER_ENCODE_FAIL", "1")
	output := filepath.Join(t.TempDir(), "final.mp4")

	_, err := testPipeline().Encode(context.Background(), testComposition(), TierFinal, output)
	if err == nil {
		t.Fatal("expected encode failure")
	}
	if !errors.Is(err, services.ErrExternalTool) || !services.IsFatal(err) {
		t.Fatalf("expected fatal external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("expected ffmpeg stderr in error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err=%v", statErr)
	}
	if _, statErr := os.Stat(output + ".partial"); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial file removed, stat err=%v", statErr)
	}
}

func TestParseProgressLine(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"out_time_us=2500000", 2.5, true},
		{"out_time_ms=1000000", 1, true},
		{"out_time_us=N/A", 0, false},
		{"progress=continue", 0, false},
		{"garbage", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseProgressLine(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseProgressLine(%q) = %v, %v; want %v, %v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}

const helperEncoderList = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
 V..... h264_qsv             H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (Intel Quick Sync Video acceleration) (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

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
	switch {
	case slices.Contains(args, "-encoders"):
		if os.Getenv("HELPER_LISTING_FAIL") == "1" {
			fmt.Fprint(os.Stderr, "ffmpeg: not found")
			os.Exit(1)
		}
		fmt.Fprint(os.Stdout, helperEncoderList)
		os.Exit(0)
	case slices.Contains(args, "lavfi"):
		idx := slices.Index(args, "-c:v")
		working := strings.Split(os.Getenv("HELPER_WORKING_ENCODERS"), ",")
		if idx >= 0 && idx+1 < len(args) && slices.Contains(working, args[idx+1]) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Cannot load driver")
		os.Exit(1)
	case slices.Contains(args, "-progress"):
		if os.Getenv("HELPER_ENCODE_FAIL") == "1" {
			fmt.Fprintln(os.Stderr, "Error while filtering")
			fmt.Fprintln(os.Stderr, "Conversion failed!")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, "out_time_us=2500000")
		fmt.Fprintln(os.Stdout, "progress=continue")
		fmt.Fprintln(os.Stdout, "out_time_us=5000000")
		fmt.Fprintln(os.Stdout, "progress=end")
		output := args[len(args)-1]
		if err := os.WriteFile(output, []byte("mp4data"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "unexpected invocation: %v", args)
	os.Exit(2)
}
