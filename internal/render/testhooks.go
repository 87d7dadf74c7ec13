package render

import (
	"context"
	"os/exec"
)

// SetCommandForTests overrides the command constructor used to run ffmpeg.
func SetCommandForTests(fn func(ctx context.Context, name string, args ...string) *exec.Cmd) func() {
	previous := commandContext
	commandContext = fn
	return func() {
		commandContext = previous
	}
}
