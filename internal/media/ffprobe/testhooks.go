package ffprobe

import (
	"context"
	"os/exec"
)

// SetCommandForTests swaps the command constructor used by Inspect and
// returns a restore func.
func SetCommandForTests(fn func(ctx context.Context, name string, args ...string) *exec.Cmd) func() {
	prev := commandContext
	if fn == nil {
		commandContext = exec.CommandContext
	} else {
		commandContext = fn
	}
	return func() { commandContext = prev }
}
