package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// commandError wraps a subprocess failure. The captured combined output is
// attached only when the runner provided any; streamed runners already
// forwarded it to the log.
func commandError(tool string, output []byte, err error) error {
	if len(output) > 0 {
		return fmt.Errorf("%s failed: %w\nOutput: %s", tool, err, string(output))
	}
	return fmt.Errorf("%s failed: %w", tool, err)
}

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner by capturing combined output
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// StreamedCommandRunner implements CommandRunner by forwarding the
// subprocess's combined output line by line to the logger as it appears.
// Long-running tools like whisper print progress this way instead of
// going silent for minutes.
type StreamedCommandRunner struct {
	Logger *slog.Logger
}

func (r *StreamedCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	display := name + " " + strings.Join(args, " ")
	r.Logger.Debug("executing", "command", display)

	cmd := exec.CommandContext(ctx, name, args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				r.Logger.Info(line)
			}
		}
	}()

	err := cmd.Wait()
	pw.Close()
	<-done
	return nil, err
}
