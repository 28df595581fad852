// Package opener hands URLs, tel: and mailto: links to the operating system.
package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Opener opens a link outside the terminal.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// System runs the platform opener (xdg-open, open, or rundll32).
type System struct {
	logger *zap.Logger
	// command builds the process; replaced in tests.
	command func(ctx context.Context, target string) *exec.Cmd
}

// NewSystem creates an opener for the current OS.
func NewSystem(logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{logger: logger, command: platformCommand}
}

func platformCommand(ctx context.Context, target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", target)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.CommandContext(ctx, "xdg-open", target)
	}
}

// Open starts the opener and does not wait for it to exit.
func (s *System) Open(ctx context.Context, target string) error {
	cmd := s.command(ctx, target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	s.logger.Debug("opened link", zap.String("target", target))
	go func() { _ = cmd.Wait() }()
	return nil
}

// Recorder captures opened targets instead of launching anything.
type Recorder struct {
	Opened []string
}

func (r *Recorder) Open(_ context.Context, target string) error {
	r.Opened = append(r.Opened, target)
	return nil
}
