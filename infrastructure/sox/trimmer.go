package sox

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"separate-songs/domain/audio"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec.
// The tool writes straight to the program's own stdout and stderr.
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// DefaultSoxPath is the executable looked up in PATH when none is configured
const DefaultSoxPath = "sox"

// Trimmer implements audio.Trimmer using sox
type Trimmer struct {
	soxPath string
	runner  CommandRunner
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithSoxPath sets a custom sox executable path
func WithSoxPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		if path != "" {
			t.soxPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// NewTrimmer creates a new sox-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		soxPath: DefaultSoxPath,
		runner:  &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Args returns the sox command line for a clip request, without the executable
func Args(req *audio.ClipRequest) []string {
	args := []string{
		req.SourcePath,
		req.OutputFilename(),
		"trim",
	}
	// "=" marks the end as an absolute position rather than a duration
	return append(args, req.TrimArgs()...)
}

// Trim implements audio.Trimmer
func (t *Trimmer) Trim(ctx context.Context, req *audio.ClipRequest) error {
	if err := t.runner.Run(ctx, t.soxPath, Args(req)...); err != nil {
		return fmt.Errorf("sox trim failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that sox is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.soxPath, "--version")
	if err != nil {
		return fmt.Errorf("sox not found or not executable: %w", err)
	}
	return nil
}

// Ensure Trimmer implements audio.Trimmer
var _ audio.Trimmer = (*Trimmer)(nil)
