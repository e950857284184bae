// Package execution runs generated and saved shell scripts and captures their outcome.
package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// Mode selects whether a run is shown to the user while it is captured.
type Mode int

const (
	// Silent captures output without passthrough.
	Silent Mode = iota
	// Tee shows output live and captures it at the same time.
	Tee
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	if m == Tee {
		return "tee"
	}
	return "silent"
}

// StartFailureCode is reported when the interpreter could not be started.
const StartFailureCode = 127

// TempPattern is the file name pattern of scripts written by RunCode.
const TempPattern = "wanna-*.sh"

// Runner executes scripts under a shell interpreter.
type Runner struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout sets where Tee mode copies standard output.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithStderr sets where Tee mode copies standard error.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) { r.stderr = w }
}

// WithStdin sets the standard input handed to scripts in Tee mode.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// NewRunner creates a runner for the given interpreter ("bash" when empty).
func NewRunner(shell string, opts ...Option) *Runner {
	if shell == "" {
		shell = "bash"
	}
	r := &Runner{
		shell:  shell,
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Shell returns the interpreter name.
func (r *Runner) Shell() string {
	return r.shell
}

// RunFile runs the script at path with args in order.
// A nonzero exit is reported through the result, not as an error.
// When the interpreter cannot be started the result carries StartFailureCode and the
// error text in Stderr.
func (r *Runner) RunFile(ctx context.Context, path string, args []string, mode Mode) wannatypes.ExecutionResult {
	cmdArgs := append([]string{path}, args...)
	cmd := exec.CommandContext(ctx, r.shell, cmdArgs...) // #nosec G204 -- running user-approved scripts is the point

	var stdout, stderr bytes.Buffer
	if mode == Tee {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout)
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
		cmd.Stdin = r.stdin
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	logger.Debug("Running script", "shell", r.shell, "path", path, "args", len(args), "mode", mode)
	err := cmd.Run()

	result := wannatypes.ExecutionResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
		} else {
			result.ReturnCode = StartFailureCode
			result.Stderr += err.Error()
			result.NotStarted = true
		}
	}
	logger.Debug("Script finished", "returncode", result.ReturnCode)
	return result
}

// RunCode writes code to a temporary executable file, runs it and removes the file.
func (r *Runner) RunCode(ctx context.Context, code string, args []string, mode Mode) (wannatypes.ExecutionResult, error) {
	path, err := WriteTemp(code)
	if err != nil {
		return wannatypes.ExecutionResult{}, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warn("Could not remove temporary script", "path", path, "error", rmErr)
		}
	}()
	return r.RunFile(ctx, path, args, mode), nil
}

// WriteTemp writes code to a uniquely named temporary file with executable permissions.
func WriteTemp(code string) (string, error) {
	file, err := os.CreateTemp("", TempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary script: %w", err)
	}
	path := file.Name()

	if _, err := file.WriteString(code); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temporary script: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temporary script: %w", err)
	}
	if err := os.Chmod(path, 0700); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to make temporary script executable: %w", err)
	}
	return path, nil
}

// Excerpt bounds s to its first and last limit runes joined by "\n...\n".
// Text no longer than 2*limit runes is returned unchanged; limit <= 0 disables the bound.
func Excerpt(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= 2*limit {
		return s
	}
	return string(runes[:limit]) + "\n...\n" + string(runes[len(runes)-limit:])
}
