package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Command is one external invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output captures the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner executes commands. Run returns an error only when the
// process could not be started; a non-zero exit is reported in Output.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ToolError is a failed or missing external tool.
type ToolError struct {
	Command  string
	ExitCode int    // -1 when the process never ran
	Stderr   string // tail of stderr, if captured
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		if e.Err == nil {
			return e.Command + ": did not run"
		}
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ErrNotFound is wrapped by ToolError when the binary is not on PATH.
var ErrNotFound = errors.New("executable not found")

// ExecRunner runs commands as child processes, streaming their output.
type ExecRunner struct {
	// Stdout and Stderr receive the child's output; default os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	log := r.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrNotFound)
	}

	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	log.Debug("running command", "command", c.String(), "dir", c.Dir)
	err = cmd.Run()

	out := &Output{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	// A killed child reports a plain exit error; keep the cancellation cause.
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return out, fmt.Errorf("executing %s: %w", c.Name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("executing %s: %w", c.Name, err)
	}
	return out, nil
}

// Exec runs c through r and converts every failure, including a non-zero
// exit, into a *ToolError.
func Exec(ctx context.Context, r CommandRunner, c Command) (*Output, error) {
	out, err := r.Run(ctx, c)
	if err != nil {
		return out, &ToolError{Command: c.String(), ExitCode: -1, Err: err}
	}
	if out.ExitCode != 0 {
		return out, &ToolError{Command: c.String(), ExitCode: out.ExitCode, Stderr: lastLine(out.Stderr)}
	}
	return out, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
