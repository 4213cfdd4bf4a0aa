package pyenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultTimeout  = 10 * time.Minute
	maxStdoutOutput = 1024 * 1024 // 1MB, pip list of a large environment
	maxStderrOutput = 64 * 1024   // 64KB
)

// Runner spawns external commands with a bounded lifetime. Commands are
// always started from an argument vector, never through a shell.
type Runner struct {
	// Timeout bounds every invocation (0 = defaultTimeout).
	Timeout time.Duration

	// Env is appended to the inherited environment.
	Env []string

	// MaxStdout caps the stdout captured by Run (0 = maxStdoutOutput).
	MaxStdout int
}

// Result is the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Run executes name with args and captures stdout and stderr. Stdout past
// MaxStdout fails the call with ErrOutputTruncated.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	limit := r.MaxStdout
	if limit <= 0 {
		limit = maxStdoutOutput
	}
	stdout := &cappedBuffer{max: limit}
	res, err := r.run(ctx, stdout, name, args)
	res.Stdout = stdout.buf.String()
	if err == nil && stdout.dropped > 0 {
		log.Printf("[%s] stdout exceeded %d bytes", filepath.Base(name), limit)
		return res, fmt.Errorf("%w: %s printed more than %d bytes", ErrOutputTruncated, filepath.Base(name), limit)
	}
	return res, err
}

// RunToWriter executes name with args, streaming stdout into w. Only stderr
// is captured in the Result.
func (r *Runner) RunToWriter(ctx context.Context, w io.Writer, name string, args ...string) (*Result, error) {
	return r.run(ctx, w, name, args)
}

func (r *Runner) run(ctx context.Context, stdout io.Writer, name string, args []string) (*Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	label := filepath.Base(name)
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))

	// CommandContext kills the child when the request goes away or the
	// timeout fires.
	cmd := exec.CommandContext(cctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	stderr := &cappedBuffer{max: maxStderrOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 5 * time.Second

	log.Printf("[%s] running: %s", label, cmdline)
	start := time.Now()
	err := cmd.Run()
	res := &Result{Stderr: stderr.String(), Duration: time.Since(start)}

	if err == nil {
		log.Printf("[%s] finished in %s", label, res.Duration.Round(time.Millisecond))
		return res, nil
	}

	switch {
	case errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		log.Printf("[%s] timed out after %s", label, timeout)
		return res, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, cmdline)
	case ctx.Err() != nil:
		log.Printf("[%s] cancelled: %v", label, ctx.Err())
		return res, fmt.Errorf("%s: %w", cmdline, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Printf("[%s] exited with status %d", label, exitErr.ExitCode())
		return res, &CommandError{
			Command:  cmdline,
			ExitCode: exitErr.ExitCode(),
			Stderr:   res.Stderr,
		}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return res, fmt.Errorf("%w: %s: %v", ErrToolMissing, name, err)
	}
	return res, fmt.Errorf("run %s: %w", cmdline, err)
}

// cappedBuffer keeps at most max bytes and counts the rest. String appends
// a truncation note; it is used for stderr, which is only ever shown.
type cappedBuffer struct {
	buf     bytes.Buffer
	max     int
	dropped int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	switch {
	case room <= 0:
		b.dropped += len(p)
	case len(p) > room:
		b.buf.Write(p[:room])
		b.dropped += len(p) - room
	default:
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	if b.dropped == 0 {
		return b.buf.String()
	}
	return b.buf.String() + fmt.Sprintf("\n\n[truncated: %d bytes omitted]", b.dropped)
}
