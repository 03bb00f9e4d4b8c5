// Package git shells out to the git binary and turns its line-oriented
// output into display models. It never links a git library: the tool's own
// porcelain formats are the contract.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of one git invocation. Stdout and Stderr are
// normalized: blank lines dropped, no trailing newline. ExitCode is the
// process exit status, or -1 when the command never ran to completion
// (missing repository, missing binary, timeout, spawn failure).
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether git exited zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes git commands in a repository working directory.
// A single attempt per call; no retries.
type Runner struct {
	Binary  string        // git executable, default "git"
	Timeout time.Duration // per-command bound, default DefaultTimeout
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return "git"
	}
	return r.Binary
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

// Run executes the binary with args in dir. Interactive editor prompts are
// suppressed so commands like commit never block on a terminal.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) Result {
	if dir == "" {
		return Result{Stderr: "repository path is empty", ExitCode: -1}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return Result{
			Stderr:   fmt.Sprintf("repository path %q does not exist", dir),
			ExitCode: -1,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_EDITOR=true")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: Normalize(stdout.String()),
		Stderr: Normalize(stderr.String()),
	}

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.ExitCode = -1
		res.Stderr = fmt.Sprintf("command timed out after %s", r.timeout())
	case err == nil:
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			if errors.Is(err, exec.ErrNotFound) {
				res.Stderr = fmt.Sprintf("%s executable not found; is it installed and on PATH?", r.binary())
			} else if res.Stderr == "" {
				res.Stderr = err.Error()
			}
		}
	}
	return res
}

// Normalize splits text on newlines, drops blank lines and rejoins, so the
// tool's blank-line padding never reaches the log view.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
