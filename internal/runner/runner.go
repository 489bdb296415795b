// Package runner executes the external extraction tool as a subprocess and
// classifies the outcome. Two execution modes exist: argument-vector (no
// shell interpretation, used for tool-native calls) and shell-string (used
// only for playlist enumeration, which composes a flag-interpolated command
// line). Stdout and stderr are captured fully; nothing is streamed.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// Status tags the classified outcome of one subprocess execution.
type Status int

const (
	// StatusSuccess: zero exit with usable stdout.
	StatusSuccess Status = iota
	// StatusEmpty: zero exit but no stdout. Distinct from an error so
	// callers expecting optional output can branch on "no result found".
	StatusEmpty
	// StatusError: non-zero exit, or stderr treated as an error signal.
	StatusError
)

// Result is the classified outcome of a subprocess execution. A result is
// exactly one status; Output holds stdout for success, Stderr holds the
// diagnostic text surfaced on error.
type Result struct {
	Status Status
	Output string
	Stderr string
}

// DefaultTimeout bounds subprocess execution. A tool that never exits would
// otherwise hang its caller indefinitely.
const DefaultTimeout = 10 * time.Minute

// Runner executes subprocesses with a bounded timeout, killing the process
// on expiry.
type Runner struct {
	timeout time.Duration
}

// New returns a runner with the given execution timeout. A zero or negative
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{timeout: timeout}
}

// Run executes the program in argument-vector mode: each argument is passed
// verbatim with no shell interpretation.
//
// Classification: non-zero exit is an error with stderr surfaced; zero exit
// with empty stdout is an empty (non-error) outcome; anything else succeeds
// with stdout as the payload.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return classify(err, stdout.String(), stderr.String())
}

// RunShell executes cmdline through the system shell. Used only where the
// invocation is composed as a human-readable command line.
//
// Shell mode applies an extra heuristic on top of exit-code classification:
// stderr text on a zero exit is treated as an error string returned to the
// caller, unless benignStderr recognizes it as a known harmless notice.
func (r *Runner) RunShell(ctx context.Context, cmdline string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", cmdline)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := classify(err, stdout.String(), stderr.String())

	if res.Status != StatusError && res.Stderr != "" && !benignStderr(res.Stderr) {
		res.Status = StatusError
	}
	return res
}

// benignStderr reports whether stderr text is a known harmless notice that
// should not fail a zero-exit invocation. Treating any other stderr text as
// a failure conflates warnings with errors; callers depend on exactly this
// behavior, so the allowlist is kept behind this single predicate.
func benignStderr(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "unavailable videos are hidden")
}

func classify(err error, stdout, stderr string) Result {
	out := strings.TrimSpace(stdout)
	errText := strings.TrimSpace(stderr)

	if err != nil {
		if errText == "" {
			// Process failed to start, or was killed on timeout.
			errText = err.Error()
		}
		return Result{Status: StatusError, Stderr: errText}
	}
	if out == "" {
		return Result{Status: StatusEmpty, Stderr: errText}
	}
	return Result{Status: StatusSuccess, Output: out, Stderr: errText}
}
