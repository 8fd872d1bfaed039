// Package gsm drives LinuxGSM, the shell toolchain that installs, starts,
// stops and backs up the managed game server processes.
package gsm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrProcessFailed is a non-zero exit from a process-control command. The
// captured output rides on the wrapping error; failures are never retried
// automatically.
var ErrProcessFailed = errors.New("gsm: command failed")

// outputLimit bounds captured stdout/stderr to the tail that matters.
const outputLimit = 2000

// Runner executes one external command and captures its output. The real
// implementation shells out; tests substitute a recording double.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands with os/exec. Commands run to completion with no
// hard timeout; installs and updates legitimately take a long time.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var outBuf, errBuf tailBuffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout := outBuf.String()
	stderr := errBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout, stderr, fmt.Errorf("%s %v exited with code %d: %w",
				name, args, exitErr.ExitCode(), ErrProcessFailed)
		}
		return stdout, stderr, fmt.Errorf("%s %v: %w", name, args, err)
	}
	return stdout, stderr, nil
}

// tailBuffer keeps only the last outputLimit bytes written to it.
type tailBuffer struct {
	data []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	if len(b.data) > outputLimit {
		b.data = b.data[len(b.data)-outputLimit:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.data)
}

// Tail returns the last n characters of s.
func Tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
