package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// stderrTail bounds how much of a tool's stderr a ToolError keeps.
const stderrTail = 4096

// ToolError describes a failed external tool invocation.
//
// A ToolError matches ErrToolNotFound when the process could not be started
// at all (missing binary, permission denied) and ErrToolFailed when it ran and
// exited non-zero. The two need different fixes from the user.
type ToolError struct {
	Tool     string
	Args     []string
	Started  bool
	ExitCode int    // -1 when the process never ran or was killed by a signal
	Stderr   string // last bytes written to stderr
	Err      error
}

func (e *ToolError) Error() string {
	cmdline := strings.TrimSpace(filepath.Base(e.Tool) + " " + strings.Join(e.Args, " "))
	if !e.Started || e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", cmdline, e.Err)
	}
	msg := fmt.Sprintf("%s: exit status %d", cmdline, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *ToolError) Is(target error) bool {
	switch target {
	case ErrToolNotFound:
		return !e.Started
	case ErrToolFailed:
		return e.Started
	}
	return false
}

func (e *ToolError) Unwrap() error { return e.Err }

// RunTool runs an external tool in dir and waits for it to exit.
//
// Stdout is written to stdout. Stderr is streamed to stderr as it arrives and
// its tail is kept for the returned *ToolError. Nil writers discard. The
// command line is logged at debug level with credential flags redacted.
func RunTool(ctx context.Context, dir string, stdout, stderr io.Writer, bin string, args ...string) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	zerolog.Ctx(ctx).Debug().
		Str("dir", dir).
		Msgf("exec: %s %s", bin, strings.Join(RedactArgs(args), " "))

	tail := &tailBuffer{max: stderrTail}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, tail)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	terr := &ToolError{
		Tool:     bin,
		Args:     RedactArgs(args),
		ExitCode: -1,
		Stderr:   tail.String(),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		terr.Started = true
		terr.ExitCode = exitErr.ExitCode()
	}
	return terr
}

// credentialFlags are the flags whose values never appear in logs.
var credentialFlags = []string{"--dest-creds", "--src-creds", "--creds"}

// RedactArgs returns a copy of args with credential flag values replaced.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	redactNext := false
	for i, a := range args {
		if redactNext {
			out[i] = "REDACTED"
			redactNext = false
			continue
		}
		out[i] = a
		for _, flag := range credentialFlags {
			if a == flag {
				redactNext = true
				break
			}
			if strings.HasPrefix(a, flag+"=") {
				out[i] = flag + "=REDACTED"
				break
			}
		}
	}
	return out
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
