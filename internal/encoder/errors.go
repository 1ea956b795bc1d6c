package encoder

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// ExecError describes a failed encoder invocation.
type ExecError struct {
	Args   []string // Full command line, binary first.
	Output string   // Captured stdout+stderr.
	Err    error    // Underlying *exec.ExitError or start error.
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if r := e.Reason(); r != "" {
		msg += " (" + r + ")"
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExitCode returns the encoder's exit status, or -1 when it did not run to
// completion.
func (e *ExecError) ExitCode() int {
	var ee *exec.ExitError
	if errors.As(e.Err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// Pre-compiled patterns for classifying astcenc output into a short reason.
// Checked in order; the first match wins.
var reasons = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`(?i)failed to load (uncompressed )?image`), "source image could not be loaded"},
	{regexp.MustCompile(`(?i)(unknown|unsupported) (image|file) (format|type|extension)`), "unsupported image format"},
	{regexp.MustCompile(`(?i)block size .* is invalid|invalid block size`), "invalid block size"},
	{regexp.MustCompile(`(?i)unknown command line (argument|option)`), "encoder rejected an option"},
	{regexp.MustCompile(`(?i)failed to (store|write) (compressed )?image|file open failed`), "output could not be written"},
	{regexp.MustCompile(`(?i)out of memory|memory allocation failed`), "encoder ran out of memory"},
}

// Reason classifies the captured output, falling back to the last ERROR
// line astcenc printed. Empty when nothing useful was captured.
func (e *ExecError) Reason() string {
	for _, r := range reasons {
		if r.re.MatchString(e.Output) {
			return r.reason
		}
	}
	if errors.Is(e.Err, exec.ErrNotFound) {
		return "encoder binary not found"
	}
	lines := strings.Split(strings.TrimSpace(e.Output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if strings.HasPrefix(l, "ERROR") {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(l, "ERROR"), ":"))
		}
	}
	return ""
}

// Tail returns the last n non-empty lines of the captured output.
func (e *ExecError) Tail(n int) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(e.Output), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
