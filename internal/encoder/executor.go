package encoder

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// Astcenc runs an astcenc binary once per texture.
type Astcenc struct {
	// Bin is the executable name or path (see check.ResolveEncoder).
	Bin string
	// Tee, when set, receives the encoder's output in real time in
	// addition to the capture used for error reporting.
	Tee io.Writer
}

// NewAstcenc returns an encoder for bin. When verbose is set the encoder's
// output is tee'd to stderr.
func NewAstcenc(bin string, verbose bool) *Astcenc {
	a := &Astcenc{Bin: bin}
	if verbose {
		a.Tee = os.Stderr
	}
	return a
}

// Encode runs astcenc synchronously with p.Dir as working directory. There
// is no timeout; only ctx cancellation stops a running encode.
func (a *Astcenc) Encode(ctx context.Context, src, dst string, p Params) error {
	args := Args(p, src, dst)
	cmd := exec.CommandContext(ctx, a.Bin, args...)
	cmd.Dir = p.Dir

	var out bytes.Buffer
	var w io.Writer = &out
	if a.Tee != nil {
		w = io.MultiWriter(&out, a.Tee)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return &ExecError{
			Args:   append([]string{a.Bin}, args...),
			Output: out.String(),
			Err:    err,
		}
	}
	return nil
}
