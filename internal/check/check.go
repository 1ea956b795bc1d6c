// Package check locates the astcenc encoder (pre-pipeline dependency
// validation) and implements the --check diagnostics mode.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/gltfastc/internal/config"
)

// ErrEncoderNotFound is returned by ResolveEncoder when no astcenc binary is
// available.
var ErrEncoderNotFound = errors.New("astcenc not found on PATH (install it or pass --encoder)")

// Candidates are the astcenc binary names tried in order when no encoder is
// configured. Release archives ship one binary per SIMD level.
var Candidates = []string{
	"astcenc",
	"astcenc-avx2",
	"astcenc-sse4.1",
	"astcenc-sse2",
	"astcenc-neon",
	"astcenc-native",
	"astcenc.exe",
	"astcenc-avx2.exe",
	"astcenc-sse4.1.exe",
}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// lookPath is swapped out by tests.
var lookPath = exec.LookPath

// ResolveEncoder returns the path of the encoder binary: cfg.EncoderBin when
// set, otherwise the first of [Candidates] found on PATH.
func ResolveEncoder(cfg *config.Config) (string, error) {
	if cfg.EncoderBin != "" {
		p, err := lookPath(cfg.EncoderBin)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrEncoderNotFound, cfg.EncoderBin)
		}
		// The encoder runs from the document directory, so a relative
		// path like ./astcenc must be pinned to the current one.
		if !filepath.IsAbs(p) {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
		return p, nil
	}
	for _, name := range Candidates {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", ErrEncoderNotFound
}

// RunCheck runs the --check flow: reports which encoder would be used and
// its version banner. Returns false when no encoder is usable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	bin, err := ResolveEncoder(cfg)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("Encoder: %s", bin)

	if v := Version(bin); v != "" {
		log.Success("Version: %s", v)
	} else {
		log.Warn("Encoder found but did not report a version")
	}
	log.Info("Target: ASTC %s, profile -%s, preset -%s", cfg.BlockSize, cfg.Profile, cfg.Preset)
	return true
}

// Version returns the first non-empty line printed by `bin -version`
// (falling back to -help for old releases), or "" when neither works.
func Version(bin string) string {
	for _, flag := range []string{"-version", "-help"} {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		out, _ := exec.CommandContext(ctx, bin, flag).CombinedOutput()
		cancel()
		for _, line := range strings.Split(string(out), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				return line
			}
		}
	}
	return ""
}
