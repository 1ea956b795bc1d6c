package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/backmassage/gltfastc/internal/config"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) log(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}
func (m *mockLogger) Info(f string, a ...interface{})    { m.log("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.log("SUCCESS", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.log("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.log("ERROR", f, a...) }

// stubLookPath makes only the given names resolvable.
func stubLookPath(t *testing.T, found ...string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/opt/astc/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestResolveEncoder_Discovery(t *testing.T) {
	stubLookPath(t, "astcenc-sse2", "astcenc-neon")
	cfg := config.DefaultConfig()

	got, err := ResolveEncoder(&cfg)
	if err != nil {
		t.Fatalf("ResolveEncoder: %v", err)
	}
	if got != "/opt/astc/astcenc-sse2" {
		t.Errorf("ResolveEncoder = %q, want first candidate in order", got)
	}
}

func TestResolveEncoder_Configured(t *testing.T) {
	stubLookPath(t, "astcenc", "my-astcenc")
	cfg := config.DefaultConfig()
	cfg.EncoderBin = "my-astcenc"

	got, err := ResolveEncoder(&cfg)
	if err != nil || got != "/opt/astc/my-astcenc" {
		t.Errorf("ResolveEncoder = %q, %v; want configured binary", got, err)
	}

	cfg.EncoderBin = "other"
	if _, err := ResolveEncoder(&cfg); !errors.Is(err, ErrEncoderNotFound) {
		t.Errorf("ResolveEncoder(missing configured) error = %v, want ErrEncoderNotFound", err)
	}
}

func TestResolveEncoder_NotFound(t *testing.T) {
	stubLookPath(t)
	cfg := config.DefaultConfig()
	if _, err := ResolveEncoder(&cfg); !errors.Is(err, ErrEncoderNotFound) {
		t.Errorf("error = %v, want ErrEncoderNotFound", err)
	}

	log := &mockLogger{}
	if RunCheck(&cfg, log) {
		t.Error("RunCheck should fail without an encoder")
	}
}

func TestRunCheck_ReportsVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script encoder stub needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "astcenc")
	script := "#!/bin/sh\necho 'astcenc v5.2.0, 64-bit sse4.1+popcnt'\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.EncoderBin = bin
	log := &mockLogger{}
	if !RunCheck(&cfg, log) {
		t.Fatalf("RunCheck failed: %v", log.lines)
	}
	want := "SUCCESS Version: astcenc v5.2.0, 64-bit sse4.1+popcnt"
	found := false
	for _, l := range log.lines {
		if l == want {
			found = true
		}
	}
	if !found {
		t.Errorf("log lines %v missing %q", log.lines, want)
	}
}

func TestResolveEncoder_RelativePathMadeAbsolute(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) { return name, nil }

	cfg := config.DefaultConfig()
	cfg.EncoderBin = filepath.Join(".", "bin", "astcenc")
	got, err := ResolveEncoder(&cfg)
	if err != nil {
		t.Fatalf("ResolveEncoder: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ResolveEncoder = %q, want absolute path", got)
	}
}
