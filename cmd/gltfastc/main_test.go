package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"a.gltf", "b.gltf"}} {
		code, out, _ := runCLI(args...)
		if code != 1 {
			t.Errorf("run(%v) = %d, want 1", args, code)
		}
		if strings.TrimSpace(out) != usageLine {
			t.Errorf("run(%v) stdout = %q, want usage line", args, out)
		}
	}
}

func TestRun_FileNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.gltf")
	code, out, _ := runCLI(missing)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(out, "File not found: "+missing) {
		t.Errorf("stdout = %q, want not-found message", out)
	}
}

func TestRun_InvalidDocument(t *testing.T) {
	path := writeDoc(t, `{"images": {`)
	code, out, _ := runCLI(path)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(out, "Invalid glTF document "+path) {
		t.Errorf("stdout = %q, want format error", out)
	}
}

func TestRun_BadFlag(t *testing.T) {
	path := writeDoc(t, `{}`)
	if code, _, _ := runCLI("--preset", "ultra", path); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
}

func TestRun_DryRun(t *testing.T) {
	doc := `{"images":[{"uri":"tex0.png"}]}`
	path := writeDoc(t, doc)
	code, out, _ := runCLI("--dry-run", path)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(out, "Would run encoder") {
		t.Errorf("stdout missing dry-run line:\n%s", out)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != doc {
		t.Errorf("dry run rewrote the document:\n%s", got)
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI("--version")
	if code != 0 || !strings.Contains(out, version) {
		t.Errorf("--version: exit %d, stdout %q", code, out)
	}
}

// failingEncoder writes a script that fails like astcenc on an unreadable
// source.
func failingEncoder(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script encoder stub needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "astcenc")
	script := "#!/bin/sh\necho 'ERROR: Failed to load uncompressed image file' >&2\nexit 1\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_StrictMode(t *testing.T) {
	bin := failingEncoder(t)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"lenient", nil, 0},
		{"strict", []string{"--strict"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, `{"images":[{"uri":"tex0.png"}]}`)
			args := append([]string{"--encoder", bin}, tt.args...)
			code, out, _ := runCLI(append(args, path)...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d", code, tt.want)
			}
			if !strings.Contains(out, "Finished converting textures in") {
				t.Errorf("document not written on failure:\n%s", out)
			}
		})
	}
}

func TestRun_NothingToConvertWithoutEncoder(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	tests := []struct {
		name, doc string
	}{
		{"no images", `{"asset":{"version":"2.0"}}`},
		{"embedded only", `{"images":[{"bufferView":0,"mimeType":"image/png"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, tt.doc)
			code, out, _ := runCLI(path)
			if code != 0 {
				t.Fatalf("exit = %d, want 0\n%s", code, out)
			}
			if !strings.Contains(out, "Finished converting textures in "+path) {
				t.Errorf("stdout missing completion line:\n%s", out)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(got), "\n    ") {
				t.Errorf("document not rewritten:\n%s", got)
			}
		})
	}
}

func TestRun_MissingEncoder(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	doc := `{"images":[{"uri":"tex0.png"}]}`
	path := writeDoc(t, doc)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "tex0.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(path)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(out, "astcenc not found") {
		t.Errorf("stdout = %q, want missing-encoder error", out)
	}
	if got, _ := os.ReadFile(path); string(got) != doc {
		t.Errorf("document rewritten without an encoder:\n%s", got)
	}
}

func TestRun_HelpNamesFailurePolicy(t *testing.T) {
	code, out, _ := runCLI("--help")
	if code != 0 {
		t.Errorf("--help exit = %d", code)
	}
	if !strings.Contains(out, "--on-failure=keep") {
		t.Errorf("help does not describe --on-failure=keep:\n%s", out)
	}
}
