package astc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// header builds a raw .astc header for the given footprint and size.
func header(bx, by, bz byte, w, h, d int) []byte {
	b := []byte{0x13, 0xAB, 0xA1, 0x5C, bx, by, bz}
	for _, v := range []int{w, h, d} {
		b = append(b, byte(v), byte(v>>8), byte(v>>16))
	}
	return b
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(bytes.NewReader(header(6, 6, 1, 1024, 70000, 1)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.BlockX != 6 || h.BlockY != 6 || h.BlockZ != 1 {
		t.Errorf("block = %s, want 6x6", h.Footprint())
	}
	if h.Width != 1024 || h.Height != 70000 || h.Depth != 1 {
		t.Errorf("size = %dx%dx%d, want 1024x70000x1", h.Width, h.Height, h.Depth)
	}
	if !h.IsTarget() {
		t.Error("6x6x1 header should be the target footprint")
	}
}

func TestReadHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short", []byte{0x13, 0xAB, 0xA1}, ErrTruncated},
		{"png magic", append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 8)...), ErrInvalidMagic},
		{"zero block z", header(6, 6, 0, 12, 12, 1), ErrBadDimensions},
		{"zero block x", header(0, 6, 1, 12, 12, 1), ErrBadDimensions},
		{"zero width", header(6, 6, 1, 0, 12, 1), ErrBadDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadHeader error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHeader_Blocks(t *testing.T) {
	tests := []struct {
		name string
		h    Header
		want int64
	}{
		{"exact multiple", Header{6, 6, 1, 12, 18, 1}, 6},
		{"partial blocks round up", Header{6, 6, 1, 13, 7, 1}, 6},
		{"1x1 image", Header{6, 6, 1, 1, 1, 1}, 1},
		{"1024 square", Header{6, 6, 1, 1024, 1024, 1}, 171 * 171},
		{"saturates", Header{1, 1, 1, 1<<24 - 1, 1<<24 - 1, 1<<24 - 1}, maxBlocks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Blocks(); got != tt.want {
				t.Errorf("Blocks() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeader_Footprint(t *testing.T) {
	if got := (Header{BlockX: 4, BlockY: 4, BlockZ: 1}).Footprint(); got != "4x4" {
		t.Errorf("Footprint = %q, want 4x4", got)
	}
	h := Header{BlockX: 4, BlockY: 4, BlockZ: 4}
	if got := h.Footprint(); got != "4x4x4" {
		t.Errorf("Footprint = %q, want 4x4x4", got)
	}
	if h.IsTarget() {
		t.Error("4x4x4 should not be the target footprint")
	}
}

func TestReadFileHeader(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.astc")
	data := append(header(6, 6, 1, 12, 6, 1), make([]byte, 2*BlockBytes)...)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := ReadFileHeader(full)
	if err != nil {
		t.Fatalf("ReadFileHeader: %v", err)
	}
	if h.Blocks() != 2 {
		t.Errorf("Blocks() = %d, want 2", h.Blocks())
	}

	short := filepath.Join(dir, "short.astc")
	if err := os.WriteFile(short, header(6, 6, 1, 12, 6, 1), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFileHeader(short); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadFileHeader(short) error = %v, want ErrTruncated", err)
	}

	if _, err := ReadFileHeader(filepath.Join(dir, "missing.astc")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFileHeader(missing) error = %v, want not-exist", err)
	}
}

func TestEncodedSize(t *testing.T) {
	if got := EncodedSize(12, 12); got != HeaderSize+4*BlockBytes {
		t.Errorf("EncodedSize(12, 12) = %d, want %d", got, HeaderSize+4*BlockBytes)
	}
}

func TestReadFileHeader_HugeDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.astc")
	const max24 = 1<<24 - 1
	data := append(header(1, 1, 1, max24, max24, max24), make([]byte, 64)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFileHeader(path); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadFileHeader error = %v, want ErrTruncated", err)
	}
	h := Header{1, 1, 1, max24, max24, max24}
	if h.PayloadSize() <= 0 {
		t.Errorf("PayloadSize overflowed: %d", h.PayloadSize())
	}
}
