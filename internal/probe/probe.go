// Package probe inspects source textures before they are handed to the
// encoder: container format, dimensions, and file size. Only the image
// header is decoded.
package probe

import (
	"fmt"
	"image"
	"image/color"
	"os"

	// Formats astcenc accepts as LDR input, plus BMP/TIFF/WebP so
	// mislabeled or unsupported sources can be reported by name.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/backmassage/gltfastc/internal/astc"
)

// TextureInfo describes a source texture.
type TextureInfo struct {
	Path   string
	Format string // "png", "jpeg", "gif", "bmp", "tiff", "webp"
	Width  int
	Height int
	Size   int64 // File size in bytes.
	Alpha  bool  // Color model can carry alpha.
}

// Probe decodes the image header of path. The file handle is closed before
// returning.
func Probe(path string) (*TextureInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &TextureInfo{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fi.Size(),
		Alpha:  hasAlpha(cfg.ColorModel),
	}, nil
}

// Blocks returns the number of 6x6 ASTC blocks the texture will occupy.
func (t *TextureInfo) Blocks() int64 {
	h := astc.Header{BlockX: astc.BlockX, BlockY: astc.BlockY, BlockZ: 1, Width: t.Width, Height: t.Height, Depth: 1}
	return h.Blocks()
}

// EncodedSize returns the predicted .astc file size.
func (t *TextureInfo) EncodedSize() int64 {
	return astc.EncodedSize(t.Width, t.Height)
}

// EncoderReadable reports whether astcenc can load the format. astcenc's
// LDR loader (stb_image) handles PNG, JPEG, GIF, BMP, TGA, PSD, PIC, PNM,
// plus its own KTX/DDS/EXR/HDR readers; TIFF and WebP are not supported.
func (t *TextureInfo) EncoderReadable() bool {
	switch t.Format {
	case "tiff", "webp":
		return false
	}
	return true
}

func hasAlpha(m color.Model) bool {
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	switch m {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}
