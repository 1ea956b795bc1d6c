package encoder

import (
	"context"

	"github.com/backmassage/gltfastc/internal/config"
)

// Params are the fixed-per-run encoder settings.
type Params struct {
	Profile   config.Profile // -cl, -cs, -ch, -cH
	BlockSize string         // Always "6x6".
	Preset    config.Preset  // -medium, …
	Dir       string         // Working directory; relative paths resolve here.
}

// ParamsFromConfig builds Params for encoding textures referenced by a
// document that lives in docDir.
func ParamsFromConfig(cfg *config.Config, docDir string) Params {
	return Params{
		Profile:   cfg.Profile,
		BlockSize: cfg.BlockSize,
		Preset:    cfg.Preset,
		Dir:       docDir,
	}
}

// Encoder compresses src into an ASTC file at dst. Encode blocks until the
// conversion finishes; a nil error means dst now exists.
type Encoder interface {
	Encode(ctx context.Context, src, dst string, p Params) error
}

// Func adapts a function to the Encoder interface.
type Func func(ctx context.Context, src, dst string, p Params) error

// Encode calls f.
func (f Func) Encode(ctx context.Context, src, dst string, p Params) error {
	return f(ctx, src, dst, p)
}
