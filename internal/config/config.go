// Package config holds runtime configuration: defaults, CLI flag binding, and
// validation. The fixed ASTC target (6x6 blocks, image/astc-6x6) is not
// configurable; everything around it is.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// Profile selects the astcenc color profile (the -c* mode flag).
type Profile string

const (
	ProfileLDR     Profile = "cl" // LDR, linear (default).
	ProfileSRGB    Profile = "cs" // LDR, sRGB.
	ProfileHDR     Profile = "ch" // HDR RGB, LDR alpha.
	ProfileHDRFull Profile = "cH" // HDR RGBA.
)

// Preset is the astcenc quality preset (-fastest … -exhaustive).
type Preset string

const (
	PresetFastest      Preset = "fastest"
	PresetFast         Preset = "fast"
	PresetMedium       Preset = "medium" // Default.
	PresetThorough     Preset = "thorough"
	PresetVeryThorough Preset = "verythorough"
	PresetExhaustive   Preset = "exhaustive"
)

// FailurePolicy decides what happens to an image entry whose conversion
// failed.
type FailurePolicy string

const (
	// FailureRevert restores the entry's original uri and mimeType (default).
	FailureRevert FailurePolicy = "revert"
	// FailureKeep leaves the entry pointing at the never-created .astc file.
	FailureKeep FailurePolicy = "keep"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// BlockSize is the fixed ASTC block footprint passed to the encoder.
const BlockSize = "6x6"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// mutated by the bound CLI flags, and then passed (by pointer) to the
// packages that need it.
type Config struct {
	// Path of the glTF document (positional arg).
	DocumentPath string

	// Encoder settings.
	EncoderBin string  // Empty: auto-discover astcenc on PATH.
	Profile    Profile // Default: "cl".
	Preset     Preset  // Default: "medium".
	BlockSize  string  // Fixed: "6x6".

	// Behavior.
	Jobs          int           // Default: 1 (strictly sequential).
	OnFailure     FailurePolicy // Default: "revert".
	KeepOriginals bool          // Do not delete source textures.
	DryRun        bool
	StrictMode    bool // Exit non-zero when any texture failed.
	VerifyOutput  bool // Default: true. Check the ASTC header of each output.

	// Display and logging.
	Verbose          bool
	ShowTextureStats bool      // Default: true.
	ColorMode        ColorMode // Default: "auto".
	LogFile          string    // Optional log file path.
	CheckOnly        bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. The encoder
// invocation it describes is astcenc -cl <src> <dst> 6x6 -medium.
func DefaultConfig() Config {
	return Config{
		Profile:          ProfileLDR,
		Preset:           PresetMedium,
		BlockSize:        BlockSize,
		Jobs:             1,
		OnFailure:        FailureRevert,
		KeepOriginals:    false,
		DryRun:           false,
		StrictMode:       false,
		VerifyOutput:     true,
		Verbose:          false,
		ShowTextureStats: true,
		ColorMode:        ColorAuto,
		CheckOnly:        false,
	}
}

// ErrMissingDocument is returned by Validate when no document path was given
// outside of --check mode.
var ErrMissingDocument = errors.New("missing path to glTF document")

// Validate checks enum fields and ranges. When not in CheckOnly mode, it also
// requires a document path.
func (c *Config) Validate() error {
	switch c.Profile {
	case ProfileLDR, ProfileSRGB, ProfileHDR, ProfileHDRFull:
		// valid
	default:
		return fmt.Errorf("invalid profile %q (use 'cl', 'cs', 'ch' or 'cH')", c.Profile)
	}

	switch c.Preset {
	case PresetFastest, PresetFast, PresetMedium, PresetThorough, PresetVeryThorough, PresetExhaustive:
		// valid
	default:
		return fmt.Errorf("invalid preset %q", c.Preset)
	}

	switch c.OnFailure {
	case FailureRevert, FailureKeep:
		// valid
	default:
		return fmt.Errorf("invalid failure policy %q (use 'revert' or 'keep')", c.OnFailure)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.BlockSize != BlockSize {
		return fmt.Errorf("block size is fixed at %s (got %q)", BlockSize, c.BlockSize)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}
	c.EncoderBin = strings.TrimSpace(c.EncoderBin)

	if c.CheckOnly {
		return nil
	}
	if c.DocumentPath == "" {
		return ErrMissingDocument
	}
	return nil
}
