package config

// This file binds Config fields to pflag flags on a cobra command.
// Negated flags (e.g. --no-verify) are captured separately and applied after
// parsing so Config defaults hold unless set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// NegatedFlags holds boolean flags that invert a default. Call [Apply] after
// the flag set has been parsed.
type NegatedFlags struct {
	noVerify bool
	noStats  bool
	color    bool
	noColor  bool
}

// BindFlags registers every configurable field of cfg on fs and returns the
// negated-flag holder that must be applied after parsing.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *NegatedFlags {
	n := &NegatedFlags{}

	// Encoder.
	fs.StringVarP(&cfg.EncoderBin, "encoder", "e", cfg.EncoderBin, "astcenc binary (default: first astcenc variant on PATH)")
	fs.Var(&profileValue{&cfg.Profile}, "profile", "Color profile: cl | cs | ch | cH")
	fs.VarP(&presetValue{&cfg.Preset}, "preset", "p", "Quality preset: fastest | fast | medium | thorough | verythorough | exhaustive")

	// Behavior.
	fs.IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "Textures to encode in parallel")
	fs.Var(&failurePolicyValue{&cfg.OnFailure}, "on-failure", "Failed entries: revert (restore original uri) | keep (point at .astc anyway)")
	fs.BoolVarP(&cfg.KeepOriginals, "keep-originals", "k", false, "Do not delete source textures after conversion")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not encode, delete, or rewrite")
	fs.BoolVar(&cfg.StrictMode, "strict", false, "Exit with status 1 when any texture fails")
	fs.BoolVar(&n.noVerify, "no-verify", false, "Skip ASTC header verification of encoder output")

	// Display.
	fs.BoolVar(&n.noStats, "no-stats", false, "Hide per-texture source stats")
	fs.BoolVar(&n.color, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")

	// Utility.
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Check that astcenc is available and exit")

	return n
}

// Apply copies negated flag values into cfg (e.g. noVerify -> VerifyOutput=false).
func (n *NegatedFlags) Apply(cfg *Config) {
	if n.noVerify {
		cfg.VerifyOutput = false
	}
	if n.noStats {
		cfg.ShowTextureStats = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.color {
		cfg.ColorMode = ColorAlways
	}
}

// pflag.Value adapters so the enum types can be bound with fs.Var.

type profileValue struct{ p *Profile }

func (v *profileValue) String() string { return string(*v.p) }
func (v *profileValue) Type() string   { return "profile" }
func (v *profileValue) Set(s string) error {
	// cH and ch differ only by case, so no lowering here.
	switch Profile(strings.TrimPrefix(s, "-")) {
	case ProfileLDR, ProfileSRGB, ProfileHDR, ProfileHDRFull:
		*v.p = Profile(strings.TrimPrefix(s, "-"))
	default:
		return fmt.Errorf("invalid profile %q (use 'cl', 'cs', 'ch' or 'cH')", s)
	}
	return nil
}

type presetValue struct{ p *Preset }

func (v *presetValue) String() string { return string(*v.p) }
func (v *presetValue) Type() string   { return "preset" }
func (v *presetValue) Set(s string) error {
	switch p := Preset(strings.ToLower(strings.TrimPrefix(s, "-"))); p {
	case PresetFastest, PresetFast, PresetMedium, PresetThorough, PresetVeryThorough, PresetExhaustive:
		*v.p = p
	default:
		return fmt.Errorf("invalid preset %q", s)
	}
	return nil
}

type failurePolicyValue struct{ p *FailurePolicy }

func (v *failurePolicyValue) String() string { return string(*v.p) }
func (v *failurePolicyValue) Type() string   { return "policy" }
func (v *failurePolicyValue) Set(s string) error {
	switch p := FailurePolicy(strings.ToLower(s)); p {
	case FailureRevert, FailureKeep:
		*v.p = p
	default:
		return fmt.Errorf("invalid failure policy %q (use 'revert' or 'keep')", s)
	}
	return nil
}
