package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/gltfastc/internal/astc"
	"github.com/backmassage/gltfastc/internal/config"
	"github.com/backmassage/gltfastc/internal/display"
	"github.com/backmassage/gltfastc/internal/encoder"
	"github.com/backmassage/gltfastc/internal/logging"
	"github.com/backmassage/gltfastc/internal/probe"
)

// entryStatus is the outcome of one unit of work.
type entryStatus int

const (
	statusConverted entryStatus = iota
	statusFailed
	statusInterrupted
	statusDryRun
)

type entryResult struct {
	status   entryStatus
	inBytes  int64
	outBytes int64
}

// converter carries the per-run state shared by all units of work.
type converter struct {
	cfg    *config.Config
	log    *logging.Logger
	enc    encoder.Encoder
	params encoder.Params
	total  int
}

// convert runs one unit of work: rewrite the entry, encode, verify the
// output, and delete the original. On failure the original file is kept and
// the entry is reverted or left rewritten according to cfg.OnFailure.
func (c *converter) convert(ctx context.Context, p *entryPlan) entryResult {
	if ctx.Err() != nil {
		return entryResult{status: statusInterrupted}
	}

	snap := p.img.Snapshot()
	p.img.SetURI(p.dstURI)
	p.img.SetMIMEType(astc.MIMEType)

	c.log.Info("[%d/%d] Converting %s -> %s", p.img.Index+1, c.total, p.srcURI, p.dstURI)

	inBytes := fileSize(p.srcPath)
	if c.cfg.ShowTextureStats {
		c.logTextureStats(p)
	}

	if c.cfg.DryRun {
		c.log.Success("[DRY] Would run encoder: %s -> %s", p.srcArg, p.dstArg)
		return entryResult{status: statusDryRun}
	}

	err := c.enc.Encode(ctx, p.srcArg, p.dstArg, c.params)
	if err == nil && c.cfg.VerifyOutput {
		err = verifyOutput(p.dstPath)
		if err != nil {
			os.Remove(p.dstPath)
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			// Killed mid-encode; whatever was written is partial.
			os.Remove(p.dstPath)
		}
		c.logFailure(p, err)
		if c.cfg.OnFailure == config.FailureRevert {
			p.img.Restore(snap)
			c.log.Warn("  Kept original reference %s", p.srcURI)
		}
		return entryResult{status: statusFailed}
	}

	outBytes := fileSize(p.dstPath)
	if !c.cfg.KeepOriginals {
		removeOriginal(c.log, p.srcPath)
	}
	c.log.Success("  Converted %s (%s -> %s, %s of original)",
		p.dstURI, display.FormatBytes(inBytes), display.FormatBytes(outBytes),
		display.FormatRatio(inBytes, outBytes))
	return entryResult{status: statusConverted, inBytes: inBytes, outBytes: outBytes}
}

// verifyOutput checks that the encoder left a complete 6x6 ASTC file.
func verifyOutput(path string) error {
	h, err := astc.ReadFileHeader(path)
	if err != nil {
		return fmt.Errorf("output verification failed: %w", err)
	}
	if !h.IsTarget() {
		return fmt.Errorf("output verification failed: block footprint %s, want %s", h.Footprint(), astc.BlockSize)
	}
	return nil
}

// removeOriginal deletes the source texture if it still exists. A file that
// is already gone is not an error.
func removeOriginal(log *logging.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("  Could not delete original %s: %v", path, err)
	}
}

func (c *converter) logFailure(p *entryPlan, err error) {
	c.log.Error("Error converting %s: %v", p.srcURI, err)
	var ee *encoder.ExecError
	if errors.As(err, &ee) {
		tail := ee.Tail(10)
		if len(tail) == 0 {
			return
		}
		c.log.Error("Last encoder output:")
		for _, l := range tail {
			c.log.Error("  %s", l)
		}
	}
}

func (c *converter) logTextureStats(p *entryPlan) {
	info, err := probe.Probe(p.srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.log.Warn("  Source not found: %s", p.srcPath)
			return
		}
		c.log.Debug(c.cfg.Verbose, "  Cannot inspect source: %v", err)
		return
	}
	alpha := ""
	if info.Alpha {
		alpha = " | alpha"
	}
	c.log.Info("  Texture: %s | %s | %s%s | %d blocks (~%s ASTC)",
		info.Format, display.FormatDimensions(info.Width, info.Height),
		display.FormatBytes(info.Size), alpha, info.Blocks(),
		display.FormatBytes(info.EncodedSize()))
	if !info.EncoderReadable() {
		c.log.Warn("  astcenc cannot read %s sources; conversion will likely fail", info.Format)
	}
}
