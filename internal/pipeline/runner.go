package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/gltfastc/internal/astc"
	"github.com/backmassage/gltfastc/internal/config"
	"github.com/backmassage/gltfastc/internal/display"
	"github.com/backmassage/gltfastc/internal/encoder"
	"github.com/backmassage/gltfastc/internal/gltf"
	"github.com/backmassage/gltfastc/internal/logging"
)

// Run is the top-level entry point. It loads cfg.DocumentPath, converts its
// image entries, writes the document back (unless dry-run), and returns
// aggregate stats.
//
// Per-entry conversion failures are logged and counted, never returned.
// The returned error is non-nil only when the document could not be loaded
// (a *gltf.DocumentFormatError for malformed input) or written, or when an
// entry needs encoding and the encoder cannot be located. In that last case
// the document is left untouched.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Encoder) (RunStats, error) {
	var stats RunStats

	doc, err := gltf.Load(cfg.DocumentPath)
	if err != nil {
		return stats, err
	}

	docDir := filepath.Dir(cfg.DocumentPath)
	images := doc.Images()
	stats.Total = len(images)
	logBatchHeader(cfg, log, &stats)

	plans := buildPlans(images, docDir)
	if !cfg.DryRun && hasWork(plans) {
		if r, ok := enc.(readier); ok {
			if err := r.Ready(); err != nil {
				return stats, err
			}
		}
	}
	c := &converter{
		cfg:    cfg,
		log:    log,
		enc:    enc,
		params: encoder.ParamsFromConfig(cfg, docDir),
		total:  len(images),
	}
	results := c.runUnits(ctx, plans)

	// Fold results back in document order.
	for i, p := range plans {
		switch p.action {
		case actionSkip:
			if p.quiet {
				log.Debug(cfg.Verbose, "[%d/%d] Skip %s: %s", i+1, stats.Total, displayURI(p.srcURI), p.reason)
			} else {
				log.Warn("[%d/%d] Skip %s: %s", i+1, stats.Total, displayURI(p.srcURI), p.reason)
			}
			stats.Skipped++
		case actionFixMIME:
			fixMIME(log, p, &stats)
		case actionReuse:
			applyReuse(cfg, log, p, plans[p.owner], results[p.owner], &stats)
		case actionConvert:
			r := results[i]
			switch r.status {
			case statusConverted:
				stats.Converted++
				stats.TotalInputBytes += r.inBytes
				stats.TotalOutputBytes += r.outBytes
			case statusDryRun:
				stats.Converted++
			case statusFailed:
				stats.Failed++
			case statusInterrupted:
				stats.Interrupted++
			}
		}
	}

	if stats.Interrupted > 0 {
		log.Warn("Interrupted: %d image(s) not processed", stats.Interrupted)
	}

	if cfg.DryRun {
		log.Info("[DRY] Document not written: %s", cfg.DocumentPath)
	} else {
		if err := doc.Save(cfg.DocumentPath); err != nil {
			return stats, fmt.Errorf("write %s: %w", cfg.DocumentPath, err)
		}
		log.Success("Finished converting textures in %s", cfg.DocumentPath)
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// readier is implemented by encoders that locate their binary on demand
// (encoder.Lazy). Run asks for it only when some entry needs encoding.
type readier interface {
	Ready() error
}

func hasWork(plans []*entryPlan) bool {
	for _, p := range plans {
		if p.action == actionConvert {
			return true
		}
	}
	return false
}

// runUnits executes every actionConvert plan on a pool of cfg.Jobs workers
// and returns results indexed like plans. With one job the units run
// strictly in document order.
func (c *converter) runUnits(ctx context.Context, plans []*entryPlan) []entryResult {
	results := make([]entryResult, len(plans))

	var g errgroup.Group
	g.SetLimit(c.cfg.Jobs)
	for i, p := range plans {
		if p.action != actionConvert {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			results[i] = c.convert(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// applyReuse points an entry that shares its source with an earlier entry at
// that entry's output, or applies the failure policy if the earlier entry
// did not convert.
func applyReuse(cfg *config.Config, log *logging.Logger, p, owner *entryPlan, r entryResult, stats *RunStats) {
	switch r.status {
	case statusConverted, statusDryRun:
		p.img.SetURI(owner.dstURI)
		p.img.SetMIMEType(astc.MIMEType)
		log.Info("[%d/%d] Reusing %s for %s", p.img.Index+1, stats.Total, owner.dstURI, p.srcURI)
		stats.Reused++
	case statusInterrupted:
		stats.Interrupted++
	default:
		if cfg.OnFailure == config.FailureKeep {
			p.img.SetURI(owner.dstURI)
			p.img.SetMIMEType(astc.MIMEType)
		}
		log.Error("Error converting %s: shared source failed in images[%d]", p.srcURI, owner.img.Index)
		stats.Failed++
	}
}

// fixMIME handles an entry whose uri already names an .astc file but whose
// mimeType is not image/astc-6x6: the mimeType is corrected when the file is
// a valid 6x6 ASTC file, otherwise the entry is left alone. The encoder is
// never re-run on an .astc uri.
func fixMIME(log *logging.Logger, p *entryPlan, stats *RunStats) {
	if err := verifyOutput(p.srcPath); err != nil {
		log.Warn("[%d/%d] Skip %s: already .astc but %v", p.img.Index+1, stats.Total, p.srcURI, err)
		stats.Skipped++
		return
	}
	p.img.SetMIMEType(astc.MIMEType)
	log.Info("[%d/%d] Set mimeType of %s to %s", p.img.Index+1, stats.Total, p.srcURI, astc.MIMEType)
	stats.Skipped++
}

// displayURI shortens data URIs for logging.
func displayURI(uri string) string {
	const maxLen = 48
	if len(uri) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(uri[cut]) {
			cut--
		}
		return uri[:cut] + "…"
	}
	if uri == "" {
		return "(no uri)"
	}
	return uri
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Document: %s", cfg.DocumentPath)
	log.Info("Found %d image(s)", stats.Total)
	log.Info("Target: ASTC %s (%s), profile -%s, preset -%s", cfg.BlockSize, astc.MIMEType, cfg.Profile, cfg.Preset)
	if cfg.Jobs > 1 {
		log.Info("Parallel encodes: %d", cfg.Jobs)
	}
	if cfg.OnFailure == config.FailureKeep {
		log.Info("Failure policy: keep rewritten uri on failed entries")
	} else {
		log.Info("Failure policy: revert failed entries to their original uri")
	}
	if cfg.KeepOriginals {
		log.Info("Originals: kept")
	}
	log.Info("")
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d reused, %d skipped, %d failed",
		stats.Converted, stats.Reused, stats.Skipped, stats.Failed)

	if cfg.DryRun {
		log.Info("  Total space saved: n/a (dry run)")
		return
	}
	if stats.Converted == 0 {
		return
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("  Total space saved: %s (overall output is larger)",
			display.FormatBytesWithSign(saved))
	}
}
