// Command gltfastc converts the textures referenced by a glTF document to
// ASTC 6x6 with astcenc and rewrites the document to point at them.
//
// It parses flags, validates configuration and the document path, and
// either runs encoder diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/gltfastc/internal/check"
	"github.com/backmassage/gltfastc/internal/config"
	"github.com/backmassage/gltfastc/internal/display"
	"github.com/backmassage/gltfastc/internal/encoder"
	"github.com/backmassage/gltfastc/internal/gltf"
	"github.com/backmassage/gltfastc/internal/logging"
	"github.com/backmassage/gltfastc/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

const usageLine = "Usage: gltfastc [flags] <path_to_gltf>"

const longHelp = `gltfastc compresses every texture referenced by a glTF document to ASTC 6x6
with astcenc, deletes the originals, and rewrites the document in place.

When a texture fails to convert, its image entry is restored to the original
uri and mimeType (--on-failure=revert, the default). Pass --on-failure=keep
to leave failed entries pointing at the .astc file instead. Originals of
failed textures are never deleted.`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.DefaultConfig()
	exit := 0

	cmd := &cobra.Command{
		Use:           "gltfastc [flags] <path_to_gltf>",
		Short:         "Convert glTF textures to ASTC 6x6",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	negated := config.BindFlags(cmd.Flags(), &cfg)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		negated.Apply(&cfg)
		exit = convert(cmd.Context(), &cfg, args, stdout)
		return nil
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stdout, "gltfastc: %v\n", err)
		fmt.Fprintln(stdout, usageLine)
		return 1
	}
	return exit
}

func convert(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// straight to stdout.
	if !cfg.CheckOnly {
		if len(args) != 1 {
			fmt.Fprintln(stdout, usageLine)
			return 1
		}
		cfg.DocumentPath = args[0]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "gltfastc: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdout, "gltfastc: %v\n", err)
		return 1
	}
	defer log.Close()
	log.SetOutput(stdout)

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return 1
		}
		return 0
	}

	fi, err := os.Stat(cfg.DocumentPath)
	if err != nil {
		log.Error("File not found: %s", cfg.DocumentPath)
		return 1
	}
	if fi.IsDir() {
		log.Error("Not a glTF file: %s is a directory", cfg.DocumentPath)
		return 1
	}

	log.Info("=== gltfastc v%s (%s) ===", version, commit)
	if cfg.DryRun {
		log.Warn("DRY RUN: no textures will be encoded or deleted")
	}

	// astcenc is located on first need. Documents with nothing to convert
	// and dry runs never look for it; otherwise a missing encoder stops the
	// run before any file is touched.
	enc := &encoder.Lazy{Resolve: func() (encoder.Encoder, error) {
		bin, err := check.ResolveEncoder(cfg)
		if err != nil {
			return nil, err
		}
		log.Info("Encoder: %s", bin)
		return encoder.NewAstcenc(bin, cfg.Verbose), nil
	}}
	log.Info("")

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so no new encode
	// starts; the document is still written with what finished.
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Phase 4: Run the converter.
	stats, err := pipeline.Run(ctx, cfg, log, enc)
	if err != nil {
		var fe *gltf.DocumentFormatError
		if errors.As(err, &fe) {
			log.Error("Invalid glTF document %s: %v", fe.Path, fe.Err)
		} else {
			log.Error("%v", err)
		}
		return 1
	}

	if cfg.StrictMode && stats.Failed > 0 {
		return 1
	}
	return 0
}
