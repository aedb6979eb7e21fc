// Package cmd defines the cast2gif CLI commands.
//
// Exit codes:
//   - 0: success
//   - 1: usage or configuration error
//   - 2: cast format error (bad record, unsupported version or event kind)
//   - 3: I/O error reading the source or storing the output
//   - 4: internal pipeline error
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/katharostech/cast2gif/cast"
	"github.com/katharostech/cast2gif/cli/tui"
	"github.com/katharostech/cast2gif/encode"
	"github.com/katharostech/cast2gif/log"
	"github.com/katharostech/cast2gif/output"
	"github.com/katharostech/cast2gif/pipeline"
	"github.com/katharostech/cast2gif/progress"
	"github.com/katharostech/cast2gif/render"
	"github.com/katharostech/cast2gif/term"
	"github.com/katharostech/cast2gif/theme"
)

// Exit codes.
const (
	exitSuccess       = 0
	exitUsageError    = 1
	exitFormatError   = 2
	exitIOError       = 3
	exitInternalError = 4
)

// ConvertCommand returns the convert command, the only command that
// executes work.
func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert an asciinema cast recording into an animated GIF",
		ArgsUsage: "<input.cast> <output.gif>",
		Description: "Reads an asciinema v2 recording (use \"-\" for stdin) and writes an " +
			"animated GIF to a file, to stdout (\"-\"), or to an s3://bucket/key object. " +
			"With --frames, writes individual PNG frames into the output directory instead.",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "fps",
				Usage: "Output frames per second",
				Value: 10,
			},
			&cli.Float64Flag{
				Name:  "font-size",
				Usage: "Font size in points",
				Value: render.DefaultFontSize,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel rendering workers (0 = number of CPUs)",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Path to a YAML color theme file",
			},
			&cli.BoolFlag{
				Name:  "frames",
				Usage: "Write PNG frames into the output directory instead of a GIF",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress the progress display",
			},
			// S3 destination flags
			&cli.StringFlag{
				Name:  "s3-region",
				Usage: "AWS region for s3:// outputs (optional, uses default chain)",
			},
			&cli.StringFlag{
				Name:  "s3-endpoint",
				Usage: "Custom S3 endpoint URL for S3-compatible providers",
			},
			&cli.BoolFlag{
				Name:  "s3-path-style",
				Usage: "Force path-style S3 addressing",
			},
		},
		Action: convertAction,
	}
}

func convertAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: cast2gif convert [options] <input.cast> <output.gif>", exitUsageError)
	}
	in := c.Args().Get(0)
	out := c.Args().Get(1)

	fps := c.Float64("fps")
	if fps <= 0 {
		return cli.Exit(fmt.Sprintf("invalid fps %v, must be positive", fps), exitUsageError)
	}
	interval := 1.0 / fps

	jobID := uuid.New().String()
	logger := log.NewLogger(jobID, in, out)

	th := theme.Default()
	if path := c.String("theme"); path != "" {
		var err error
		if th, err = theme.Load(path); err != nil {
			return cli.Exit(err.Error(), exitUsageError)
		}
	}

	renderer, err := render.NewFontRenderer(th, c.Float64("font-size"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsageError)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	// Open the source.
	source := os.Stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return cli.Exit(err.Error(), exitIOError)
		}
		defer func() { _ = f.Close() }()
		source = f
	}

	sampler, err := cast.NewSampler(source, interval, func(cols, rows int) cast.Emulator {
		return term.New(cols, rows)
	})
	if err != nil {
		return cli.Exit(err.Error(), exitCodeFor(err))
	}
	meta := sampler.Meta()
	logger.Info("starting conversion", map[string]any{
		"terminal": fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"fps":      fps,
		"theme":    th.Name,
	})

	// Build sink and destination.
	var (
		sink encode.Sink
		buf  bytes.Buffer
		dest output.Destination
	)
	switch {
	case c.Bool("frames"):
		s, err := encode.NewPNGDirSink(out)
		if err != nil {
			return cli.Exit(err.Error(), exitIOError)
		}
		sink = s
	case output.IsS3(out):
		dest, err = output.NewS3Destination(ctx, out, output.S3Config{
			Region:       c.String("s3-region"),
			Endpoint:     c.String("s3-endpoint"),
			UsePathStyle: c.Bool("s3-path-style"),
		})
		if err != nil {
			return cli.Exit(err.Error(), exitUsageError)
		}
		sink = encode.NewGIFSink(&buf, th.GIFPalette())
	default:
		dest = &output.FileDestination{Path: out}
		sink = encode.NewGIFSink(&buf, th.GIFPalette())
	}

	// Progress reporting: live TUI on a terminal, silent otherwise.
	var ui *tui.Program
	if !c.Bool("quiet") && isatty.IsTerminal(os.Stderr.Fd()) {
		ui = tui.Run(cancel)
	}
	var observer progress.Observer
	if ui != nil {
		observer = ui.Observer()
	}
	agg := progress.NewAggregator(observer)

	pipe := pipeline.New(pipeline.Config{Workers: c.Int("workers")}, logger, agg)

	start := time.Now()
	runErr := pipe.Run(ctx, sampler, renderer, sink)
	if runErr == nil {
		if err := sink.Close(); err != nil {
			runErr = err
		}
	}
	if runErr == nil && dest != nil {
		// Deliver with a fresh context so an interrupt arriving after the
		// pipeline finished does not discard a complete artifact.
		putCtx, putCancel := context.WithTimeout(context.WithoutCancel(ctx), 60*time.Second)
		runErr = dest.Put(putCtx, &buf, "image/gif")
		putCancel()
	}

	counters := agg.Counters()
	agg.Close()
	if ui != nil {
		ui.Finish()
	}

	if runErr != nil {
		logger.Error("conversion failed", map[string]any{
			"error":    runErr.Error(),
			"duration": time.Since(start).String(),
		})
		return cli.Exit(runErr.Error(), exitCodeFor(runErr))
	}

	logger.Info("conversion complete", map[string]any{
		"frames":   counters.Sequenced,
		"duration": time.Since(start).String(),
	})
	return nil
}

// exitCodeFor maps the typed error surface to exit codes.
func exitCodeFor(err error) int {
	var parseErr *cast.ParseError
	var renderErr *pipeline.RenderError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, cast.ErrInvalidVersion),
		errors.Is(err, cast.ErrUnsupportedEvent),
		errors.Is(err, cast.ErrMissingHeader),
		errors.As(err, &parseErr):
		return exitFormatError
	case errors.Is(err, pipeline.ErrInvariant),
		errors.As(err, &renderErr):
		return exitInternalError
	default:
		return exitIOError
	}
}
