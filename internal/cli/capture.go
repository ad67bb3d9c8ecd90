package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bdougie/pagecap/internal/capture"
	"github.com/bdougie/pagecap/internal/config"
	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/pdf"
	"github.com/bdougie/pagecap/internal/platform"
	"github.com/bdougie/pagecap/internal/storage"
	"github.com/bdougie/pagecap/internal/window"
)

func newCaptureCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture pages from a window and build a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCapture(app.v)
			if err != nil {
				return err
			}
			return app.runCapture(cmd, cfg)
		},
	}

	addCaptureFlags(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("pdf", "no-pdf")

	return cmd
}

func addCaptureFlags(f *pflag.FlagSet) {
	f.StringP("pages", "p", "1", "number of pages to capture, or 'auto' to stop when a page repeats")
	f.Float64("interval", config.DefaultInterval, "seconds to wait after the page key before the next capture")
	f.String("key", config.DefaultKey, "page-advance key (right, left, pgdn, space, n, ...)")
	f.StringP("output", "o", config.DefaultOutputDir(), "output directory")
	f.Bool("pdf", true, "build output.pdf from the pages")
	f.Bool("no-pdf", false, "skip building output.pdf")
	f.String("trim", "", "trim all edges at once: top,bottom,left,right (e.g. 60,40,10,10)")
	f.Int("trim-top", config.DefaultTrimTop, "pixels trimmed from the top")
	f.Int("trim-bottom", 0, "pixels trimmed from the bottom")
	f.Int("trim-left", 0, "pixels trimmed from the left")
	f.Int("trim-right", 0, "pixels trimmed from the right")
	f.Int("window", -1, "window index from 'pagecap windows' (prompts when unset)")
	f.Int("max-pages", 0, "stop auto mode after this many pages (0 = no limit)")
	f.Float64("activate-delay", capture.DefaultActivateDelay.Seconds(), "seconds to wait after activating the window")
	f.Float64("settle", capture.DefaultSettleDelay.Seconds(), "seconds to wait between re-activating and sending the key")
	f.String("db", "", "Postgres URL of the page catalog (optional)")
}

func (app *App) runCapture(cmd *cobra.Command, cfg *config.Capture) error {
	ctx := cmd.Context()

	if err := platform.ValidateKey(cfg.Key); err != nil {
		return err
	}

	p, err := app.NewPlatform()
	if err != nil {
		return err
	}

	locator := window.NewLocator(p, app.Logger)
	list, err := locator.List(ctx)
	if err != nil {
		return err
	}

	var target models.WindowRef
	if cfg.Window >= 0 {
		target, err = window.Select(list, cfg.Window)
	} else {
		target, err = app.PromptWindow(list)
	}
	if err != nil {
		return err
	}
	app.Logger.Info("window selected", "title", target.Title, "app", target.App)

	handle, err := locator.ResolveCaptureHandle(ctx, target)
	if err != nil {
		return err
	}

	pages := cfg.Pages
	if cfg.Auto {
		pages = 0
	}
	session := capture.NewSession(p, capture.Options{
		Pages:         pages,
		MaxPages:      cfg.MaxPages,
		Key:           cfg.Key,
		OutputDir:     cfg.OutputDir,
		Trim:          cfg.Trim,
		ActivateDelay: cfg.ActivateDelay,
		SettleDelay:   cfg.SettleDelay,
		Interval:      cfg.Interval,
		Progress:      app.Progress,
		Logger:        app.Logger,
	})

	result, err := session.Run(ctx, handle)
	if err != nil {
		return err
	}

	manifest := storage.Manifest{
		Mode:     "fixed",
		Window:   target.Title,
		App:      target.App,
		Key:      cfg.Key,
		Trim:     cfg.Trim,
		Started:  result.Started,
		Finished: result.Finished,
		Total:    result.Total,
		Pages:    storage.ManifestPages(result.Pages),
	}
	if result.Auto {
		manifest.Mode = "auto"
	}

	if cfg.PDF {
		out := filepath.Join(cfg.OutputDir, pdf.OutputName)
		if err := pdf.NewAssembler(app.Logger).Assemble(cfg.OutputDir, result.Total, out); err != nil {
			return err
		}
		manifest.PDF = pdf.OutputName
		fmt.Fprintf(app.Out, "PDF saved to %s\n", out)
	}

	if err := storage.WriteManifest(cfg.OutputDir, manifest); err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		if err := app.indexPages(ctx, cfg.DatabaseURL, target.Title, result.Pages); err != nil {
			return err
		}
	}

	fmt.Fprintf(app.Out, "Captured %d pages into %s\n", result.Total, cfg.OutputDir)
	return nil
}
