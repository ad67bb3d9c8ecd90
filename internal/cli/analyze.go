package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdougie/pagecap/internal/analyzer"
	"github.com/bdougie/pagecap/internal/config"
	"github.com/bdougie/pagecap/internal/storage"
)

func newAnalyzeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Transcribe captured pages with a local vision model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadAnalyze(app.v)
			if err != nil {
				return err
			}

			describer, err := app.NewDescriber(ctx, app.Logger, analyzer.AgentConfig{
				OllamaURL: cfg.OllamaURL,
				Model:     cfg.Model,
			})
			if err != nil {
				return err
			}

			var store storage.Storage
			if cfg.DatabaseURL != "" {
				catalog, err := openCatalog(ctx, cfg.DatabaseURL, bookName(cfg.InputDir))
				if err != nil {
					return err
				}
				defer catalog.Close()
				store = catalog
			} else {
				store = storage.NewFileStorage(cfg.InputDir, app.Logger)
			}

			start := time.Now()
			processor := analyzer.NewProcessor(describer, store, cfg.Workers, app.Logger)
			if err := processor.ProcessPages(ctx, cfg.InputDir); err != nil {
				return err
			}

			app.Logger.Info("analysis complete", "duration", time.Since(start).Round(time.Second))
			if cfg.DatabaseURL == "" {
				fmt.Fprintf(app.Out, "Results saved to %s\n", filepath.Join(cfg.InputDir, storage.ResultsFileName))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", config.DefaultOutputDir(), "directory holding the page images")
	f.String("model", config.DefaultModel, "vision model served by Ollama")
	f.String("ollama-url", config.DefaultOllamaURL, "Ollama server URL")
	f.IntP("workers", "w", config.DefaultWorkers, "number of pages analyzed in parallel")
	f.String("db", "", "Postgres URL; results go to the catalog instead of a JSON file")
	return cmd
}
