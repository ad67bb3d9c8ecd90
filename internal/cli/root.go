package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdougie/pagecap/internal/analyzer"
	"github.com/bdougie/pagecap/internal/config"
	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/platform"
	"github.com/bdougie/pagecap/internal/window"
)

// App carries the dependencies shared by the commands
type App struct {
	Logger   *slog.Logger
	Level    *slog.LevelVar
	Out      io.Writer
	Progress io.Writer

	NewPlatform  func() (platform.Platform, error)
	PromptWindow func([]models.WindowRef) (models.WindowRef, error)
	NewDescriber func(ctx context.Context, logger *slog.Logger, cfg analyzer.AgentConfig) (analyzer.Describer, error)

	v       *viper.Viper
	cfgFile string
}

// NewApp returns an App wired to the real platform, terminal and model
func NewApp(logger *slog.Logger, level *slog.LevelVar) *App {
	return &App{
		Logger:   logger,
		Level:    level,
		Out:      os.Stdout,
		Progress: os.Stderr,
		NewPlatform: func() (platform.Platform, error) {
			return platform.New(logger)
		},
		PromptWindow: window.Prompt,
		NewDescriber: func(ctx context.Context, logger *slog.Logger, cfg analyzer.AgentConfig) (analyzer.Describer, error) {
			return analyzer.NewAgent(ctx, logger, cfg)
		},
	}
}

// NewRootCommand builds the pagecap command tree
func NewRootCommand(app *App) *cobra.Command {
	app.v = viper.New()

	root := &cobra.Command{
		Use:   "pagecap",
		Short: "Capture a window page by page and assemble the pages into a PDF",
		Long: `pagecap activates a window (an e-book reader, a document viewer), captures it,
trims UI chrome, sends a page-advance key and repeats, for a fixed number of pages
or until the page stops changing. The pages are then merged into output.pdf.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := config.Init(app.v, app.cfgFile); err != nil {
				return err
			}
			return app.setLevel(app.v.GetString("log-level"))
		},
	}

	root.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default $HOME/.config/pagecap/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newCaptureCommand(app),
		newPDFOnlyCommand(app),
		newWindowsCommand(app),
		newAnalyzeCommand(app),
		newSimilarCommand(app),
	)
	return root
}

// Execute runs the command line and returns the first fatal error
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (app *App) setLevel(name string) error {
	if app.Level == nil {
		return nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return fmt.Errorf("invalid log level %q", name)
	}
	app.Level.Set(level)
	return nil
}
