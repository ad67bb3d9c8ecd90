package cli

import (
	"github.com/spf13/cobra"

	"github.com/bdougie/pagecap/internal/window"
)

func newWindowsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List the windows that can be captured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.NewPlatform()
			if err != nil {
				return err
			}
			list, err := window.NewLocator(p, app.Logger).List(cmd.Context())
			if err != nil {
				return err
			}
			window.RenderTable(app.Out, list)
			return nil
		},
	}
}
