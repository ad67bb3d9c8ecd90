package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bdougie/pagecap/internal/config"
	"github.com/bdougie/pagecap/internal/pdf"
)

func newPDFOnlyCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf-only",
		Short: "Build output.pdf from the pages already in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := config.ExpandPath(app.v.GetString("input"))
			out, err := pdf.NewAssembler(app.Logger).AssembleFromDirectory(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "PDF saved to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", config.DefaultOutputDir(), "directory holding the page images")
	return cmd
}
