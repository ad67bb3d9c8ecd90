package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bdougie/pagecap/internal/embeddings"
	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/storage"
)

func newSimilarCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Find cataloged pages that look like an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			image := app.v.GetString("image")
			dbURL := app.v.GetString("db")
			limit := app.v.GetInt("limit")
			if image == "" {
				return errors.New("--image is required")
			}
			if dbURL == "" {
				return errors.New("--db is required")
			}
			if limit <= 0 {
				limit = 5
			}

			thumb, err := embeddings.Thumbnail(image)
			if err != nil {
				return err
			}

			store, err := storage.NewPostgresStorage(ctx, dbURL, "")
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := store.SearchSimilarPages(ctx, thumb, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(app.Out, "No cataloged pages found")
				return nil
			}
			renderResults(app, results)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("image", "", "page image to search for")
	f.String("db", "", "Postgres URL of the page catalog")
	f.IntP("limit", "n", 5, "number of matches to show")
	return cmd
}

func renderResults(app *App, results []models.PageSearchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(app.Out)
	t.AppendHeader(table.Row{"Book", "Page", "Path", "Similarity"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Book, r.PageNumber, r.PagePath, fmt.Sprintf("%.3f", r.Similarity)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
