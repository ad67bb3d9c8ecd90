package window

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"

	"github.com/bdougie/pagecap/internal/models"
)

// Prompt asks the user to pick one window from list
func Prompt(list []models.WindowRef) (models.WindowRef, error) {
	if len(list) == 0 {
		return models.WindowRef{}, ErrNoWindowsFound
	}

	items := make([]string, len(list))
	for i, w := range list {
		items[i] = label(i, w)
	}

	prompt := promptui.Select{
		Label: "Select the window to capture",
		Items: items,
		Size:  15,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return models.WindowRef{}, fmt.Errorf("window selection aborted: %w", err)
	}
	return Select(list, index)
}

func label(i int, w models.WindowRef) string {
	if w.App == "" {
		return fmt.Sprintf("[%d] %s", i, w.Title)
	}
	return fmt.Sprintf("[%d] %s (%s)", i, w.Title, w.App)
}

// RenderTable writes the window list as a table, indexed for --window
func RenderTable(out io.Writer, list []models.WindowRef) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Title", "App", "PID", "Size"})
	for i, w := range list {
		size := ""
		if w.Bounds[2] > 0 && w.Bounds[3] > 0 {
			size = fmt.Sprintf("%dx%d", w.Bounds[2], w.Bounds[3])
		}
		pid := ""
		if w.PID > 0 {
			pid = strconv.Itoa(w.PID)
		}
		t.AppendRow(table.Row{i, w.Title, w.App, pid, size})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
