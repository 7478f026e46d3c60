// Package report renders and exports batch results.
package report

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"bgreer104/skuchecker/internal/checker"
)

// RenderTable writes the results as a formatted table.
func RenderTable(out io.Writer, results []checker.CheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Query", "Site", "Status", "Product Name", "URL", "HTTP", "Notes"})
	for _, result := range results {
		t.AppendRow(table.Row{
			result.Query,
			result.Site,
			string(result.Status),
			result.ProductName,
			result.URL,
			httpColumn(result.HTTPStatus),
			result.Notes,
		})
	}

	t.Render()
}

func httpColumn(status int) string {
	if status == 0 {
		return ""
	}
	return strconv.Itoa(status)
}
