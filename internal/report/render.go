package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const titleWidth = 25

// Render writes the report to the given writer, section by section.
func Render(w io.Writer, r *Report) {
	for _, s := range r.Sections {
		renderTitle(w, s.Title)
		for _, row := range s.Rows {
			fmt.Fprintf(w, "%s: %s\n", row.Key, row.Value)
		}
		if s.Table != nil {
			t := tablewriter.NewWriter(w)
			t.SetHeader(s.Table.Header)
			t.AppendBulk(s.Table.Rows)
			t.Render()
		}
		fmt.Fprintln(w)
	}
}

func renderTitle(w io.Writer, title string) {
	width := titleWidth
	if len(title)+4 > width {
		width = len(title) + 4
	}
	fmt.Fprintln(w, strings.Repeat("*", width))
	fmt.Fprintf(w, "* %s%s *\n", title, strings.Repeat(" ", width-len(title)-4))
	fmt.Fprintln(w, strings.Repeat("*", width))
}
