package benchreport

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Format controls how many rows a printed view shows. A view longer than
// MaxRows is cut to its first and last MinRows/2 rows around a "..." row.
// MaxRows <= 0 disables truncation.
type Format struct {
	MaxRows int
	MinRows int
}

func DefaultFormat() Format {
	return Format{MaxRows: 100, MinRows: 10}
}

// Render writes the value-count view, a blank line, then the min/max view.
func Render(w io.Writer, r Report, f Format) error {
	counts := make([][]string, 0, len(r.ValueCounts))
	for _, vc := range r.ValueCounts {
		counts = append(counts, []string{vc.Name, strconv.FormatInt(vc.NS, 10), strconv.Itoa(vc.Count)})
	}
	if err := renderTable(w, []string{"name", "ns", "count"}, counts, f); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	minmax := make([][]string, 0, len(r.MinMax))
	for _, mm := range r.MinMax {
		minmax = append(minmax, []string{mm.Name, strconv.FormatInt(mm.Min, 10), strconv.FormatInt(mm.Max, 10)})
	}
	return renderTable(w, []string{"name", "min", "max"}, minmax, f)
}

func renderTable(w io.Writer, header []string, rows [][]string, f Format) error {
	shown, truncated := truncate(rows, f, len(header))

	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetColumnSeparator("")
	t.SetCenterSeparator("")
	t.SetRowSeparator("")
	t.SetTablePadding("  ")
	t.SetNoWhiteSpace(true)
	t.AppendBulk(shown)
	t.Render()

	if truncated {
		if _, err := fmt.Fprintf(w, "[%d rows]\n", len(rows)); err != nil {
			return err
		}
	}
	return nil
}

func truncate(rows [][]string, f Format, width int) ([][]string, bool) {
	if f.MaxRows <= 0 || len(rows) <= f.MaxRows {
		return rows, false
	}
	keep := f.MinRows
	if keep <= 0 || keep > f.MaxRows {
		keep = f.MaxRows
	}
	head := keep / 2
	tail := keep - head

	ellipsis := make([]string, width)
	for i := range ellipsis {
		ellipsis[i] = "..."
	}

	out := make([][]string, 0, keep+1)
	out = append(out, rows[:head]...)
	out = append(out, ellipsis)
	out = append(out, rows[len(rows)-tail:]...)
	return out, true
}
