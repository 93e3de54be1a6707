package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

const (
	defaultWidth   = 100
	minColumnWidth = 4
	columnGap      = " | "
)

// terminalSize is a test seam for term.GetSize.
var terminalSize = term.GetSize

func terminalWidth() int {
	w, _, err := terminalSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// listColumns returns the identifier followed by the schema fields of e.
func listColumns(e schema.Entity) []string {
	id, _ := schema.Identity(e)
	cols := []string{id}
	for _, f := range schema.FieldsFor(e) {
		cols = append(cols, f.Wire)
	}
	return cols
}

// renderTable writes rows as an aligned text table no wider than width.
// Over-long cells are cut with "~".
func renderTable(w io.Writer, columns []string, rows []client.Record, width int) {
	if len(columns) == 0 {
		return
	}
	headers := make([]string, len(columns))
	widths := make([]int, len(columns))
	for i, c := range columns {
		headers[i] = schema.Header(c)
		widths[i] = utf8.RuneCountInString(headers[i])
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, c := range columns {
			v := strings.ReplaceAll(row.Text(c), "\n", " ")
			cells[r][i] = v
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
	}
	fitWidths(widths, width-len(columnGap)*(len(columns)-1))

	writeRow(w, headers, widths)
	rule := make([]string, len(columns))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(w, strings.Join(rule, "-+-"))
	for _, row := range cells {
		writeRow(w, row, widths)
	}
}

// fitWidths narrows the widest columns until the total fits budget or every
// column is at minColumnWidth.
func fitWidths(widths []int, budget int) {
	for {
		total, widest := 0, 0
		for i, n := range widths {
			total += n
			if n > widths[widest] {
				widest = i
			}
		}
		if total <= budget || widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = pad(truncate(c, widths[i]), widths[i])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(out, columnGap), " "))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "~"
}

func pad(s string, n int) string {
	if gap := n - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
