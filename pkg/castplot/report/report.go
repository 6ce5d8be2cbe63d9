// Package report prints per-character word-count summaries as a terminal table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/cognicore/castplot/pkg/castplot/store"
	"github.com/cognicore/castplot/pkg/castplot/table"
)

// Headers of the summary table, in column order.
var Headers = []string{"Character", "Sentences", "Min", "Median", "Mean", "Max", "Std Dev"}

// RunHeaders of the run listing, in column order.
var RunHeaders = []string{"Run", "Created", "Sentences", "Characters", "Source"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Rows formats summaries as table cells. Statistics of empty samples are
// shown as "-".
func Rows(sums []table.Summary) [][]string {
	rows := make([][]string, len(sums))
	for i, s := range sums {
		row := []string{s.Label, strconv.Itoa(s.Count)}
		if s.Count == 0 {
			row = append(row, "-", "-", "-", "-", "-")
		} else {
			row = append(row,
				formatNumber(s.Min),
				formatNumber(s.Median),
				formatNumber(s.Mean),
				formatNumber(s.Max),
				formatNumber(s.StdDev),
			)
		}
		rows[i] = row
	}
	return rows
}

// Render writes the summary table and the total sentence count to w.
func Render(w io.Writer, totalSentences int, sums []table.Summary) error {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(Rows(sums)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\n%d sentences analysed\n", t.Render(), totalSentences)
	return err
}

// RunRows formats stored runs as table cells.
func RunRows(runs []store.Run) [][]string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(r.RecordCount),
			strings.Join(r.Labels, ", "),
			r.SourceURL,
		}
	}
	return rows
}

// RenderRuns writes the run listing to w.
func RenderRuns(w io.Writer, runs []store.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs stored")
		return err
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(RunHeaders...).
		Rows(RunRows(runs)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				return numberStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
