package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"

	"github.com/discolinks/discolinks"
	"github.com/discolinks/discolinks/pkg/processor"
)

// renderTable draws rows with a rounded style on terminals and plain ASCII otherwise.
func renderTable(w io.Writer, headers []string, rows [][]string, rightAligned ...int) string {
	tw := table.NewWriter()
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(lo.Map(headers, func(h string, _ int) interface{} { return h }))
	for _, row := range rows {
		tw.AppendRow(lo.Map(row, func(cell string, _ int) interface{} { return cell }))
	}

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderReport prints the run summary and, when anything was skipped, a table of the skipped items.
func renderReport(w io.Writer, report *processor.Report) {
	fmt.Fprintf(w, "Exported %d of %d episodes of %s to %s\n", report.Resolved, report.Selected, report.Show.Name, report.OutputPath)
	if report.Aborted {
		fmt.Fprintf(w, "Interrupted after %d of %d episodes\n", report.Rows, report.Selected)
	}
	if report.Waited > 0 {
		fmt.Fprintf(w, "Waited %s for rate limits\n", report.Waited)
	}
	if len(report.SkippedPages) > 0 {
		pages := lo.Map(report.SkippedPages, func(p int, _ int) string { return strconv.Itoa(p) })
		fmt.Fprintf(w, "Skipped listing pages (episodes missing): %s\n", strings.Join(pages, ", "))
	}
	if len(report.Failures) == 0 {
		return
	}

	fmt.Fprintf(w, "%d episodes without link:\n", len(report.Failures))
	rows := lo.Map(report.Failures, func(f processor.Failure, i int) []string {
		return []string{strconv.Itoa(i + 1), f.Episode.String(), f.FileName, strconv.Itoa(f.Attempts), f.Err.Error()}
	})
	fmt.Fprintln(w, renderTable(w, []string{"#", "Episode", "File name", "Attempts", "Reason"}, rows, 1, 4))
}

// renderEpisodes prints a selection as a table.
func renderEpisodes(w io.Writer, selection *processor.Selection) {
	fmt.Fprintf(w, "%s (%d of %d episodes)\n", selection.Show.Name, len(selection.Episodes), selection.Total)
	rows := lo.Map(selection.Episodes, func(e discolinks.Episode, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			e.ID,
			e.String(),
			formatDate(e.AirDate.OrEmpty()),
			formatDuration(e.Duration.OrEmpty()),
			lo.Ternary(e.DRMEnabled, "yes", ""),
		}
	})
	fmt.Fprintln(w, renderTable(w, []string{"#", "ID", "Episode", "Aired", "Duration", "DRM"}, rows, 1, 5))
	if len(selection.SkippedPages) > 0 {
		pages := lo.Map(selection.SkippedPages, func(p int, _ int) string { return strconv.Itoa(p) })
		fmt.Fprintf(w, "Skipped listing pages (episodes missing): %s\n", strings.Join(pages, ", "))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(time.Second).String()
}
