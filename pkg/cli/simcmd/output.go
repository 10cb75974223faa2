package simcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/sim/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lossStyle   = cellStyle.Foreground(lipgloss.Color("#FF5F87"))
	okStyle     = cellStyle.Foreground(lipgloss.Color("#5FD787"))
)

var resultHeaders = []string{
	"scenario", "baud a", "baud b", "ratio", "sent", "decoded", "intact",
	"completion", "framing", "resets", "bits lost", "ticks", "done",
}

// completionCol is the index of the completion column in resultHeaders.
const completionCol = 7

// renderResults renders results as a table, one row per transfer.
func renderResults(results []*sim.Result) string {
	rates := make([]float64, len(results))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(resultHeaders...)
	for n, r := range results {
		rates[n] = r.CompletionRate()
		t.Row(
			r.Name,
			strconv.FormatUint(uint64(r.A.BaudRate), 10),
			strconv.FormatUint(uint64(r.B.BaudRate), 10),
			fmt.Sprintf("%.3f", r.TimingRatio),
			strconv.Itoa(len(r.Sent)),
			strconv.Itoa(r.Decoded()),
			strconv.Itoa(r.Intact),
			fmt.Sprintf("%.1f%%", rates[n]*100),
			strconv.FormatUint(r.FramingErrors, 10),
			strconv.FormatUint(r.StateResets, 10),
			strconv.FormatUint(r.BitsLost, 10),
			strconv.FormatUint(r.Ticks, 10),
			strconv.FormatBool(r.Completed),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col != completionCol || row < 0 || row >= len(rates):
			return cellStyle
		case rates[row] < 1:
			return lossStyle
		}
		return okStyle
	})
	return t.String()
}

// writeResults prints the table, or the reports in JSON.
func writeResults(w io.Writer, results []*sim.Result, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, renderResults(results))
		return err
	}
	for _, r := range results {
		data, err := report.MarshalJSON(report.FromResult(r), "  ")
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// writeReport saves the protobuf report of r to fn.
func writeReport(fn string, r *sim.Result) error {
	data, err := report.Marshal(report.FromResult(r))
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(fn, data, 0644), "write report %s", fn)
}
