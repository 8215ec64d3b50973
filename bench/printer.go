package bench

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	slowStyle   = cellStyle.Foreground(lipgloss.Color("203"))
	mediumStyle = cellStyle.Foreground(lipgloss.Color("221"))
	fastStyle   = cellStyle.Foreground(lipgloss.Color("78"))
)

func PrintBanner(title string) {
	fmt.Println("═══════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("═══════════════════════════════════════════")
}

func Step(n, total int, msg string) {
	fmt.Printf("\n[%d/%d] %s\n", n, total, msg)
}

func OK(format string, args ...any) {
	fmt.Printf("  ✓ %s\n", fmt.Sprintf(format, args...))
}

func Fail(format string, args ...any) {
	fmt.Printf("  ✗ %s\n", fmt.Sprintf(format, args...))
}

// SummaryTable renders results as a terminal table, rows colored by latency band.
func SummaryTable(results []Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Name,
			r.Category,
			FmtDur(r.AvgTime),
			FmtDur(r.MinTime),
			FmtDur(r.MaxTime),
			FmtDur(r.P95),
			strconv.Itoa(int(r.RowCount)),
			strconv.Itoa(r.Iterations),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Query", "Category", "Avg", "Min", "Max", "p95", "Rows", "Runs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(results) {
				return cellStyle
			}
			switch Band(results[row].AvgTime) {
			case BandSlow:
				return slowStyle
			case BandMedium:
				return mediumStyle
			default:
				return fastStyle
			}
		})
	return t.String()
}

func PrintSummary(results []Result) {
	if len(results) == 0 {
		fmt.Println("  No query produced a result")
		return
	}
	fmt.Println(SummaryTable(results))
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	if us < 1_000_000 {
		return fmt.Sprintf("%.2fms", us/1000)
	}
	return fmt.Sprintf("%.3fs", us/1_000_000)
}
