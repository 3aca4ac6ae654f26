// Package report renders simulation summaries and analyses for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/blackjacksim/internal/analysis"
	"github.com/lox/blackjacksim/internal/statistics"
	"github.com/lox/blackjacksim/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	profitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Row is one run in a comparison table
type Row struct {
	Name    string
	Summary statistics.Summary
}

func money(v float64) string {
	s := fmt.Sprintf("$%.2f", v)
	if v < 0 {
		return lossStyle.Render(s)
	}
	return profitStyle.Render(s)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", 100*v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// SummaryTable renders the batch comparison: one line per run
func SummaryTable(rows []Row) string {
	t := newTable("Strategy", "Rounds", "Profit", "Win%", "Loss%", "Push%", "AvgBet", "MaxBet")
	for _, r := range rows {
		s := r.Summary
		t.Row(
			r.Name,
			fmt.Sprintf("%d", s.Rounds),
			money(s.TotalProfit),
			pct(s.WinRate),
			pct(s.LossRate),
			pct(s.PushRate),
			fmt.Sprintf("%.2f", s.AvgBet),
			fmt.Sprintf("%.2f", s.MaxBet),
		)
	}
	return t.Render()
}

// RunSummary renders the detailed summary of a single run
func RunSummary(name string, s statistics.Summary) string {
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("=== %s ===", name)))
	fmt.Fprintf(&b, "Rounds played: %d\n", s.Rounds)
	fmt.Fprintf(&b, "Total profit: %s on %.2f wagered\n", money(s.TotalProfit), s.TotalWagered)
	fmt.Fprintf(&b, "Win/Loss/Push: %s / %s / %s\n", pct(s.WinRate), pct(s.LossRate), pct(s.PushRate))
	fmt.Fprintf(&b, "Bets: avg %.2f, min %.2f, max %.2f\n", s.AvgBet, s.MinBet, s.MaxBet)
	fmt.Fprintf(&b, "Profit per round: mean %.4f, std dev %.4f, 95%% CI [%.4f, %.4f]\n",
		s.MeanProfit, s.StdDev, s.CILow, s.CIHigh)
	fmt.Fprintf(&b, "Profit percentiles: 5%% %.2f, median %.2f, 95%% %.2f\n",
		s.P05Profit, s.MedianProfit, s.P95Profit)
	fmt.Fprintf(&b, "Blackjacks: %d, doubles: %d, splits: %d, insured: %d\n",
		s.PlayerBlackjacks, s.Doubles, s.Splits, s.Insured)
	if s.Diagnostics > 0 {
		fmt.Fprintln(&b, lossStyle.Render(fmt.Sprintf("Illegal strategy actions: %d", s.Diagnostics)))
	}
	return b.String()
}

// Analysis renders the edge analysis of each report, the fixed-threshold
// comparison and bankroll risk
func Analysis(reports []analysis.Report, alpha float64) string {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintln(&b, titleStyle.Render(r.Name+":"))
		fmt.Fprintf(&b, "  Mean Edge: %s\n", pct(r.OverallEdge))
		fmt.Fprintf(&b, "  95%% CI: [%s, %s]\n", pct(r.CI95Low), pct(r.CI95High))
		fmt.Fprintf(&b, "  p-value (edge != 0): %.4g (%s)\n", r.PValue, analysis.InterpretPValue(r.PValue, alpha))
		fmt.Fprintf(&b, "  Std Dev: %s\n", pct(r.StdEdge))
		fmt.Fprintf(&b, "  N: %d\n", r.N)
		ruined := "No"
		if r.Ruined {
			ruined = lossStyle.Render("Yes")
		}
		fmt.Fprintf(&b, "  Ruin (bankroll %.0f): %s, max drawdown %.2f\n\n", r.Bankroll, ruined, r.MaxDrawdown)
	}

	if rows := analysis.ThresholdTable(reports); len(rows) > 0 {
		t := newTable("Threshold", "Player Edge", "95% CI")
		for _, row := range rows {
			t.Row(
				fmt.Sprintf("%d", row.Threshold),
				pct(row.Edge),
				fmt.Sprintf("[%s, %s]", pct(row.CI95Low), pct(row.CI95High)),
			)
		}
		fmt.Fprintln(&b, titleStyle.Render("Fixed threshold comparison"))
		fmt.Fprintln(&b, t.Render())
	}
	return b.String()
}

// RunsTable renders stored runs
func RunsTable(runs []store.Run) string {
	t := newTable("ID", "Name", "Strategy", "Betting", "Rounds", "Profit", "Created")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.Name,
			r.Strategy,
			r.Betting,
			fmt.Sprintf("%d", r.Rounds),
			money(r.Summary.TotalProfit),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return t.Render()
}
