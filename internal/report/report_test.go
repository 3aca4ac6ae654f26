package report

import (
	"strings"
	"testing"
	"time"

	"github.com/lox/blackjacksim/internal/analysis"
	"github.com/lox/blackjacksim/internal/statistics"
	"github.com/lox/blackjacksim/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSummaryTable(t *testing.T) {
	out := SummaryTable([]Row{
		{Name: "basic", Summary: statistics.Summary{Rounds: 1000, TotalProfit: -52.5, WinRate: 0.43, LossRate: 0.48, PushRate: 0.09, AvgBet: 10, MaxBet: 10}},
		{Name: "card_counter", Summary: statistics.Summary{Rounds: 1000, TotalProfit: 125, AvgBet: 14.5, MaxBet: 100}},
	})

	for _, want := range []string{"Strategy", "MaxBet", "basic", "card_counter", "$-52.50", "$125.00", "43.00%", "14.50", "100.00"} {
		assert.Contains(t, out, want)
	}
}

func TestRunSummary(t *testing.T) {
	out := RunSummary("mimic_dealer", statistics.Summary{
		Rounds: 10, TotalProfit: -20, TotalWagered: 100, Diagnostics: 1,
		P05Profit: -10, MedianProfit: -5, P95Profit: 15,
	})
	assert.Contains(t, out, "Profit percentiles: 5% -10.00, median -5.00, 95% 15.00")
	assert.Contains(t, out, "mimic_dealer")
	assert.Contains(t, out, "Rounds played: 10")
	assert.Contains(t, out, "Illegal strategy actions: 1")

	out = RunSummary("basic", statistics.Summary{Rounds: 10})
	assert.NotContains(t, out, "Illegal")
}

func TestAnalysis(t *testing.T) {
	out := Analysis([]analysis.Report{
		{Name: "martingale", OverallEdge: -0.01, PValue: 0.2, N: 100, Bankroll: 10000, Ruined: true, MaxDrawdown: 10230},
		{Name: "fixed_threshold_13", OverallEdge: -0.05, CI95Low: -0.06, CI95High: -0.04, N: 100, Bankroll: 10000},
		{Name: "fixed_threshold_12", OverallEdge: -0.07, N: 100, Bankroll: 10000},
	}, 0.05)

	assert.Contains(t, out, "martingale:")
	assert.Contains(t, out, "Mean Edge: -1.00%")
	assert.Contains(t, out, "not significant")
	assert.Contains(t, out, "max drawdown 10230.00")
	assert.Contains(t, out, "Fixed threshold comparison")
	assert.Contains(t, out, "[-6.00%, -4.00%]")
	assert.Less(t, strings.LastIndex(out, "-7.00%"), strings.LastIndex(out, "-5.00%"), "thresholds in order")
}

func TestAnalysisWithoutThresholds(t *testing.T) {
	out := Analysis([]analysis.Report{{Name: "basic"}}, 0.05)
	assert.NotContains(t, out, "Fixed threshold comparison")
}

func TestRunsTable(t *testing.T) {
	out := RunsTable([]store.Run{{
		ID:        "5f0c",
		Name:      "basic",
		Strategy:  "basic",
		Betting:   "flat",
		Rounds:    500,
		Summary:   statistics.Summary{TotalProfit: 30},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local),
	}})
	for _, want := range []string{"5f0c", "flat", "500", "$30.00", "2025-03-01 12:00:00"} {
		assert.Contains(t, out, want)
	}
}
