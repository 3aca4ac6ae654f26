// Package analysis estimates player edge and bankroll risk from round
// outcomes.
package analysis

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/lox/blackjacksim/internal/game"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBankroll is the starting bankroll used for ruin and drawdown
const DefaultBankroll = 10000

// Report is the edge and risk analysis of one run
type Report struct {
	Name string `json:"name"`

	// Edge per unit bet, over rounds with a positive bet
	N          int     `json:"n"`
	MeanEdge   float64 `json:"mean_edge"`
	StdEdge    float64 `json:"std_edge"`
	StdError   float64 `json:"std_error"`
	CI95Low    float64 `json:"ci95_low"`
	CI95High   float64 `json:"ci95_high"`
	TStatistic float64 `json:"t_statistic"`
	PValue     float64 `json:"p_value"`

	TotalProfit  float64 `json:"total_profit"`
	TotalWagered float64 `json:"total_wagered"`
	OverallEdge  float64 `json:"overall_edge"` // total profit / total wagered

	Bankroll      float64 `json:"bankroll"`
	FinalBankroll float64 `json:"final_bankroll"`
	MinBankroll   float64 `json:"min_bankroll"`
	Ruined        bool    `json:"ruined"`
	MaxDrawdown   float64 `json:"max_drawdown"`
}

// Analyze computes the edge and bankroll statistics of outcomes. Rounds with a
// zero bet count toward totals but not toward the per-unit edge.
func Analyze(name string, outcomes []game.Outcome, bankroll float64) Report {
	r := Report{Name: name, Bankroll: bankroll}

	profits := make([]float64, len(outcomes))
	perUnit := make([]float64, 0, len(outcomes))
	for i, o := range outcomes {
		profits[i] = o.Profit
		r.TotalProfit += o.Profit
		r.TotalWagered += o.Bet
		if o.Bet > 0 {
			perUnit = append(perUnit, o.Profit/o.Bet)
		}
	}
	if r.TotalWagered > 0 {
		r.OverallEdge = r.TotalProfit / r.TotalWagered
	}

	r.N = len(perUnit)
	switch {
	case r.N == 1:
		r.MeanEdge = perUnit[0]
		r.CI95Low, r.CI95High = r.MeanEdge, r.MeanEdge
		r.PValue = 1
	case r.N > 1:
		r.MeanEdge, r.StdEdge = stat.MeanStdDev(perUnit, nil)
		r.StdError = r.StdEdge / math.Sqrt(float64(r.N))
		r.CI95Low = r.MeanEdge - 1.96*r.StdError
		r.CI95High = r.MeanEdge + 1.96*r.StdError
		r.TStatistic, r.PValue = tTest(r.MeanEdge, r.StdError, r.N-1)
	}

	path := BankrollPath(profits, bankroll)
	r.FinalBankroll = bankroll
	r.MinBankroll = bankroll
	if len(path) > 0 {
		r.FinalBankroll = path[len(path)-1]
		r.MinBankroll = path[0]
		for _, v := range path {
			r.MinBankroll = math.Min(r.MinBankroll, v)
		}
	}
	r.Ruined = Ruined(path)
	r.MaxDrawdown = MaxDrawdown(path)

	return r
}

// tTest runs a two-sided one-sample t-test of the mean against zero
func tTest(mean, stdError float64, df int) (float64, float64) {
	if stdError == 0 {
		if mean == 0 {
			return 0, 1
		}
		return math.Copysign(math.Inf(1), mean), 0
	}
	t := mean / stdError
	dist := distuv.StudentsT{Nu: float64(df), Mu: 0, Sigma: 1}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return t, math.Max(0, math.Min(1, p))
}

// BankrollPath returns the bankroll after each round
func BankrollPath(profits []float64, bankroll float64) []float64 {
	path := make([]float64, len(profits))
	running := bankroll
	for i, p := range profits {
		running += p
		path[i] = running
	}
	return path
}

// Ruined reports whether the bankroll ever reached zero
func Ruined(path []float64) bool {
	for _, v := range path {
		if v <= 0 {
			return true
		}
	}
	return false
}

// MaxDrawdown returns the largest fall from a running peak of the path
func MaxDrawdown(path []float64) float64 {
	var maxDD float64
	peak := math.Inf(-1)
	for _, v := range path {
		peak = math.Max(peak, v)
		maxDD = math.Max(maxDD, peak-v)
	}
	return maxDD
}

// InterpretPValue returns a human-readable interpretation of p-value
func InterpretPValue(p float64, alpha float64) string {
	switch {
	case p < 0.001:
		return "highly significant"
	case p < 0.01:
		return "very significant"
	case p < alpha:
		return "significant"
	case p < 0.10:
		return "marginally significant"
	default:
		return "not significant"
	}
}

// ThresholdPrefix names the results of fixed-threshold runs: fixed_threshold_15
const ThresholdPrefix = "fixed_threshold_"

// ThresholdRow is one line of the fixed-threshold comparison
type ThresholdRow struct {
	Threshold int
	Edge      float64
	CI95Low   float64
	CI95High  float64
}

// ThresholdTable picks the fixed-threshold reports out of reports and orders
// them by threshold
func ThresholdTable(reports []Report) []ThresholdRow {
	var rows []ThresholdRow
	for _, r := range reports {
		suffix, ok := strings.CutPrefix(r.Name, ThresholdPrefix)
		if !ok {
			continue
		}
		threshold, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		rows = append(rows, ThresholdRow{
			Threshold: threshold,
			Edge:      r.OverallEdge,
			CI95Low:   r.CI95Low,
			CI95High:  r.CI95High,
		})
	}
	slices.SortFunc(rows, func(a, b ThresholdRow) int { return a.Threshold - b.Threshold })
	return rows
}
