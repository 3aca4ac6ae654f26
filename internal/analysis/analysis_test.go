package analysis

import (
	"math"
	"testing"

	"github.com/lox/blackjacksim/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomes(pairs ...float64) []game.Outcome {
	var out []game.Outcome
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, game.Outcome{Profit: pairs[i], Bet: pairs[i+1]})
	}
	return out
}

func TestAnalyzeEdge(t *testing.T) {
	// per-unit: 1, -1, 1.5, 0; the zero-bet round is excluded
	r := Analyze("basic", outcomes(10, 10, -20, 20, 15, 10, 0, 10, 0, 0), DefaultBankroll)

	assert.Equal(t, "basic", r.Name)
	assert.Equal(t, 4, r.N)
	assert.InDelta(t, 0.375, r.MeanEdge, 1e-9)

	// deviations 0.625, -1.375, 1.125, -0.375 → squares 3.6875 / 3
	wantStd := math.Sqrt(3.6875 / 3)
	assert.InDelta(t, wantStd, r.StdEdge, 1e-9)
	assert.InDelta(t, wantStd/2, r.StdError, 1e-9)
	assert.InDelta(t, r.MeanEdge-1.96*r.StdError, r.CI95Low, 1e-9)
	assert.InDelta(t, r.MeanEdge+1.96*r.StdError, r.CI95High, 1e-9)

	assert.Equal(t, 5.0, r.TotalProfit)
	assert.Equal(t, 50.0, r.TotalWagered)
	assert.InDelta(t, 0.1, r.OverallEdge, 1e-9)

	assert.InDelta(t, r.MeanEdge/r.StdError, r.TStatistic, 1e-9)
	assert.Greater(t, r.PValue, 0.05)
	assert.LessOrEqual(t, r.PValue, 1.0)
}

func TestAnalyzeSignificantLoss(t *testing.T) {
	var out []game.Outcome
	for i := 0; i < 1000; i++ {
		profit := -10.0
		if i%3 == 0 {
			profit = 10
		}
		out = append(out, game.Outcome{Profit: profit, Bet: 10})
	}
	r := Analyze("loser", out, DefaultBankroll)
	assert.Negative(t, r.MeanEdge)
	assert.Less(t, r.PValue, 0.001)
	assert.Equal(t, "highly significant", InterpretPValue(r.PValue, 0.05))
}

func TestAnalyzeEmpty(t *testing.T) {
	r := Analyze("empty", nil, DefaultBankroll)
	assert.Zero(t, r.N)
	assert.Zero(t, r.OverallEdge)
	assert.Equal(t, float64(DefaultBankroll), r.FinalBankroll)
	assert.False(t, r.Ruined)
	assert.Zero(t, r.MaxDrawdown)

	r = Analyze("zero bets", outcomes(0, 0, 0, 0), DefaultBankroll)
	assert.Zero(t, r.N)
	assert.Zero(t, r.OverallEdge)
}

func TestAnalyzeConstantEdge(t *testing.T) {
	r := Analyze("flat", outcomes(-10, 10, -10, 10, -10, 10), DefaultBankroll)
	assert.Equal(t, -1.0, r.MeanEdge)
	assert.Zero(t, r.StdEdge)
	assert.Zero(t, r.PValue)
}

func TestBankroll(t *testing.T) {
	path := BankrollPath([]float64{50, -30, 40, -100, 10}, 100)
	assert.Equal(t, []float64{150, 120, 160, 60, 70}, path)
	assert.False(t, Ruined(path))
	assert.Equal(t, 100.0, MaxDrawdown(path))

	path = BankrollPath([]float64{-60, -40, 200}, 100)
	assert.True(t, Ruined(path), "touching zero is ruin")
	assert.Equal(t, 40.0, MaxDrawdown(path))

	r := Analyze("martingale", outcomes(-60, 60, -40, 40, 200, 80), 100)
	assert.True(t, r.Ruined)
	assert.Equal(t, 0.0, r.MinBankroll)
	assert.Equal(t, 200.0, r.FinalBankroll)
	assert.Equal(t, 40.0, r.MaxDrawdown)
}

func TestThresholdTable(t *testing.T) {
	reports := []Report{
		{Name: "fixed_threshold_17", OverallEdge: -0.06},
		{Name: "basic", OverallEdge: -0.005},
		{Name: "fixed_threshold_12", OverallEdge: -0.07, CI95Low: -0.08, CI95High: -0.06},
		{Name: "fixed_threshold_x"},
	}
	rows := ThresholdTable(reports)
	require.Len(t, rows, 2)
	assert.Equal(t, 12, rows[0].Threshold)
	assert.Equal(t, -0.08, rows[0].CI95Low)
	assert.Equal(t, 17, rows[1].Threshold)
}

func TestInterpretPValue(t *testing.T) {
	assert.Equal(t, "very significant", InterpretPValue(0.005, 0.05))
	assert.Equal(t, "significant", InterpretPValue(0.03, 0.05))
	assert.Equal(t, "marginally significant", InterpretPValue(0.07, 0.05))
	assert.Equal(t, "not significant", InterpretPValue(0.5, 0.05))
}
