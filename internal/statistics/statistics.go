// Package statistics accumulates round outcomes into summary statistics.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjacksim/internal/game"
)

// Statistics tracks the running totals of a simulation
type Statistics struct {
	Rounds     int
	SumProfit  float64
	SumProfit2 float64   // Sum of squares for variance calculation
	Values     []float64 // Profit of every round for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	TotalWagered float64 // sum of initial bets
	MinBet       float64
	MaxBet       float64

	PlayerBlackjacks int
	DealerBlackjacks int
	Doubles          int
	Splits           int
	Insured          int
	Diagnostics      int // illegal strategy actions replaced by the fallback
}

// Add incorporates a round outcome into the statistics
func (s *Statistics) Add(o game.Outcome) {
	s.Rounds++
	s.SumProfit += o.Profit
	s.SumProfit2 += o.Profit * o.Profit
	s.Values = append(s.Values, o.Profit)

	switch o.Result {
	case game.ResultWin:
		s.Wins++
	case game.ResultLoss:
		s.Losses++
	default:
		s.Pushes++
	}

	s.TotalWagered += o.Bet
	if s.Rounds == 1 || o.Bet < s.MinBet {
		s.MinBet = o.Bet
	}
	if o.Bet > s.MaxBet {
		s.MaxBet = o.Bet
	}

	if o.PlayerBlackjack {
		s.PlayerBlackjacks++
	}
	if o.DealerBlackjack {
		s.DealerBlackjacks++
	}
	if o.Doubled {
		s.Doubles++
	}
	if o.Split {
		s.Splits++
	}
	if o.Insured {
		s.Insured++
	}
	s.Diagnostics += o.Diagnostics
}

// Mean returns the mean profit per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumProfit / float64(s.Rounds)
}

// Variance returns the sample variance of the per-round profit
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumProfit2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
	if v < 0 {
		// rounding when every value is identical
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation of the per-round profit
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-round profit
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the profit at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// rate returns n as a fraction of all rounds
func (s *Statistics) rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// Validate checks the accumulated totals are internally consistent
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if total := s.Wins + s.Losses + s.Pushes; total != s.Rounds {
		return fmt.Errorf("results total (%d) does not match rounds count (%d)", total, s.Rounds)
	}
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.SumProfit) > 1e-6 {
		return fmt.Errorf("ledger mismatch: values sum to %.6f, total profit %.6f", sum, s.SumProfit)
	}
	return nil
}

// Summary is the serialized digest of a run
type Summary struct {
	Rounds       int     `json:"rounds"`
	TotalProfit  float64 `json:"total_profit"`
	TotalWagered float64 `json:"total_wagered"`
	WinRate      float64 `json:"win_rate"`
	LossRate     float64 `json:"loss_rate"`
	PushRate     float64 `json:"push_rate"`
	AvgBet       float64 `json:"avg_bet"`
	MinBet       float64 `json:"min_bet"`
	MaxBet       float64 `json:"max_bet"`

	MeanProfit float64 `json:"mean_profit"`
	StdDev     float64 `json:"stddev"`
	CILow      float64 `json:"ci95_low"`
	CIHigh     float64 `json:"ci95_high"`

	MedianProfit float64 `json:"median_profit"`
	P05Profit    float64 `json:"p05_profit"`
	P95Profit    float64 `json:"p95_profit"`

	PlayerBlackjacks int `json:"player_blackjacks"`
	Doubles          int `json:"doubles"`
	Splits           int `json:"splits"`
	Insured          int `json:"insured"`
	Diagnostics      int `json:"diagnostics"`
}

// Summary returns the digest of the accumulated rounds
func (s *Statistics) Summary() Summary {
	low, high := s.ConfidenceInterval95()
	sum := Summary{
		Rounds:           s.Rounds,
		TotalProfit:      s.SumProfit,
		TotalWagered:     s.TotalWagered,
		WinRate:          s.rate(s.Wins),
		LossRate:         s.rate(s.Losses),
		PushRate:         s.rate(s.Pushes),
		MinBet:           s.MinBet,
		MaxBet:           s.MaxBet,
		MeanProfit:       s.Mean(),
		StdDev:           s.StdDev(),
		CILow:            low,
		CIHigh:           high,
		MedianProfit:     s.Median(),
		P05Profit:        s.Percentile(0.05),
		P95Profit:        s.Percentile(0.95),
		PlayerBlackjacks: s.PlayerBlackjacks,
		Doubles:          s.Doubles,
		Splits:           s.Splits,
		Insured:          s.Insured,
		Diagnostics:      s.Diagnostics,
	}
	if s.Rounds > 0 {
		sum.AvgBet = s.TotalWagered / float64(s.Rounds)
	}
	return sum
}

// Summarize accumulates outcomes and returns their summary
func Summarize(outcomes []game.Outcome) Summary {
	var s Statistics
	for _, o := range outcomes {
		s.Add(o)
	}
	return s.Summary()
}
