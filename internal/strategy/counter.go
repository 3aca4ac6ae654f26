package strategy

import (
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/game"
)

// deviation overrides basic strategy for one total against one upcard value
// when the true count satisfies applies.
type deviation struct {
	total   int
	upcard  int
	action  game.Action
	applies func(tc float64) bool
}

var deviations = []deviation{
	{16, 10, game.Stand, func(tc float64) bool { return tc >= 0 }},
	{15, 10, game.Stand, func(tc float64) bool { return tc >= 4 }},
	{13, 2, game.Hit, func(tc float64) bool { return tc <= -1 }},
	{12, 3, game.Hit, func(tc float64) bool { return tc <= 0 }},
	{12, 2, game.Stand, func(tc float64) bool { return tc >= 3 }},
}

// InsuranceTrueCount is the true count at which the counter takes insurance
const InsuranceTrueCount = 3

// CardCounter plays basic strategy adjusted by the Hi-Lo true count
type CardCounter struct{}

func (CardCounter) Kind() game.Kind { return game.KindCardCounter }

func (CardCounter) Decide(s game.Situation) game.Action {
	tc := s.Count.TrueCount()

	if s.Upcard.Rank == deck.Ace && !s.Count.InsuranceTaken && tc >= InsuranceTrueCount {
		return game.Insurance
	}

	total, up := s.Hand.Value(), s.Upcard.Value()
	for _, d := range deviations {
		if d.total == total && d.upcard == up && d.applies(tc) {
			return d.action
		}
	}

	return Basic{}.Decide(s)
}
