// Package betting sizes the stake for each round.
package betting

import (
	"errors"
	"fmt"

	"github.com/lox/blackjacksim/internal/game"
)

// ErrUnknownBetting is returned for a betting system name that is not registered
var ErrUnknownBetting = errors.New("unknown betting system")

const (
	NameFlat       = "flat"
	NameMartingale = "martingale"
)

// History is what a betting system may look at when sizing the next bet
type History struct {
	BaseBet    float64
	LastResult game.Result
	CurrentBet float64 // the stake of the previous round
	HasLast    bool    // false before the first round of a stream
}

// Strategy sizes the next bet
type Strategy interface {
	Name() string
	NextBet(h History) float64
}

// Names returns the names of all built-in betting systems
func Names() []string {
	return []string{NameFlat, NameMartingale}
}

// New returns the betting system registered under name. An empty name is flat.
func New(name string) (Strategy, error) {
	switch name {
	case "", NameFlat:
		return Flat{}, nil
	case NameMartingale:
		return Martingale{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBetting, name)
	}
}

// Flat always bets the base bet
type Flat struct{}

func (Flat) Name() string { return NameFlat }

func (Flat) NextBet(h History) float64 { return h.BaseBet }

// Martingale doubles the previous stake after a loss and returns to the base
// bet after anything else.
type Martingale struct{}

func (Martingale) Name() string { return NameMartingale }

func (Martingale) NextBet(h History) float64 {
	if h.HasLast && h.LastResult == game.ResultLoss {
		return h.CurrentBet * 2
	}
	return h.BaseBet
}

// CountSpread sizes a counting player's bet from the true count. Counts below
// 1 bet the base, exactly 2 bets 2.5x, exactly 3 bets 5x and 4 or more bets
// 10x. Every other count, including the range between 1 and 2, bets the base.
func CountSpread(base, trueCount float64) float64 {
	switch {
	case trueCount < 1:
		return base
	case trueCount == 2:
		return base * 2.5
	case trueCount == 3:
		return base * 5
	case trueCount >= 4:
		return base * 10
	default:
		return base
	}
}
