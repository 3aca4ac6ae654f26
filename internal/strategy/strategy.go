// Package strategy provides the built-in blackjack playing strategies.
package strategy

import (
	"errors"
	"fmt"

	"github.com/lox/blackjacksim/internal/game"
)

var (
	// ErrUnknownStrategy is returned for a strategy name that is not registered
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrInvalidThreshold is returned for a fixed-threshold outside MinThreshold..MaxThreshold
	ErrInvalidThreshold = errors.New("invalid threshold")
)

const (
	MinThreshold     = 12
	MaxThreshold     = 20
	DefaultThreshold = 15
)

// Config selects and parameterizes a strategy
type Config struct {
	Name      string // one of Names()
	Threshold int    // fixed-threshold only; 0 selects DefaultThreshold
}

// Names returns the names of all built-in strategies
func Names() []string {
	return []string{
		string(game.KindMimicDealer),
		string(game.KindFixedThreshold),
		string(game.KindDealerWeakness),
		string(game.KindBasic),
		string(game.KindCardCounter),
	}
}

// New validates cfg and returns the configured strategy
func New(cfg Config) (game.Strategy, error) {
	switch game.Kind(cfg.Name) {
	case game.KindMimicDealer:
		return MimicDealer{}, nil
	case game.KindFixedThreshold:
		threshold := cfg.Threshold
		if threshold == 0 {
			threshold = DefaultThreshold
		}
		s, err := NewFixedThreshold(threshold)
		if err != nil {
			return nil, err
		}
		return s, nil
	case game.KindDealerWeakness:
		return DealerWeakness{}, nil
	case game.KindBasic:
		return Basic{}, nil
	case game.KindCardCounter:
		return CardCounter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Name)
	}
}

// MimicDealer plays like the dealer: hit below 17, stand otherwise. It never
// doubles or splits.
type MimicDealer struct{}

func (MimicDealer) Kind() game.Kind { return game.KindMimicDealer }

func (MimicDealer) Decide(s game.Situation) game.Action {
	return hitBelow(s.Hand, 17)
}

// FixedThreshold hits below a configured total and stands otherwise
type FixedThreshold struct {
	threshold int
}

// NewFixedThreshold returns a fixed-threshold strategy. The threshold must be
// between MinThreshold and MaxThreshold.
func NewFixedThreshold(threshold int) (FixedThreshold, error) {
	if threshold < MinThreshold || threshold > MaxThreshold {
		return FixedThreshold{}, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidThreshold, threshold, MinThreshold, MaxThreshold)
	}
	return FixedThreshold{threshold: threshold}, nil
}

// Threshold returns the total the strategy stands on
func (f FixedThreshold) Threshold() int { return f.threshold }

func (FixedThreshold) Kind() game.Kind { return game.KindFixedThreshold }

func (f FixedThreshold) Decide(s game.Situation) game.Action {
	return hitBelow(s.Hand, f.threshold)
}

// DealerWeakness stands on 12 or more against a dealer 2-6 and otherwise
// plays like the dealer.
type DealerWeakness struct{}

func (DealerWeakness) Kind() game.Kind { return game.KindDealerWeakness }

func (DealerWeakness) Decide(s game.Situation) game.Action {
	if weakUpcard(s.Upcard.Value()) && s.Hand.Value() >= 12 {
		return game.Stand
	}
	return hitBelow(s.Hand, 17)
}

func hitBelow(h game.Hand, threshold int) game.Action {
	if h.Value() < threshold {
		return game.Hit
	}
	return game.Stand
}

// weakUpcard reports whether a dealer upcard value is 2 through 6
func weakUpcard(up int) bool {
	return up >= 2 && up <= 6
}
