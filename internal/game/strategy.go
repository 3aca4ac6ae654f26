package game

import (
	"fmt"

	"github.com/lox/blackjacksim/internal/deck"
)

// Action is a playing decision returned by a strategy
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Insurance
)

// Valid reports whether a is one of the defined actions
func (a Action) Valid() bool {
	return a >= Hit && a <= Insurance
}

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Insurance:
		return "insurance"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Kind labels a strategy variant so callers can special-case counting
// behaviour without comparing strategy values.
type Kind string

const (
	KindMimicDealer    Kind = "mimic-dealer"
	KindFixedThreshold Kind = "fixed-threshold"
	KindDealerWeakness Kind = "dealer-weakness"
	KindBasic          Kind = "basic"
	KindCardCounter    Kind = "card-counter"
)

// Counts reports whether strategies of this kind rely on the running count.
// Counting strategies keep the shoe across rounds and size bets by true count.
func (k Kind) Counts() bool {
	return k == KindCardCounter
}

// CountContext is the count information available to a decision
type CountContext struct {
	RunningCount   int
	DecksRemaining float64
	InsuranceTaken bool // insurance was already flagged this round
}

// TrueCount returns the running count divided by max(1, decks remaining)
func (c CountContext) TrueCount() float64 {
	return TrueCount(c.RunningCount, c.DecksRemaining)
}

// Situation is the read-only state a strategy decides on
type Situation struct {
	Hand      Hand
	Upcard    deck.Card
	CanDouble bool
	CanSplit  bool
	Count     CountContext
}

// Strategy decides how to play a hand. Implementations must be pure: the same
// Situation always yields the same Action and nothing outside is mutated.
type Strategy interface {
	Kind() Kind
	Decide(s Situation) Action
}

// StrategyFunc adapts a plain function to the Strategy interface
type StrategyFunc struct {
	K Kind
	F func(s Situation) Action
}

// Kind returns the kind label of the wrapped function
func (f StrategyFunc) Kind() Kind { return f.K }

// Decide calls the wrapped function
func (f StrategyFunc) Decide(s Situation) Action { return f.F(s) }
