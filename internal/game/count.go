package game

import (
	"github.com/lox/blackjacksim/internal/deck"
)

// HiLoValue returns the Hi-Lo count increment for a card: +1 for 2-6, -1 for
// tens and aces, 0 for 7-9.
func HiLoValue(card deck.Card) int {
	switch {
	case card.Rank >= deck.Two && card.Rank <= deck.Six:
		return 1
	case card.Rank.IsTenValue() || card.IsAce():
		return -1
	default:
		return 0
	}
}

// CountTracker holds the running count for the lifetime of one shoe
type CountTracker struct {
	running int
}

// Observe folds the given cards into the running count
func (c *CountTracker) Observe(cards ...deck.Card) {
	for _, card := range cards {
		c.running += HiLoValue(card)
	}
}

// Reset zeroes the running count. Call whenever the shoe is rebuilt.
func (c *CountTracker) Reset() {
	c.running = 0
}

// RunningCount returns the current running count
func (c *CountTracker) RunningCount() int {
	return c.running
}

// Context returns the count information handed to strategies for the next round
func (c *CountTracker) Context(shoe *deck.Shoe) CountContext {
	return CountContext{
		RunningCount:   c.running,
		DecksRemaining: shoe.DecksRemaining(),
	}
}

// TrueCount divides a running count by max(1, decksRemaining)
func TrueCount(running int, decksRemaining float64) float64 {
	if decksRemaining < 1 {
		decksRemaining = 1
	}
	return float64(running) / decksRemaining
}
