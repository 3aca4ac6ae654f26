package game

import (
	"fmt"

	"github.com/lox/blackjacksim/internal/deck"
)

// Rules holds the table rules a round is played under. The dealer always
// draws on soft 17.
type Rules struct {
	Decks            int
	BlackjackPayout  float64 // profit multiple for a natural, 1.5 = 3:2
	DoubleAfterSplit bool
}

// DefaultRules returns a six-deck, 3:2, double-after-split table
func DefaultRules() Rules {
	return Rules{
		Decks:            deck.DefaultDecks,
		BlackjackPayout:  1.5,
		DoubleAfterSplit: true,
	}
}

// Validate checks the rules for values the engine cannot play with
func (r Rules) Validate() error {
	if r.Decks < 1 || r.Decks > 16 {
		return fmt.Errorf("decks must be between 1 and 16, got %d", r.Decks)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack payout must be positive, got %g", r.BlackjackPayout)
	}
	return nil
}
