package game

import (
	"strings"

	"github.com/lox/blackjacksim/internal/deck"
)

// Hand is an ordered sequence of cards held by the player or the dealer
type Hand struct {
	Cards []deck.Card
}

// NewHand creates a hand from the given cards
func NewHand(cards ...deck.Card) Hand {
	h := Hand{Cards: make([]deck.Card, 0, len(cards)+2)}
	h.Cards = append(h.Cards, cards...)
	return h
}

// Add appends a card to the hand
func (h *Hand) Add(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.Cards)
}

// total returns the hand value and how many aces are still counted as 11
func (h Hand) total() (value, highAces int) {
	for _, c := range h.Cards {
		value += c.Value()
		if c.IsAce() {
			highAces++
		}
	}
	for value > 21 && highAces > 0 {
		value -= 10
		highAces--
	}
	return value, highAces
}

// Value returns the best total of the hand, demoting aces from 11 to 1 one at
// a time while the total exceeds 21.
func (h Hand) Value() int {
	v, _ := h.total()
	return v
}

// IsSoft reports whether an ace is still counted as 11 in the hand's total
func (h Hand) IsSoft() bool {
	v, high := h.total()
	return high > 0 && v <= 21
}

// IsBust reports whether the hand's total exceeds 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports whether the hand is a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21
}

// IsPair reports whether the hand is exactly two cards of the same rank
func (h Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// HasAce reports whether the hand contains at least one ace
func (h Hand) HasAce() bool {
	for _, c := range h.Cards {
		if c.IsAce() {
			return true
		}
	}
	return false
}

// Clone returns a copy of the hand that shares no storage with the original
func (h Hand) Clone() Hand {
	return NewHand(h.Cards...)
}

// String returns the rank tokens of the hand joined by dashes (e.g. "A-10")
func (h Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, "-")
}
