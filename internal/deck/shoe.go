package deck

import (
	rand "math/rand/v2"
)

const (
	// CardsPerDeck is the size of a single standard deck
	CardsPerDeck = 52
	// DefaultDecks is the number of decks in a standard shoe
	DefaultDecks = 6
)

// Shoe is a multi-deck stack of cards dealt from the top. An empty shoe
// rebuilds and reshuffles itself on the next deal.
type Shoe struct {
	cards      []Card
	decks      int
	rng        *rand.Rand
	generation int
}

// NewShoe creates a shoe of the given number of decks, built and shuffled.
// A non-positive deck count falls back to DefaultDecks.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks <= 0 {
		decks = DefaultDecks
	}
	s := &Shoe{
		cards: make([]Card, 0, decks*CardsPerDeck),
		decks: decks,
		rng:   rng,
	}
	s.Build()
	s.Shuffle()
	return s
}

// NewStackedShoe creates a shoe that deals the given cards in order. Once they
// run out it behaves like a normal shoe of the given deck count.
func NewStackedShoe(decks int, rng *rand.Rand, cards []Card) *Shoe {
	s := NewShoe(decks, rng)
	s.cards = s.cards[:0]
	// top of the shoe is the end of the slice
	for i := len(cards) - 1; i >= 0; i-- {
		s.cards = append(s.cards, cards[i])
	}
	return s
}

// Build resets the shoe to a fresh, unshuffled set of cards
func (s *Shoe) Build() {
	s.cards = s.cards[:0]
	for d := 0; d < s.decks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// Shuffle randomizes the order of the remaining cards
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Rebuild builds and shuffles a fresh shoe and bumps the generation
func (s *Shoe) Rebuild() {
	s.Build()
	s.Shuffle()
	s.generation++
}

// Deal removes and returns the top card. It never fails: an empty shoe is
// rebuilt and reshuffled first, which callers observe through Generation.
func (s *Shoe) Deal() Card {
	if len(s.cards) == 0 {
		s.Rebuild()
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DecksRemaining returns the fractional number of decks left in the shoe
func (s *Shoe) DecksRemaining() float64 {
	return float64(len(s.cards)) / CardsPerDeck
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// Generation counts how many times the shoe has been rebuilt since creation.
// Any change means previously observed cards no longer describe the shoe.
func (s *Shoe) Generation() int {
	return s.generation
}
