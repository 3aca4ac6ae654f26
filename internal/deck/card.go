package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit. Suits have no effect on blackjack rules.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankTokens = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String returns the rank token used in hand descriptions and result files.
func (r Rank) String() string {
	if tok, ok := rankTokens[r]; ok {
		return tok
	}
	return "?"
}

// Value returns the blackjack point value of the rank. Aces count 11 nominally;
// hand evaluation demotes them to 1 as needed.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// IsTenValue reports whether the rank is worth ten points (10, J, Q, K)
func (r Rank) IsTenValue() bool {
	return r >= Ten && r <= King
}

// ParseRank parses a rank token. "T" is accepted as an alias for "10".
func ParseRank(token string) (Rank, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "T" {
		return Ten, nil
	}
	for r, tok := range rankTokens {
		if tok == token {
			return r, nil
		}
	}
	return 0, fmt.Errorf("invalid rank %q", token)
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the rank token of the card (e.g. "10", "A")
func (c Card) String() string {
	return c.Rank.String()
}

// Label returns the rank and suit of the card (e.g. "A♠")
func (c Card) Label() string {
	return c.Rank.String() + c.Suit.String()
}

// Value returns the blackjack point value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// ParseCards parses rank tokens separated by spaces, commas or dashes
// ("10-6", "A 8", "8,8") into spade cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		rank, err := ParseRank(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, NewCard(Spades, rank))
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on malformed input. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MarshalJSON encodes the card as its rank token
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Rank.String())
}

// UnmarshalJSON decodes a rank token. The suit is not recorded and decodes as Spades.
func (c *Card) UnmarshalJSON(data []byte) error {
	var tok string
	if err := json.Unmarshal(data, &tok); err != nil {
		return err
	}
	rank, err := ParseRank(tok)
	if err != nil {
		return err
	}
	*c = NewCard(Spades, rank)
	return nil
}
