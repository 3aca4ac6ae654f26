package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjacksim/internal/deck"
)

// Result is the overall result of a round from the player's point of view
type Result int

const (
	ResultNone Result = iota // no round played yet
	ResultWin
	ResultLoss
	ResultPush
)

func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	case ResultPush:
		return "push"
	default:
		return ""
	}
}

// ParseResult parses a result tag ("win", "loss", "push")
func ParseResult(s string) (Result, error) {
	switch s {
	case "win":
		return ResultWin, nil
	case "loss":
		return ResultLoss, nil
	case "push":
		return ResultPush, nil
	default:
		return ResultNone, fmt.Errorf("invalid result %q", s)
	}
}

// MarshalJSON encodes the result as its tag
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a result tag
func (r *Result) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseResult(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// resultFromProfit classifies a settled profit
func resultFromProfit(profit float64) Result {
	switch {
	case profit > 0:
		return ResultWin
	case profit < 0:
		return ResultLoss
	default:
		return ResultPush
	}
}

// Outcome records one completed round. It is created once by the engine and
// not modified afterwards.
type Outcome struct {
	PlayerHand        string      `json:"player_hand"`
	PlayerFinalValue  int         `json:"player_final_value"`
	PlayerHands       []string    `json:"player_hands,omitempty"`
	PlayerFinalValues []int       `json:"player_final_values,omitempty"`
	DealerHand        string      `json:"dealer_hand"`
	DealerFinalValue  int         `json:"dealer_final_value"`
	Result            Result      `json:"result"`
	Profit            float64     `json:"profit"`
	Bet               float64     `json:"bet"`
	CardsSeen         []deck.Card `json:"cards_seen"`

	PlayerBlackjack bool    `json:"player_blackjack,omitempty"`
	DealerBlackjack bool    `json:"dealer_blackjack,omitempty"`
	Doubled         bool    `json:"doubled,omitempty"`
	Split           bool    `json:"split,omitempty"`
	Insured         bool    `json:"insured,omitempty"`
	TrueCount       float64 `json:"true_count,omitempty"`

	// Diagnostics counts strategy actions that were not legal when returned
	Diagnostics int `json:"diagnostics,omitempty"`

	// ReshuffledAt is the index in CardsSeen of the first card dealt from a
	// rebuilt shoe, or -1 when the shoe was not rebuilt during the round.
	ReshuffledAt int `json:"-"`
}
