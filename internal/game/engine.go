package game

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjacksim/internal/deck"
)

var (
	// ErrInvalidAction is returned when a strategy answers with a value that is
	// not an Action at all
	ErrInvalidAction = errors.New("invalid strategy action")
	// ErrInvalidBet is returned for a bet that is not a positive finite amount
	ErrInvalidBet = errors.New("invalid bet")
)

// Engine plays blackjack rounds for a single seat against a shared shoe
type Engine struct {
	shoe   *deck.Shoe
	rules  Rules
	logger *log.Logger
}

// NewEngine creates an engine dealing from shoe. A nil logger discards output.
func NewEngine(shoe *deck.Shoe, rules Rules, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{shoe: shoe, rules: rules, logger: logger}
}

// seat is one player hand in play. Splitting replaces a seat with two new ones.
type seat struct {
	hand      Hand
	stake     float64
	canSplit  bool
	fromSplit bool
	doubled   bool
	busted    bool
}

// round holds the mutable state of a single round in progress
type round struct {
	engine       *Engine
	strategy     Strategy
	upcard       deck.Card
	count        CountContext
	seen         []deck.Card
	generation   int
	reshuffledAt int
	diagnostics  int
	err          error
}

// deal takes the next card from the shoe and records it as seen. A shoe
// rebuild during the round is remembered so the caller can reset its count.
func (r *round) deal() deck.Card {
	card := r.engine.shoe.Deal()
	if g := r.engine.shoe.Generation(); g != r.generation {
		r.generation = g
		r.reshuffledAt = len(r.seen)
	}
	r.seen = append(r.seen, card)
	return card
}

// PlayRound plays one complete round for the given bet. count is the count
// state from previous rounds; the engine does not update it. An error means
// the strategy or the bet broke its contract and the round was abandoned.
func (e *Engine) PlayRound(strategy Strategy, bet float64, count CountContext) (Outcome, error) {
	if bet <= 0 || math.IsNaN(bet) || math.IsInf(bet, 0) {
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidBet, bet)
	}

	r := &round{
		engine:       e,
		strategy:     strategy,
		count:        count,
		seen:         make([]deck.Card, 0, 12),
		generation:   e.shoe.Generation(),
		reshuffledAt: -1,
	}

	player := NewHand()
	dealer := NewHand()
	player.Add(r.deal())
	dealer.Add(r.deal())
	player.Add(r.deal())
	dealer.Add(r.deal())
	r.upcard = dealer.Cards[0]

	out := Outcome{
		Bet:       bet,
		TrueCount: count.TrueCount(),
	}

	if r.upcard.IsAce() {
		out.Insured = r.offerInsurance(player)
		if r.err != nil {
			return Outcome{}, r.err
		}
	}

	out.PlayerBlackjack = player.IsBlackjack()
	out.DealerBlackjack = dealer.IsBlackjack()

	switch {
	case out.PlayerBlackjack && out.DealerBlackjack:
		out.Profit = 0
	case out.PlayerBlackjack:
		out.Profit = e.rules.BlackjackPayout * bet
	case out.DealerBlackjack:
		out.Profit = -bet
	default:
		seats := r.playPlayer(player, bet)
		if r.err != nil {
			return Outcome{}, r.err
		}
		if anyLive(seats) {
			dealer = r.playDealer(dealer)
		}
		out.Profit = settle(seats, dealer)
		r.describeSeats(&out, seats)
	}

	if out.PlayerHand == "" {
		out.PlayerHand = player.String()
		out.PlayerFinalValue = player.Value()
	}
	out.DealerHand = dealer.String()
	out.DealerFinalValue = dealer.Value()
	out.Result = resultFromProfit(out.Profit)
	out.CardsSeen = r.seen
	out.ReshuffledAt = r.reshuffledAt
	out.Diagnostics = r.diagnostics

	e.logger.Debug("round complete",
		"player", out.PlayerHand,
		"dealer", out.DealerHand,
		"upcard", r.upcard.Label(),
		"result", out.Result,
		"profit", out.Profit,
		"bet", bet)

	return out, nil
}

// offerInsurance asks the strategy whether to insure against a dealer ace.
// Any answer other than Insurance declines.
func (r *round) offerInsurance(player Hand) bool {
	action := r.strategy.Decide(Situation{
		Hand:   player.Clone(),
		Upcard: r.upcard,
		Count:  r.count,
	})
	if !action.Valid() {
		r.err = fmt.Errorf("%w: %s answered the insurance offer with %s", ErrInvalidAction, r.strategy.Kind(), action)
		return false
	}
	if action != Insurance {
		return false
	}
	r.count.InsuranceTaken = true
	return true
}

// playPlayer resolves the player's starting hand and any split hands using a
// worklist. Seats are returned in the order they were finished.
func (r *round) playPlayer(start Hand, bet float64) []*seat {
	pending := []*seat{{hand: start, stake: bet, canSplit: true}}
	var done []*seat

	for len(pending) > 0 && r.err == nil {
		s := pending[0]
		pending = pending[1:]

		if split := r.playSeat(s); split != nil {
			pending = append(split, pending...)
			continue
		}
		done = append(done, s)
	}
	return done
}

// playSeat plays a single hand to completion. If the strategy splits, the two
// new seats are returned instead and s is discarded.
func (r *round) playSeat(s *seat) []*seat {
	first := true
	for {
		sit := Situation{
			Hand:      s.hand.Clone(),
			Upcard:    r.upcard,
			CanDouble: first && s.hand.Len() == 2 && (!s.fromSplit || r.engine.rules.DoubleAfterSplit),
			CanSplit:  first && s.canSplit && s.hand.IsPair(),
			Count:     r.count,
		}
		action := r.validate(r.strategy.Decide(sit), sit)
		first = false

		switch action {
		case Split:
			a := &seat{hand: NewHand(s.hand.Cards[0]), stake: s.stake, fromSplit: true}
			b := &seat{hand: NewHand(s.hand.Cards[1]), stake: s.stake, fromSplit: true}
			a.hand.Add(r.deal())
			b.hand.Add(r.deal())
			return []*seat{a, b}
		case Double:
			s.stake *= 2
			s.doubled = true
			s.hand.Add(r.deal())
			s.busted = s.hand.IsBust()
			return nil
		case Hit:
			s.hand.Add(r.deal())
			if s.hand.IsBust() {
				s.busted = true
				return nil
			}
		default:
			return nil
		}
	}
}

// validate checks an action against what was offered. Legal actions that were
// not offered are logged, counted and replaced by the hit-below-17 fallback.
// A value outside the Action set aborts the round.
func (r *round) validate(action Action, sit Situation) Action {
	if !action.Valid() {
		r.err = fmt.Errorf("%w: %s returned %s for %s against %s",
			ErrInvalidAction, r.strategy.Kind(), action, sit.Hand.String(), sit.Upcard.String())
		return Stand
	}

	switch action {
	case Hit, Stand:
		return action
	case Double:
		if sit.CanDouble {
			return action
		}
	case Split:
		if sit.CanSplit {
			return action
		}
	}

	r.diagnostics++
	fallback := Stand
	if sit.Hand.Value() < 17 {
		fallback = Hit
	}
	r.engine.logger.Warn("strategy returned illegal action",
		"kind", r.strategy.Kind(),
		"action", action,
		"hand", sit.Hand.String(),
		"upcard", sit.Upcard.String(),
		"can_double", sit.CanDouble,
		"can_split", sit.CanSplit,
		"fallback", fallback)
	return fallback
}

// playDealer draws to 17, hitting soft 17
func (r *round) playDealer(dealer Hand) Hand {
	for {
		v := dealer.Value()
		if v > 17 || (v == 17 && !dealer.IsSoft()) {
			return dealer
		}
		dealer.Add(r.deal())
	}
}

// describeSeats fills the player fields of the outcome from the finished seats
func (r *round) describeSeats(out *Outcome, seats []*seat) {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.hand.String()
		if s.doubled {
			out.Doubled = true
		}
	}
	out.PlayerHand = strings.Join(names, "|")
	out.PlayerFinalValue = seats[0].hand.Value()

	if len(seats) > 1 {
		out.Split = true
		out.PlayerHands = names
		out.PlayerFinalValues = make([]int, len(seats))
		for i, s := range seats {
			out.PlayerFinalValues[i] = s.hand.Value()
		}
	}
}

func anyLive(seats []*seat) bool {
	for _, s := range seats {
		if !s.busted {
			return true
		}
	}
	return false
}

// settle compares every seat with the dealer's final hand and sums the profit
func settle(seats []*seat, dealer Hand) float64 {
	dealerValue := dealer.Value()
	dealerBust := dealerValue > 21

	total := 0.0
	for _, s := range seats {
		pv := s.hand.Value()
		switch {
		case s.busted:
			total -= s.stake
		case dealerBust || pv > dealerValue:
			total += s.stake
		case pv < dealerValue:
			total -= s.stake
		}
	}
	return total
}
