package strategy

import (
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/game"
)

// Basic plays the fixed basic strategy chart: pair splitting, soft and hard
// doubling on the first decision, then the standing/hitting tables.
// Upcards are compared by value, so every ten-value card plays as a 10.
type Basic struct{}

func (Basic) Kind() game.Kind { return game.KindBasic }

func (Basic) Decide(s game.Situation) game.Action {
	up := s.Upcard.Value()
	cards := s.Hand.Cards

	if s.CanSplit && s.Hand.IsPair() {
		if action, ok := pairAction(cards[0].Rank, up, s.CanDouble); ok {
			return action
		}
	}

	if s.CanDouble && len(cards) == 2 {
		if kicker, ok := softKicker(s.Hand); ok && softDouble(kicker, up) {
			return game.Double
		}
		if hardDouble(s.Hand.Value(), up) {
			return game.Double
		}
	}

	if len(cards) == 2 && s.Hand.HasAce() {
		kicker, ok := softKicker(s.Hand)
		if !ok {
			// two aces that could not be split
			return game.Hit
		}
		return softTotal(kicker, up)
	}

	return hardTotal(s.Hand.Value(), up)
}

// pairAction returns the chart action for a pair of rank against the upcard.
// ok is false when the pair should be played as an ordinary total.
func pairAction(rank deck.Rank, up int, canDouble bool) (game.Action, bool) {
	switch {
	case rank == deck.Ace, rank == deck.Eight:
		return game.Split, true
	case rank == deck.Two, rank == deck.Three, rank == deck.Seven:
		if up >= 2 && up <= 7 {
			return game.Split, true
		}
	case rank == deck.Six:
		if weakUpcard(up) {
			return game.Split, true
		}
	case rank == deck.Nine:
		if weakUpcard(up) || up == 8 || up == 9 {
			return game.Split, true
		}
	case rank == deck.Four:
		if up == 5 || up == 6 {
			return game.Split, true
		}
	case rank == deck.Five:
		if up >= 2 && up <= 9 {
			if canDouble {
				return game.Double, true
			}
			return game.Hit, true
		}
	case rank.IsTenValue():
		return game.Stand, true
	}
	return 0, false
}

// softKicker returns the rank of the non-ace card of a two-card soft hand
func softKicker(h game.Hand) (deck.Rank, bool) {
	if h.Len() != 2 {
		return 0, false
	}
	a, b := h.Cards[0], h.Cards[1]
	switch {
	case a.IsAce() && !b.IsAce():
		return b.Rank, true
	case b.IsAce() && !a.IsAce():
		return a.Rank, true
	default:
		return 0, false
	}
}

func softDouble(kicker deck.Rank, up int) bool {
	switch kicker {
	case deck.Two, deck.Three:
		return up == 5 || up == 6
	case deck.Four, deck.Five:
		return up >= 4 && up <= 6
	case deck.Six, deck.Seven:
		return up >= 3 && up <= 6
	}
	return false
}

func hardDouble(total, up int) bool {
	switch total {
	case 9:
		return up >= 3 && up <= 6
	case 10:
		return up >= 2 && up <= 9
	case 11:
		return up >= 2 && up <= 10
	}
	return false
}

// softTotal plays a two-card soft hand by its kicker
func softTotal(kicker deck.Rank, up int) game.Action {
	switch {
	case kicker >= deck.Eight:
		return game.Stand
	case kicker == deck.Seven:
		if up == 2 || up == 7 || up == 8 {
			return game.Stand
		}
	case kicker == deck.Six:
		if weakUpcard(up) {
			return game.Stand
		}
	default:
		if up >= 4 && up <= 6 {
			return game.Stand
		}
	}
	return game.Hit
}

// hardTotal plays every hand not covered by the soft table
func hardTotal(total, up int) game.Action {
	switch {
	case total <= 11:
		return game.Hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return game.Stand
		}
		return game.Hit
	case total <= 16:
		if weakUpcard(up) {
			return game.Stand
		}
		return game.Hit
	default:
		return game.Stand
	}
}
