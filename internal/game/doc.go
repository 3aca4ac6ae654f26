// Package game implements the core blackjack round logic.
//
// The main type is Engine, which plays one round at a time against a shared
// shoe: the initial deal, the insurance offer, blackjack checks, the player's
// hands (including splits and doubles), the dealer's draw and settlement.
//
// # Basic Usage
//
// Play a single round with a strategy and a bet:
//
//	rng := randutil.New(42)
//	shoe := deck.NewShoe(6, rng)
//	engine := game.NewEngine(shoe, game.DefaultRules(), logger)
//	outcome, err := engine.PlayRound(strategy, 10, game.CountContext{})
//
// # Counting
//
// The engine never mutates count state. Every card dealt during a round is
// recorded in Outcome.CardsSeen, and the caller folds those cards into a
// CountTracker after the round completes. Decisions inside a round therefore
// see only the count from previous rounds.
//
// # Architecture
//
// Strategies are pure: they receive an immutable Situation and return an
// Action. The engine validates the action against what was offered and falls
// back to a hit/stand rule for a legal action that was not offered. A value
// that is not an Action at all, or a bet that is not positive, is an error
// and the round is abandoned.
package game
