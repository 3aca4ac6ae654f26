// Package simulator drives many blackjack rounds through the engine and
// collects their outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjacksim/internal/betting"
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/randutil"
	"github.com/lox/blackjacksim/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidConfig is returned when a simulation is configured with values it
// cannot run with
var ErrInvalidConfig = errors.New("invalid simulation config")

// cancelCheckInterval is how many rounds a stream plays between context checks
const cancelCheckInterval = 4096

// Config holds configuration for running a simulation
type Config struct {
	Strategy           game.Strategy
	Rounds             int
	Betting            betting.Strategy // nil is flat betting
	BaseBet            float64
	ReshuffleEachRound bool // ignored by counting strategies
	Rules              game.Rules
	Seed               int64
	Workers            int // independent streams; 0 or 1 plays one sequential stream
	Logger             *log.Logger
	Clock              quartz.Clock

	// newShoe overrides shoe construction per stream (tests)
	newShoe func(stream int) *deck.Shoe
}

// Result is the outcome of a simulation
type Result struct {
	Outcomes []game.Outcome
	Summary  statistics.Summary
	Duration time.Duration
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
}

// New validates config, fills in defaults and returns a simulator
func New(config Config) (*Simulator, error) {
	if config.Strategy == nil {
		return nil, fmt.Errorf("%w: no playing strategy", ErrInvalidConfig)
	}
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidConfig, config.Rounds)
	}
	if config.BaseBet <= 0 {
		return nil, fmt.Errorf("%w: base bet must be positive, got %v", ErrInvalidConfig, config.BaseBet)
	}
	if config.Rules == (game.Rules{}) {
		config.Rules = game.DefaultRules()
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if config.Betting == nil {
		config.Betting = betting.Flat{}
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Workers > config.Rounds {
		config.Workers = config.Rounds
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}, nil
}

// Run is a convenience function that builds a simulator and runs it
func Run(ctx context.Context, config Config) (*Result, error) {
	sim, err := New(config)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}

// Run plays every configured round. With more than one worker the rounds are
// split into independent streams whose outcomes are concatenated in stream
// order.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	start := cfg.Clock.Now()

	cfg.Logger.Info("Starting simulation",
		"strategy", cfg.Strategy.Kind(),
		"betting", cfg.Betting.Name(),
		"rounds", cfg.Rounds,
		"workers", cfg.Workers,
		"seed", cfg.Seed)

	chunks := make([][]game.Outcome, cfg.Workers)
	perWorker := cfg.Rounds / cfg.Workers
	remainder := cfg.Rounds % cfg.Workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}

		g.Go(func() error {
			st := s.newStream(w)
			outcomes, err := st.play(ctx, rounds)
			if err != nil {
				return fmt.Errorf("stream %d: %w", w, err)
			}
			chunks[w] = outcomes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcomes := make([]game.Outcome, 0, cfg.Rounds)
	var stats statistics.Statistics
	for _, chunk := range chunks {
		outcomes = append(outcomes, chunk...)
		for _, o := range chunk {
			stats.Add(o)
		}
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	result := &Result{
		Outcomes: outcomes,
		Summary:  stats.Summary(),
		Duration: cfg.Clock.Since(start),
	}

	if result.Summary.Diagnostics > 0 {
		cfg.Logger.Warn("Strategy returned illegal actions",
			"strategy", cfg.Strategy.Kind(),
			"count", result.Summary.Diagnostics)
	}
	cfg.Logger.Info("Simulation complete",
		"strategy", cfg.Strategy.Kind(),
		"rounds", result.Summary.Rounds,
		"profit", result.Summary.TotalProfit,
		"duration", result.Duration)

	return result, nil
}

// stream is one sequential run of rounds with its own shoe, count and betting
// history
type stream struct {
	cfg        Config
	engine     *game.Engine
	shoe       *deck.Shoe
	count      game.CountTracker
	history    betting.History
	generation int
	counting   bool
}

func (s *Simulator) newStream(index int) *stream {
	cfg := s.config
	var shoe *deck.Shoe
	if cfg.newShoe != nil {
		shoe = cfg.newShoe(index)
	} else {
		shoe = deck.NewShoe(cfg.Rules.Decks, randutil.New(randutil.Derive(cfg.Seed, index)))
	}
	return &stream{
		cfg:        cfg,
		engine:     game.NewEngine(shoe, cfg.Rules, cfg.Logger.With("stream", index)),
		shoe:       shoe,
		history:    betting.History{BaseBet: cfg.BaseBet},
		generation: shoe.Generation(),
		counting:   cfg.Strategy.Kind().Counts(),
	}
}

func (st *stream) play(ctx context.Context, rounds int) ([]game.Outcome, error) {
	outcomes := make([]game.Outcome, 0, rounds)
	for i := 0; i < rounds; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out, err := st.playRound()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// playRound prepares the shoe, sizes the bet, plays one round and folds the
// dealt cards into the count
func (st *stream) playRound() (game.Outcome, error) {
	st.prepareShoe()

	countCtx := st.count.Context(st.shoe)
	bet := st.nextBet(countCtx)
	if bet <= 0 || math.IsNaN(bet) || math.IsInf(bet, 0) {
		return game.Outcome{}, fmt.Errorf("%w: betting %s returned bet %v", ErrInvalidConfig, st.cfg.Betting.Name(), bet)
	}

	out, err := st.engine.PlayRound(st.cfg.Strategy, bet, countCtx)
	if err != nil {
		return game.Outcome{}, err
	}

	seen := out.CardsSeen
	if out.ReshuffledAt >= 0 {
		st.count.Reset()
		seen = seen[out.ReshuffledAt:]
	}
	st.count.Observe(seen...)
	st.generation = st.shoe.Generation()

	st.history.LastResult = out.Result
	st.history.CurrentBet = bet
	st.history.HasLast = true

	return out, nil
}

// prepareShoe applies the reshuffle policy. Counting strategies keep the shoe
// until it runs out; the engine rebuilds an empty shoe on the next deal.
func (st *stream) prepareShoe() {
	if !st.counting && (st.cfg.ReshuffleEachRound || st.shoe.Remaining() < deck.CardsPerDeck) {
		st.shoe.Rebuild()
	}
	if st.counting && st.shoe.IsEmpty() {
		st.shoe.Rebuild()
	}
	if st.shoe.Generation() != st.generation {
		st.count.Reset()
		st.generation = st.shoe.Generation()
	}
}

func (st *stream) nextBet(count game.CountContext) float64 {
	if st.counting {
		return betting.CountSpread(st.cfg.BaseBet, count.TrueCount())
	}
	return st.cfg.Betting.NextBet(st.history)
}
