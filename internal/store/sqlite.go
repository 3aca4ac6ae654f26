// Package store persists simulation runs and their round outcomes in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lox/blackjacksim/internal/deck"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/statistics"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a run id is not in the store
	ErrNotFound = errors.New("run not found")
	// ErrMissingTimestamp is returned when a run is saved without CreatedAt
	ErrMissingTimestamp = errors.New("run has no creation time")
)

// Run is one stored simulation
type Run struct {
	ID                 string
	Name               string
	Strategy           string
	Threshold          int
	Betting            string
	Rounds             int
	BaseBet            float64
	Seed               int64
	ReshuffleEachRound bool
	Summary            statistics.Summary
	CreatedAt          time.Time
}

// SQLiteDB stores runs in a SQLite database
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the database at path. ":memory:" gives a private
// in-memory database.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			strategy TEXT NOT NULL,
			threshold INTEGER NOT NULL DEFAULT 0,
			betting TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			base_bet REAL NOT NULL,
			seed INTEGER NOT NULL,
			reshuffle_each_round INTEGER NOT NULL DEFAULT 1,
			total_profit REAL NOT NULL,
			total_wagered REAL NOT NULL,
			win_rate REAL NOT NULL,
			loss_rate REAL NOT NULL,
			push_rate REAL NOT NULL,
			summary_json TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			player_hand TEXT NOT NULL,
			player_final_value INTEGER NOT NULL,
			dealer_hand TEXT NOT NULL,
			dealer_final_value INTEGER NOT NULL,
			result TEXT NOT NULL,
			profit REAL NOT NULL,
			bet REAL NOT NULL,
			cards_seen TEXT NOT NULL,
			true_count REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, idx),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRun stores a run and its outcomes in one transaction. An empty ID is
// replaced by a new UUID. CreatedAt must be set by the caller's clock.
func (s *SQLiteDB) SaveRun(ctx context.Context, run *Run, outcomes []game.Outcome) error {
	if run.CreatedAt.IsZero() {
		return fmt.Errorf("%w: %s", ErrMissingTimestamp, run.Name)
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		id, name, strategy, threshold, betting, rounds, base_bet, seed, reshuffle_each_round,
		total_profit, total_wagered, win_rate, loss_rate, push_rate, summary_json, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.Strategy, run.Threshold, run.Betting, run.Rounds, run.BaseBet,
		run.Seed, boolToInt(run.ReshuffleEachRound),
		run.Summary.TotalProfit, run.Summary.TotalWagered,
		run.Summary.WinRate, run.Summary.LossRate, run.Summary.PushRate,
		string(summaryJSON), run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rounds (
		run_id, idx, player_hand, player_final_value, dealer_hand, dealer_final_value,
		result, profit, bet, cards_seen, true_count
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, o := range outcomes {
		cards, err := json.Marshal(o.CardsSeen)
		if err != nil {
			return fmt.Errorf("round %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, i, o.PlayerHand, o.PlayerFinalValue, o.DealerHand, o.DealerFinalValue,
			o.Result.String(), o.Profit, o.Bet, string(cards), o.TrueCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert round %d: %w", i, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, name, strategy, threshold, betting, rounds, base_bet, seed,
	reshuffle_each_round, summary_json, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		reshuffle   int
		summaryJSON string
		createdAt   int64
	)
	err := row.Scan(&run.ID, &run.Name, &run.Strategy, &run.Threshold, &run.Betting,
		&run.Rounds, &run.BaseBet, &run.Seed, &reshuffle, &summaryJSON, &createdAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, fmt.Errorf("run %s: failed to decode summary: %w", run.ID, err)
	}
	run.ReshuffleEachRound = reshuffle == 1
	run.CreatedAt = time.UnixMilli(createdAt)
	return &run, nil
}

// GetRun retrieves a run by ID
func (s *SQLiteDB) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ListRuns returns the most recent runs first. A limit of zero lists all.
func (s *SQLiteDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, name LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetOutcomes returns the stored outcomes of a run in play order. Only the
// fields persisted in the rounds table are populated.
func (s *SQLiteDB) GetOutcomes(ctx context.Context, runID string) ([]game.Outcome, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		player_hand, player_final_value, dealer_hand, dealer_final_value,
		result, profit, bet, cards_seen, true_count
		FROM rounds WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []game.Outcome
	for rows.Next() {
		var (
			o      game.Outcome
			result string
			cards  string
		)
		err := rows.Scan(&o.PlayerHand, &o.PlayerFinalValue, &o.DealerHand, &o.DealerFinalValue,
			&result, &o.Profit, &o.Bet, &cards, &o.TrueCount)
		if err != nil {
			return nil, err
		}
		if o.Result, err = game.ParseResult(result); err != nil {
			return nil, err
		}
		var seen []deck.Card
		if err := json.Unmarshal([]byte(cards), &seen); err != nil {
			return nil, fmt.Errorf("failed to decode cards: %w", err)
		}
		o.CardsSeen = seen
		o.ReshuffledAt = -1
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// DeleteRun removes a run and its rounds
func (s *SQLiteDB) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
