package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/runlog"
)

// ErrRunNotFound is returned when a run lookup yields no events.
var ErrRunNotFound = errors.New("run not found")

// RunEventRepository persists completed run logs. Events are immutable once
// written; there are no update or delete operations.
type RunEventRepository struct {
	db *pgxpool.Pool
}

// NewRunEventRepository creates a RunEventRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunEventRepository(db *pgxpool.Pool) *RunEventRepository {
	return &RunEventRepository{db: db}
}

// InsertBatch writes a run's event sequence in one COPY operation.
//
// Precondition: runID must be a valid UUID string; events must carry the
// sequence indices assigned by the run log.
// Postcondition: Returns the number of rows written, or an error leaving the
// table unchanged (COPY is atomic within its implicit transaction).
func (r *RunEventRepository) InsertBatch(ctx context.Context, runID string, events []runlog.Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(events))
	for i, ev := range events {
		rows[i] = []any{
			runID, ev.Seq, ev.X, ev.Y, string(ev.Type), ev.EncounterID,
			ev.Outcome, ev.HpDelta, string(ev.Reward.Kind), ev.Reward.Value,
			ev.PlayerDied, ev.At,
		}
	}

	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"run_events"},
		[]string{
			"run_id", "seq", "x", "y", "type", "encounter_id",
			"outcome", "hp_delta", "reward_kind", "reward_value",
			"player_died", "created_at",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run events: %w", err)
	}
	return n, nil
}

// ListByRun returns a run's events ordered by sequence index.
//
// Postcondition: Returns ErrRunNotFound if no events exist for runID.
func (r *RunEventRepository) ListByRun(ctx context.Context, runID string) ([]runlog.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seq, x, y, type, encounter_id, outcome,
		        hp_delta, reward_kind, reward_value, player_died, created_at
		 FROM run_events
		 WHERE run_id = $1
		 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run events: %w", err)
	}
	defer rows.Close()

	var events []runlog.Event
	for rows.Next() {
		var (
			ev        runlog.Event
			typ, kind string
		)
		err := rows.Scan(&ev.Seq, &ev.X, &ev.Y, &typ, &ev.EncounterID,
			&ev.Outcome, &ev.HpDelta, &kind, &ev.Reward.Value,
			&ev.PlayerDied, &ev.At)
		if err != nil {
			return nil, fmt.Errorf("scanning run event: %w", err)
		}
		ev.Type = encounter.Type(typ)
		ev.Reward.Kind = encounter.RewardKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run events: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrRunNotFound
	}
	return events, nil
}

// ListRuns returns the distinct run IDs present, most recent first.
func (r *RunEventRepository) ListRuns(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT run_id
		 FROM run_events
		 GROUP BY run_id
		 ORDER BY MAX(created_at) DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
