package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder writes activity entries. Domain services depend on this
// interface so tests can capture entries in memory.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// PGRecorder persists entries into activity_logs.
type PGRecorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a PostgreSQL-backed Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *PGRecorder {
	return &PGRecorder{pool: pool, logger: logger}
}

// Record persists the entry.
func (r *PGRecorder) Record(ctx context.Context, entry Entry) error {
	if r == nil || r.pool == nil {
		return errors.New("audit: recorder not initialised")
	}
	if entry.Action == "" || entry.EntityType == "" || entry.EntityID == "" {
		return errors.New("audit: entry requires action/entity_type/entity_id")
	}
	if entry.ID == "" {
		entry.ID = "act-" + uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO activity_logs
(id, type, action, entity_type, entity_id, branch_id, description, performed_by, meta, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		entry.ID, entry.Type, entry.Action, entry.EntityType, entry.EntityID,
		entry.BranchID, entry.Description, entry.PerformedBy, metaJSON, entry.OccurredAt)
	return err
}

var _ Recorder = (*PGRecorder)(nil)
