package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPurgeJob deletes expired session rows in batches.
type SessionPurgeJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewSessionPurgeJob initialises the purge handler.
func NewSessionPurgeJob(pool *pgxpool.Pool, logger *slog.Logger) *SessionPurgeJob {
	return &SessionPurgeJob{Pool: pool, Logger: logger}
}

// Handle executes one purge run.
func (j *SessionPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("session purge: handler not configured")
	}
	var payload SessionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BatchSize <= 0 {
		payload.BatchSize = 1000
	}

	var total int64
	for {
		tag, err := j.Pool.Exec(ctx,
			`DELETE FROM sessions WHERE id IN (
			   SELECT id FROM sessions WHERE expires_at < NOW() LIMIT $1
			 )`, payload.BatchSize)
		if err != nil {
			return err
		}
		total += tag.RowsAffected()
		if tag.RowsAffected() < int64(payload.BatchSize) {
			break
		}
	}
	if j.Logger != nil {
		j.Logger.Info("purged expired sessions", slog.Int64("deleted", total))
	}
	return nil
}
