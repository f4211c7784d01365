package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRetentionJob deletes audit rows past the retention window.
type AuditRetentionJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewAuditRetentionJob initialises the retention handler.
func NewAuditRetentionJob(pool *pgxpool.Pool, logger *slog.Logger) *AuditRetentionJob {
	return &AuditRetentionJob{Pool: pool, Logger: logger}
}

// Handle executes one retention run.
func (j *AuditRetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("audit retention: handler not configured")
	}
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = 365
	}

	tag, err := j.Pool.Exec(ctx,
		`DELETE FROM audit_logs WHERE occurred_at < NOW() - make_interval(days => $1)`,
		payload.RetentionDays)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("trimmed audit logs",
			slog.Int("retention_days", payload.RetentionDays),
			slog.Int64("deleted", tag.RowsAffected()))
	}
	return nil
}
