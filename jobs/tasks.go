package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge removes expired session rows.
	TaskSessionPurge = "sessions:purge"
	// TaskAuditRetention trims old audit log rows.
	TaskAuditRetention = "audit:retention"
)

// SessionPurgePayload bounds one purge run.
type SessionPurgePayload struct {
	BatchSize int `json:"batch_size"`
}

// NewSessionPurgeTask constructs an Asynq task.
func NewSessionPurgeTask(batchSize int) (*asynq.Task, error) {
	data, err := json.Marshal(SessionPurgePayload{BatchSize: batchSize})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionPurge, data), nil
}

// AuditRetentionPayload controls how far back audit rows are kept.
type AuditRetentionPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditRetentionTask constructs an Asynq task.
func NewAuditRetentionTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditRetentionPayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}
