package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOutboxMaterialize drains pending facts into the audit trail.
	TaskOutboxMaterialize = "outbox:materialize"
)

// NewOutboxMaterializeTask constructs the materialization task. The
// task carries no payload; each run drains whatever is pending.
func NewOutboxMaterializeTask() *asynq.Task {
	return asynq.NewTask(TaskOutboxMaterialize, nil)
}
