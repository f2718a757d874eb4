// Package jobs runs background work over asynq: nightly refresh-token
// purges and dashboard cache warmups.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuthPurgeTokens removes expired and revoked refresh tokens.
	TaskAuthPurgeTokens = "auth:purge_tokens"
	// TaskReportsWarmup precomputes the dashboard KPI cache.
	TaskReportsWarmup = "reports:warmup"
)

// NewPurgeTokensTask constructs the purge task.
func NewPurgeTokensTask() *asynq.Task {
	return asynq.NewTask(TaskAuthPurgeTokens, nil)
}

// WarmupPayload parameterises the report cache warmup.
type WarmupPayload struct {
	// Scope is "all" for the global dashboard; per-branch warmup is
	// derived from the branches table at run time.
	Scope string `json:"scope"`
}

// NewWarmupTask constructs the warmup task.
func NewWarmupTask(scope string) (*asynq.Task, error) {
	data, err := json.Marshal(WarmupPayload{Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}
