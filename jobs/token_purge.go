package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/linenflow/linenflow/internal/auth"
)

// TokenPurgeJob deletes expired and revoked refresh tokens.
type TokenPurgeJob struct {
	service *auth.Service
	logger  *slog.Logger
}

// NewTokenPurgeJob constructs the job.
func NewTokenPurgeJob(service *auth.Service, logger *slog.Logger) *TokenPurgeJob {
	return &TokenPurgeJob{service: service, logger: logger}
}

// Handle processes TaskAuthPurgeTokens tasks.
func (j *TokenPurgeJob) Handle(ctx context.Context, _ *asynq.Task) error {
	deleted, err := j.service.PurgeExpiredTokens(ctx)
	if err != nil {
		j.logger.Error("purge refresh tokens", slog.Any("error", err))
		return err
	}
	j.logger.Info("purged refresh tokens", slog.Int64("deleted", deleted))
	return nil
}
