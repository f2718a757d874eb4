package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/branches"
	"github.com/linenflow/linenflow/internal/reports"
)

// ReportsWarmupJob precomputes the dashboard aggregates so the first
// morning request hits a warm cache.
type ReportsWarmupJob struct {
	reports  *reports.Service
	branches branches.Repository
	logger   *slog.Logger
}

// NewReportsWarmupJob constructs the job.
func NewReportsWarmupJob(reportsService *reports.Service, branchRepo branches.Repository, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{reports: reportsService, branches: branchRepo, logger: logger}
}

// Handle processes TaskReportsWarmup tasks. It warms the global view
// and one per-branch view, mirroring the scopes real users resolve to.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	global := authz.User{ID: "system", Role: authz.RoleSuperadmin}
	if _, err := j.reports.Summary(ctx, global); err != nil {
		j.logger.Error("warm global summary", slog.Any("error", err))
		return err
	}
	if _, err := j.reports.RevenueByBranch(ctx, global); err != nil {
		j.logger.Error("warm revenue breakdown", slog.Any("error", err))
		return err
	}

	if payload.Scope == "all" {
		list, err := j.branches.List(ctx, authz.AllBranches())
		if err != nil {
			j.logger.Error("list branches for warmup", slog.Any("error", err))
			return err
		}
		for _, b := range list {
			scoped := authz.User{ID: "system", Role: authz.RoleAdmin, BranchID: b.ID, BranchIDs: []string{b.ID}}
			if _, err := j.reports.Summary(ctx, scoped); err != nil {
				j.logger.Warn("warm branch summary", slog.String("branch", b.ID), slog.Any("error", err))
			}
		}
	}

	j.logger.Info("report cache warmed", slog.String("scope", payload.Scope))
	return nil
}
