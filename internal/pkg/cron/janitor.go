package cron

import (
	"context"
	"log/slog"
	"time"
)

// WorkspaceEvicter drops per-session dashboard state that went idle.
type WorkspaceEvicter interface {
	EvictIdle(ctx context.Context) error
}

// RevocationPruner forgets revoked sessions whose tokens have expired anyway.
type RevocationPruner interface {
	PruneRevoked(now time.Time) int
}

type JanitorJobs struct {
	workspaces  WorkspaceEvicter
	revocations RevocationPruner
	now         func() time.Time
}

func NewJanitorJobs(workspaces WorkspaceEvicter, revocations RevocationPruner) *JanitorJobs {
	return &JanitorJobs{
		workspaces:  workspaces,
		revocations: revocations,
		now:         time.Now,
	}
}

func (j *JanitorJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("evict_idle_workspaces", interval, j.workspaces.EvictIdle)
	scheduler.AddJob("prune_revoked_sessions", interval, j.PruneRevokedSessions)
}

func (j *JanitorJobs) PruneRevokedSessions(_ context.Context) error {
	if n := j.revocations.PruneRevoked(j.now()); n > 0 {
		slog.Info("Cron: pruned revoked sessions", "count", n)
	}
	return nil
}
