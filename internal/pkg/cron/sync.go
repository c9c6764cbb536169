package cron

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
)

const SageCalendarSyncJob = "sage calendar sync"

type SyncJobs struct {
	syncService leave.SyncService
	schedule    string
}

func NewSyncJobs(syncService leave.SyncService, schedule string) *SyncJobs {
	return &SyncJobs{
		syncService: syncService,
		schedule:    schedule,
	}
}

func (j *SyncJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(SageCalendarSyncJob, j.schedule, j.SyncSageCalendar)
}

// SyncSageCalendar runs one reconciliation pass. A pass already in flight,
// for instance one started over HTTP, is not an error.
func (j *SyncJobs) SyncSageCalendar(ctx context.Context) error {
	result, err := j.syncService.Sync(ctx)
	if errors.Is(err, leave.ErrSyncInProgress) {
		slog.Warn("Cron: sync already running, skipping tick")
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Cron: sage calendar sync done",
		"run_id", result.RunID,
		"created", result.Created,
		"updated", result.Updated,
		"removed", result.Removed,
		"failed", result.Failed,
	)
	return nil
}
