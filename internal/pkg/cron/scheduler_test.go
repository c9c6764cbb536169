package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncService struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSyncService) Sync(ctx context.Context) (leave.SyncResult, error) {
	f.calls.Add(1)
	return leave.SyncResult{RunID: "run"}, f.err
}

func TestScheduler_AddJobRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler()
	err := s.AddJob("broken", "not a cron", func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestScheduler_AcceptsOptionalSeconds(t *testing.T) {
	s := NewScheduler()
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.AddJob("five", "*/20 * * * *", noop))
	require.NoError(t, s.AddJob("six", "0 */20 * * * *", noop))
	require.NoError(t, s.AddJob("descriptor", "@every 5m", noop))
	assert.Len(t, s.Jobs(), 3)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32
	require.NoError(t, s.AddJob("a", "@hourly", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}))
	require.NoError(t, s.AddJob("b", "@hourly", func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	}))

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), ran.Load())
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32
	require.NoError(t, s.AddJob("tick", "* * * * * *", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}))

	s.Start()
	assert.Eventually(t, func() bool { return ran.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestSyncJobs_Register(t *testing.T) {
	s := NewScheduler()
	jobs := NewSyncJobs(&fakeSyncService{}, "*/20 * * * *")

	require.NoError(t, jobs.RegisterJobs(s))
	require.Len(t, s.Jobs(), 1)
	assert.Equal(t, SageCalendarSyncJob, s.Jobs()[0].Name)
}

func TestSyncJobs_SyncSageCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := &fakeSyncService{}
		require.NoError(t, NewSyncJobs(svc, "@hourly").SyncSageCalendar(ctx))
		assert.Equal(t, int32(1), svc.calls.Load())
	})

	t.Run("in progress is skipped", func(t *testing.T) {
		svc := &fakeSyncService{err: leave.ErrSyncInProgress}
		assert.NoError(t, NewSyncJobs(svc, "@hourly").SyncSageCalendar(ctx))
	})

	t.Run("failure surfaces", func(t *testing.T) {
		svc := &fakeSyncService{err: errors.New("sage down")}
		assert.EqualError(t, NewSyncJobs(svc, "@hourly").SyncSageCalendar(ctx), "sage down")
	})
}
