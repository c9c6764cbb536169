package leavesync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	LookaheadDays    int
	Concurrency      int
	Location         *time.Location
	TestUsersEnabled bool
	TestUsers        []int64
}

type SyncServiceImpl struct {
	source       leave.LeaveRequestSource
	repo         leave.LeaveRequestCalendarEventRepository
	integrations []leave.IntegrationService
	cfg          Config
	now          func() time.Time

	running sync.Mutex
}

func NewSyncService(
	source leave.LeaveRequestSource,
	repo leave.LeaveRequestCalendarEventRepository,
	integrations []leave.IntegrationService,
	cfg Config,
) leave.SyncService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &SyncServiceImpl{
		source:       source,
		repo:         repo,
		integrations: integrations,
		cfg:          cfg,
		now:          time.Now,
	}
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeCreated
	outcomeUpdated
	outcomeUnchanged
	outcomeRemoved
)

type tally struct {
	created, updated, unchanged, removed, failed atomic.Int64
}

func (t *tally) add(o outcome) {
	switch o {
	case outcomeCreated:
		t.created.Add(1)
	case outcomeUpdated:
		t.updated.Add(1)
	case outcomeUnchanged:
		t.unchanged.Add(1)
	case outcomeRemoved:
		t.removed.Add(1)
	case outcomeFailed:
		t.failed.Add(1)
	}
}

// Sync implements leave.SyncService.
func (s *SyncServiceImpl) Sync(ctx context.Context) (leave.SyncResult, error) {
	if !s.running.TryLock() {
		return leave.SyncResult{}, leave.ErrSyncInProgress
	}
	defer s.running.Unlock()

	loc := s.cfg.Location
	now := s.now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, s.cfg.LookaheadDays)

	result := leave.SyncResult{
		RunID:     uuid.NewString(),
		From:      from.Format(leave.DateLayout),
		To:        to.Format(leave.DateLayout),
		StartedAt: time.Now(),
	}
	logger := slog.With("run_id", result.RunID)
	logger.Info("Starting leave calendar sync", "from", result.From, "to", result.To)

	requests, err := s.source.FetchLeaveRequests(ctx, from, to)
	if err != nil {
		result.FinishedAt = time.Now()
		logger.Error("Failed to fetch leave requests", "error", err)
		return result, fmt.Errorf("fetch leave requests: %w", err)
	}
	result.Fetched = len(requests)

	approved, cancelled := s.partition(dedupe(requests))
	result.Approved = len(approved)
	result.Cancelled = len(cancelled)

	var t tally

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for _, lr := range approved {
		g.Go(func() error {
			for _, integ := range s.integrations {
				t.add(s.reconcileApproved(ctx, logger, integ, lr))
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(cancelled) > 0 {
		for _, integ := range s.integrations {
			s.removeCancelled(ctx, logger, integ, cancelled, &t)
		}
	}

	result.Created = int(t.created.Load())
	result.Updated = int(t.updated.Load())
	result.Unchanged = int(t.unchanged.Load())
	result.Removed = int(t.removed.Load())
	result.Failed = int(t.failed.Load())
	result.FinishedAt = time.Now()

	logger.Info("Leave calendar sync finished",
		"fetched", result.Fetched,
		"approved", result.Approved,
		"cancelled", result.Cancelled,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"removed", result.Removed,
		"failed", result.Failed,
		"duration", result.FinishedAt.Sub(result.StartedAt).String(),
	)
	return result, nil
}

// dedupe keeps the last occurrence of every leave request ID, preserving the
// order of first appearance.
func dedupe(requests []leave.LeaveRequest) []leave.LeaveRequest {
	index := make(map[int64]int, len(requests))
	out := make([]leave.LeaveRequest, 0, len(requests))
	for _, lr := range requests {
		if i, ok := index[lr.ID]; ok {
			out[i] = lr
			continue
		}
		index[lr.ID] = len(out)
		out = append(out, lr)
	}
	return out
}

func (s *SyncServiceImpl) partition(requests []leave.LeaveRequest) (approved, cancelled []leave.LeaveRequest) {
	for _, lr := range requests {
		if s.cfg.TestUsersEnabled && !slices.Contains(s.cfg.TestUsers, lr.EmployeeID) {
			continue
		}
		switch {
		case lr.IsApproved():
			approved = append(approved, lr)
		case lr.IsCancelled():
			cancelled = append(cancelled, lr)
		}
	}
	return approved, cancelled
}

func (s *SyncServiceImpl) reconcileApproved(ctx context.Context, logger *slog.Logger, integ leave.IntegrationService, lr leave.LeaveRequest) outcome {
	logger = logger.With("integration", integ.Name(), "leave_request_id", lr.ID)
	loc := s.cfg.Location

	start, end, err := leave.DateTimes(lr, loc)
	if err != nil {
		logger.Error("Invalid leave request dates", "error", err)
		return outcomeFailed
	}

	row, err := s.repo.FindBySageID(ctx, integ.Name(), lr.ID)
	if err != nil {
		logger.Error("Failed to look up calendar event mapping", "error", err)
		return outcomeFailed
	}

	switch {
	case row == nil:
		eventID, err := integ.HandleCreate(ctx, lr)
		if err != nil {
			logger.Error("Failed to create calendar event", "error", err)
			return outcomeFailed
		}
		_, err = s.repo.Create(ctx, leave.LeaveRequestCalendarEvent{
			Integration:        integ.Name(),
			SageLeaveRequestID: lr.ID,
			CalendarEventID:    &eventID,
			StartDateTime:      start,
			EndDateTime:        end,
		})
		if err != nil {
			logger.Error("Failed to save calendar event mapping, removing event", "event_id", eventID, "error", err)
			if rmErr := integ.HandleRemove(ctx, lr, eventID); rmErr != nil {
				logger.Error("Failed to remove unmapped calendar event", "event_id", eventID, "error", rmErr)
			}
			return outcomeFailed
		}
		return outcomeCreated

	case !row.HasCalendarEvent():
		eventID, err := integ.HandleCreate(ctx, lr)
		if err != nil {
			logger.Error("Failed to create calendar event", "error", err)
			return outcomeFailed
		}
		row.CalendarEventID = &eventID
		row.StartDateTime, row.EndDateTime = start, end
		if err := s.repo.Update(ctx, *row); err != nil {
			logger.Error("Failed to update calendar event mapping", "event_id", eventID, "error", err)
			return outcomeFailed
		}
		return outcomeCreated

	case !leave.DateTimesEqual(row.StartDateTime, start, loc) || !leave.DateTimesEqual(row.EndDateTime, end, loc):
		eventID, err := integ.HandleUpdate(ctx, lr, *row.CalendarEventID)
		if err != nil {
			logger.Error("Failed to update calendar event", "event_id", *row.CalendarEventID, "error", err)
			return outcomeFailed
		}
		row.CalendarEventID = &eventID
		row.StartDateTime, row.EndDateTime = start, end
		if err := s.repo.Update(ctx, *row); err != nil {
			logger.Error("Failed to update calendar event mapping", "event_id", eventID, "error", err)
			return outcomeFailed
		}
		return outcomeUpdated

	default:
		logger.Info(integ.NoUpdateNeededMessage(lr))
		return outcomeUnchanged
	}
}

func (s *SyncServiceImpl) removeCancelled(ctx context.Context, logger *slog.Logger, integ leave.IntegrationService, cancelled []leave.LeaveRequest, t *tally) {
	logger = logger.With("integration", integ.Name())

	byID := make(map[int64]leave.LeaveRequest, len(cancelled))
	ids := make([]int64, 0, len(cancelled))
	for _, lr := range cancelled {
		byID[lr.ID] = lr
		ids = append(ids, lr.ID)
	}

	rows, err := s.repo.FindBySageIDs(ctx, integ.Name(), ids)
	if err != nil {
		logger.Error("Failed to look up mappings of cancelled leave requests", "count", len(ids), "error", err)
		t.add(outcomeFailed)
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for _, row := range rows {
		g.Go(func() error {
			t.add(s.removeOne(ctx, logger, integ, byID[row.SageLeaveRequestID], row))
			return nil
		})
	}
	_ = g.Wait()
}

func (s *SyncServiceImpl) removeOne(ctx context.Context, logger *slog.Logger, integ leave.IntegrationService, lr leave.LeaveRequest, row leave.LeaveRequestCalendarEvent) outcome {
	logger = logger.With("leave_request_id", row.SageLeaveRequestID)

	if row.HasCalendarEvent() {
		if err := integ.HandleRemove(ctx, lr, *row.CalendarEventID); err != nil {
			logger.Error("Failed to remove calendar event", "event_id", *row.CalendarEventID, "error", err)
			return outcomeFailed
		}
	}

	if err := s.repo.Delete(ctx, row.ID); err != nil {
		logger.Error("Failed to delete calendar event mapping", "mapping_id", row.ID, "error", err)
		return outcomeFailed
	}

	logger.Info("Event Calendar removed for cancelled leave request")
	return outcomeRemoved
}
