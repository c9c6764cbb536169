package leave

import (
	"context"
	"time"
)

// LeaveRequestSource fetches leave requests from the HR platform.
type LeaveRequestSource interface {
	FetchLeaveRequests(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
}

// IntegrationService mirrors leave requests into one external target.
type IntegrationService interface {
	// Name identifies the integration in the mapping table.
	Name() string
	// HandleCreate creates the remote entry and returns its ID.
	HandleCreate(ctx context.Context, lr LeaveRequest) (string, error)
	// HandleUpdate replaces the remote entry and returns the ID now holding it.
	HandleUpdate(ctx context.Context, lr LeaveRequest, eventID string) (string, error)
	// HandleRemove deletes the remote entry of a cancelled request.
	HandleRemove(ctx context.Context, lr LeaveRequest, eventID string) error
	NoUpdateNeededMessage(lr LeaveRequest) string
}

type SyncService interface {
	// Sync runs one reconciliation pass. It returns ErrSyncInProgress when
	// another pass has not finished yet.
	Sync(ctx context.Context) (SyncResult, error)
}
