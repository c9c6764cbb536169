package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/response"
)

type SyncHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
	ReloadDirectory(w http.ResponseWriter, r *http.Request)
}

// DirectoryReloader is the policy/employee cache of the HR client.
type DirectoryReloader interface {
	Reload(ctx context.Context) error
	Stats() (policies, employees int)
	LoadedAt() time.Time
}

type DirectoryResponse struct {
	Policies  int       `json:"policies"`
	Employees int       `json:"employees"`
	LoadedAt  time.Time `json:"loaded_at"`
}

type SyncHandlerImpl struct {
	syncService leave.SyncService
	directory   DirectoryReloader
}

func NewSyncHandler(syncService leave.SyncService, directory DirectoryReloader) SyncHandler {
	return &SyncHandlerImpl{
		syncService: syncService,
		directory:   directory,
	}
}

// Trigger implements SyncHandler. The pass outlives a disconnecting client.
func (h *SyncHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.Sync(context.WithoutCancel(r.Context()))
	if err != nil {
		slog.Error("Manual sync failed", "run_id", result.RunID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sync completed", result)
}

// ReloadDirectory implements SyncHandler.
func (h *SyncHandlerImpl) ReloadDirectory(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Reload(r.Context()); err != nil {
		slog.Error("Directory reload failed", "error", err)
		response.HandleError(w, err)
		return
	}

	policies, employees := h.directory.Stats()
	response.SuccessWithMessage(w, "Directory reloaded", DirectoryResponse{
		Policies:  policies,
		Employees: employees,
		LoadedAt:  h.directory.LoadedAt(),
	})
}
