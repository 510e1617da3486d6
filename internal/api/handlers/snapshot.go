package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/queue"
	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

type SnapshotHandler struct {
	store  *tracking.DataStore
	events Broadcaster
}

func NewSnapshotHandler(store *tracking.DataStore, events Broadcaster) *SnapshotHandler {
	return &SnapshotHandler{store: store, events: events}
}

// Reload loads a fresh snapshot and tells connected views about the outcome.
// A failed load leaves the previous snapshot in place.
func (h *SnapshotHandler) Reload(ctx context.Context) (*models.Snapshot, error) {
	snap, err := h.store.Load(ctx)
	if err != nil {
		h.events.Notify("error", "Error loading data: "+err.Error())
		return nil, err
	}
	resp := refreshResponse(snap)
	h.events.BroadcastEvent(&dto.WSEvent{Type: dto.WSSnapshotUpdated, Data: resp})
	return snap, nil
}

// NoticeHandler reloads the snapshot on snapshots.updated notices, at most
// once per throttle window. Notices inside the window are acked and folded
// into one reload when the window closes.
func (h *SnapshotHandler) NoticeHandler(throttle *tracking.Throttle) queue.SnapshotHandler {
	return func(ctx context.Context, n queue.SnapshotNotice) error {
		ran := throttle.Do(func() {
			slog.Info("snapshot update notice", "source", n.Source, "reason", n.Reason)
			_, _ = h.Reload(ctx)
		})
		if !ran {
			slog.Debug("snapshot update deferred", "source", n.Source)
		}
		return nil
	}
}

func (h *SnapshotHandler) Refresh(c *gin.Context) {
	snap, err := h.Reload(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, refreshResponse(snap))
}

func refreshResponse(snap *models.Snapshot) dto.RefreshResponse {
	return dto.RefreshResponse{
		Status:   "ok",
		Persons:  len(snap.Persons),
		Cameras:  len(snap.Cameras),
		LoadedAt: formatTime(snap.LoadedAt),
	}
}
