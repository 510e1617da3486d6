package dto

import "encoding/json"

const (
	WSSnapshotUpdated       = "snapshot_updated"
	WSSearchCompleted       = "search_completed"
	WSNotification          = "notification"
	WSNotificationDismissed = "notification_dismissed"
	WSFilterResult          = "filter_result"
	WSFilter                = "filter"
)

// WSEvent is a WebSocket message pushed to dashboard views.
type WSEvent struct {
	Type         string          `json:"type"`
	Data         any             `json:"data,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
	Criteria     json.RawMessage `json:"criteria,omitempty"`
}

// Notification is a transient message the view shows until DismissAfterMS elapses.
type Notification struct {
	ID             string `json:"id"`
	Level          string `json:"level"`
	Message        string `json:"message"`
	DismissAfterMS int64  `json:"dismiss_after_ms"`
}
