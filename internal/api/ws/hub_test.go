package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

func setupHub(t *testing.T, cfg HubConfig) (*Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(cfg)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	return hub, conn
}

// rawEvent keeps Data undecoded so tests can unmarshal it into the type they expect.
type rawEvent struct {
	Type         string            `json:"type"`
	Data         json.RawMessage   `json:"data"`
	Notification *dto.Notification `json:"notification"`
}

func readEvent(t *testing.T, conn *websocket.Conn) rawEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt rawEvent
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestHub_BroadcastEvent(t *testing.T) {
	hub, conn := setupHub(t, HubConfig{})

	hub.BroadcastEvent(&dto.WSEvent{Type: dto.WSSnapshotUpdated, Data: dto.RefreshResponse{Status: "ok", Persons: 3}})

	evt := readEvent(t, conn)
	assert.Equal(t, dto.WSSnapshotUpdated, evt.Type)
	var resp dto.RefreshResponse
	require.NoError(t, json.Unmarshal(evt.Data, &resp))
	assert.Equal(t, 3, resp.Persons)
}

func TestHub_NotifyIsDismissed(t *testing.T) {
	hub, conn := setupHub(t, HubConfig{DismissAfter: 30 * time.Millisecond})

	hub.Notify("error", "Error searching by ID: upstream down")

	evt := readEvent(t, conn)
	require.Equal(t, dto.WSNotification, evt.Type)
	require.NotNil(t, evt.Notification)
	assert.Equal(t, "error", evt.Notification.Level)
	assert.Equal(t, int64(30), evt.Notification.DismissAfterMS)

	dismissed := readEvent(t, conn)
	assert.Equal(t, dto.WSNotificationDismissed, dismissed.Type)
	require.NotNil(t, dismissed.Notification)
	assert.Equal(t, evt.Notification.ID, dismissed.Notification.ID)
}

func TestHub_FilterIsDebounced(t *testing.T) {
	var calls []tracking.RawCriteria
	done := make(chan struct{}, 10)
	_, conn := setupHub(t, HubConfig{
		Debounce: 50 * time.Millisecond,
		Filter: func(raw tracking.RawCriteria) (any, error) {
			calls = append(calls, raw)
			done <- struct{}{}
			return dto.PersonListResponse{Persons: []dto.PersonResponse{}, Total: 0}, nil
		},
	})

	for _, cam := range []string{"CAM_1", "CAM_2", "CAM_3"} {
		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":     "filter",
			"criteria": map[string]any{"camera": cam, "duration": 5},
		}))
	}

	evt := readEvent(t, conn)
	assert.Equal(t, dto.WSFilterResult, evt.Type)
	<-done

	require.Len(t, calls, 1)
	assert.Equal(t, "CAM_3", calls[0].Camera)
	assert.Equal(t, "5", calls[0].Duration)
}

func TestHub_FilterValidationError(t *testing.T) {
	_, conn := setupHub(t, HubConfig{
		Filter: func(raw tracking.RawCriteria) (any, error) {
			_, err := tracking.ParseCriteria(raw)
			return nil, err
		},
	})

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":     "filter",
		"criteria": map[string]any{"duration": "soon"},
	}))

	evt := readEvent(t, conn)
	require.Equal(t, dto.WSFilterResult, evt.Type)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(evt.Data, &resp))
	assert.Equal(t, "duration", resp.Field)
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, conn := setupHub(t, HubConfig{})

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRawCriteria(t *testing.T) {
	raw := rawCriteria(map[string]any{
		"date_from":    "2025-10-23 14:00",
		"duration":     float64(5),
		"max_duration": "10",
		"status":       nil,
	})
	assert.Equal(t, "2025-10-23 14:00", raw.DateFrom)
	assert.Equal(t, "5", raw.Duration)
	assert.Equal(t, "10", raw.MaxDuration)
	assert.Empty(t, raw.Status)
}
