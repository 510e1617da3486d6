package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotNotice is the payload of snapshots.updated.
type SnapshotNotice struct {
	Source    string    `json:"source"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DecodeSnapshotNotice parses a snapshots.updated payload. An empty payload
// is a bare nudge and decodes to a zero notice.
func DecodeSnapshotNotice(data []byte) (SnapshotNotice, error) {
	var n SnapshotNotice
	if len(data) == 0 {
		return n, nil
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return n, fmt.Errorf("decode snapshot notice: %w", err)
	}
	return n, nil
}
