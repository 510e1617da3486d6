package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/campustrack/internal/models"
)

func TestSearchSubject(t *testing.T) {
	assert.Equal(t, "searches.face", SearchSubject(models.MatchFace))
	assert.Equal(t, "searches.id", SearchSubject(models.MatchID))
	assert.Equal(t, "searches.time", SearchSubject(models.MatchTime))
	assert.Equal(t, "searches.unknown", SearchSubject(""))
}

func TestDecodeSnapshotNotice(t *testing.T) {
	n, err := DecodeSnapshotNotice([]byte(`{"source":"tracker","reason":"new sighting","timestamp":"2025-10-23T14:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "tracker", n.Source)
	assert.Equal(t, "new sighting", n.Reason)
	assert.Equal(t, time.Date(2025, 10, 23, 14, 0, 0, 0, time.UTC), n.Timestamp)
}

func TestDecodeSnapshotNotice_Empty(t *testing.T) {
	n, err := DecodeSnapshotNotice(nil)
	require.NoError(t, err)
	assert.Equal(t, SnapshotNotice{}, n)
}

func TestDecodeSnapshotNotice_Malformed(t *testing.T) {
	_, err := DecodeSnapshotNotice([]byte("{"))
	assert.Error(t, err)
}
