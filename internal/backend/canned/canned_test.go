package canned

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/campustrack/internal/models"
)

func TestLoad_ReturnsFixtures(t *testing.T) {
	b := New(Delays{})

	snap, err := b.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, snap.Validate())

	require.Len(t, snap.Persons, 3)
	assert.Equal(t, "PERSON_001", snap.Persons[0].ID)
	assert.Equal(t, []int{300, 725, 165}, []int{snap.Persons[0].Duration, snap.Persons[1].Duration, snap.Persons[2].Duration})
	assert.Len(t, snap.Cameras, 5)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestPersons_ReturnsCopies(t *testing.T) {
	a := Persons()
	a[0].ID = "changed"
	assert.Equal(t, "PERSON_001", Persons()[0].ID)
}

func TestSearchByID_EchoesID(t *testing.T) {
	b := New(Delays{})

	res, err := b.SearchByID(context.Background(), "PERSON_099")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "PERSON_099", res[0].ID)
	assert.Equal(t, 100, res[0].Confidence)
	assert.Equal(t, models.MatchID, res[0].MatchType)
}

func TestSearchByFace_FixedResults(t *testing.T) {
	b := New(Delays{})

	res, err := b.SearchByFace(context.Background(), models.FaceImage{Data: []byte{1}})
	require.NoError(t, err)
	require.Len(t, res, 3)
	ids := []string{res[0].ID, res[1].ID, res[2].ID}
	assert.Equal(t, []string{"PERSON_001", "PERSON_007", "PERSON_012"}, ids)
	for _, r := range res {
		assert.Equal(t, models.MatchFace, r.MatchType)
	}
}

func TestSearchByTime_FixedResults(t *testing.T) {
	b := New(Delays{})

	res, err := b.SearchByTime(context.Background(), models.TimeRange{From: "a", To: "b"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "PERSON_002", res[1].ID)
	assert.Equal(t, models.MatchTime, res[1].MatchType)
}

func TestDelay_HonoursCancellation(t *testing.T) {
	b := New(Delays{ID: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := b.SearchByID(ctx, "X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}
