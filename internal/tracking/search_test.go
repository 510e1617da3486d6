package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/campustrack/internal/models"
)

// fakeBackend answers searches through searchID and counts calls.
type fakeBackend struct {
	mu       sync.Mutex
	calls    int
	searchID func(ctx context.Context, id string) ([]models.SearchResult, error)
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBackend) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeBackend) SearchByFace(ctx context.Context, img models.FaceImage) ([]models.SearchResult, error) {
	f.hit()
	return []models.SearchResult{{ID: "PERSON_001", MatchType: models.MatchFace}}, nil
}

func (f *fakeBackend) SearchByID(ctx context.Context, id string) ([]models.SearchResult, error) {
	f.hit()
	if f.searchID != nil {
		return f.searchID(ctx, id)
	}
	return []models.SearchResult{{ID: id, Confidence: 100, MatchType: models.MatchID}}, nil
}

func (f *fakeBackend) SearchByTime(ctx context.Context, r models.TimeRange) ([]models.SearchResult, error) {
	f.hit()
	return nil, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
}

func (p *recordingPublisher) PublishSearch(_ context.Context, e models.HistoryEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, e)
	return nil
}

func TestSearchByID_RejectsBlank(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b, 10)

	for _, id := range []string{"", "   ", "\t\n"} {
		_, err := e.SearchByID(context.Background(), id)
		require.Error(t, err)
		assert.True(t, IsValidation(err), "id %q", id)
	}
	assert.Equal(t, 0, b.count())
	assert.Equal(t, 0, e.HistoryLen())
}

func TestSearchByID_EchoesID(t *testing.T) {
	e := NewEngine(&fakeBackend{}, 10)

	rs, err := e.SearchByID(context.Background(), " PERSON_099 ")
	require.NoError(t, err)
	require.Len(t, rs.Results, 1)
	assert.Equal(t, "PERSON_099", rs.Results[0].ID)
	assert.NotEmpty(t, rs.SearchID)
	assert.Same(t, rs, e.Current())
}

func TestSearchByTime_RequiresBothBounds(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b, 10)

	_, err := e.SearchByTime(context.Background(), models.TimeRange{From: "2025-10-23 14:00"})
	assert.True(t, IsValidation(err))
	_, err = e.SearchByTime(context.Background(), models.TimeRange{To: "2025-10-23 15:00"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, b.count())
}

func TestSearchByTime_EmptyResultIsNotAnError(t *testing.T) {
	e := NewEngine(&fakeBackend{}, 10)

	rs, err := e.SearchByTime(context.Background(), models.TimeRange{From: "a", To: "b", Camera: "CAM_1"})
	require.NoError(t, err)
	require.NotNil(t, rs.Results)
	assert.Empty(t, rs.Results)

	h := e.History()
	require.Len(t, h, 1)
	assert.Equal(t, "a..b @CAM_1", h[0].Query)
	assert.Equal(t, 0, h[0].ResultCount)
}

func TestSearchByFace_RequiresImage(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b, 10)

	_, err := e.SearchByFace(context.Background(), nil)
	assert.True(t, IsValidation(err))
	_, err = e.SearchByFace(context.Background(), &models.FaceImage{Filename: "empty.jpg"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, b.count())

	rs, err := e.SearchByFace(context.Background(), &models.FaceImage{Filename: "me.jpg", Data: []byte{1}})
	require.NoError(t, err)
	assert.Len(t, rs.Results, 1)
	assert.Equal(t, "image:me.jpg", e.History()[0].Query)
}

func TestHistory_KeepsNewestTen(t *testing.T) {
	e := NewEngine(&fakeBackend{}, DefaultHistorySize)

	for i := 1; i <= 11; i++ {
		_, err := e.SearchByID(context.Background(), fmt.Sprintf("Q%d", i))
		require.NoError(t, err)
	}

	h := e.History()
	require.Len(t, h, 10)
	assert.Equal(t, "Q11", h[0].Query)
	assert.Equal(t, "Q2", h[9].Query)
	for _, entry := range h {
		assert.NotEqual(t, "Q1", entry.Query)
	}
}

func TestSearch_TransportErrorKeepsState(t *testing.T) {
	b := &fakeBackend{}
	e := NewEngine(b, 10)

	first, err := e.SearchByID(context.Background(), "OK")
	require.NoError(t, err)

	b.searchID = func(ctx context.Context, id string) ([]models.SearchResult, error) {
		return nil, errors.New("connection refused")
	}
	_, err = e.SearchByID(context.Background(), "FAIL")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Same(t, first, e.Current())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestSearch_BackendValidationErrorPassesThrough(t *testing.T) {
	b := &fakeBackend{searchID: func(ctx context.Context, id string) ([]models.SearchResult, error) {
		return nil, &ValidationError{Field: "id", Message: "unknown format"}
	}}
	e := NewEngine(b, 10)

	_, err := e.SearchByID(context.Background(), "x")
	assert.True(t, IsValidation(err))
	assert.False(t, IsTransport(err))
}

func TestSearch_NewerSearchSupersedesOlder(t *testing.T) {
	started := make(chan struct{})
	b := &fakeBackend{searchID: func(ctx context.Context, id string) ([]models.SearchResult, error) {
		if id == "A" {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []models.SearchResult{{ID: id}}, nil
	}}
	e := NewEngine(b, 10)

	errA := make(chan error, 1)
	go func() {
		_, err := e.SearchByID(context.Background(), "A")
		errA <- err
	}()
	<-started

	rsB, err := e.SearchByID(context.Background(), "B")
	require.NoError(t, err)

	select {
	case err := <-errA:
		assert.True(t, IsSuperseded(err))
	case <-time.After(2 * time.Second):
		t.Fatal("search A was not cancelled")
	}

	assert.Same(t, rsB, e.Current())
	assert.Equal(t, "B", e.Current().Results[0].ID)
	h := e.History()
	require.Len(t, h, 1)
	assert.Equal(t, "B", h[0].Query)
}

func TestSearch_LateResultIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{searchID: func(ctx context.Context, id string) ([]models.SearchResult, error) {
		if id == "A" {
			close(started)
			<-release // ignores cancellation
		}
		return []models.SearchResult{{ID: id}}, nil
	}}
	e := NewEngine(b, 10)

	errA := make(chan error, 1)
	go func() {
		_, err := e.SearchByID(context.Background(), "A")
		errA <- err
	}()
	<-started

	_, err := e.SearchByID(context.Background(), "B")
	require.NoError(t, err)
	close(release)

	assert.True(t, IsSuperseded(<-errA))
	assert.Equal(t, "B", e.Current().Results[0].ID)
	assert.Equal(t, 1, e.HistoryLen())
}

func TestSearch_PublishesCompletedSearches(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEngine(&fakeBackend{}, 10)
	e.SetPublisher(pub)

	rs, err := e.SearchByID(context.Background(), "PERSON_001")
	require.NoError(t, err)
	_, _ = e.SearchByID(context.Background(), "")

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.entries, 1)
	assert.Equal(t, rs.SearchID, pub.entries[0].SearchID)
	assert.Equal(t, models.MatchID, pub.entries[0].Type)
	assert.Equal(t, 1, pub.entries[0].ResultCount)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "image", Describe(models.SearchQuery{Type: models.MatchFace}))
	assert.Equal(t, "PERSON_7", Describe(models.SearchQuery{Type: models.MatchID, ID: "PERSON_7"}))
	assert.Equal(t, "a..b", Describe(models.SearchQuery{Type: models.MatchTime, Range: &models.TimeRange{From: "a", To: "b"}}))
}
