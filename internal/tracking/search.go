package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/observability"
)

// Backend executes searches. Implementations may block on I/O and should
// return promptly once ctx is cancelled.
type Backend interface {
	SearchByFace(ctx context.Context, img models.FaceImage) ([]models.SearchResult, error)
	SearchByID(ctx context.Context, id string) ([]models.SearchResult, error)
	SearchByTime(ctx context.Context, r models.TimeRange) ([]models.SearchResult, error)
}

// Publisher is notified of every completed search.
type Publisher interface {
	PublishSearch(ctx context.Context, entry models.HistoryEntry) error
}

// ResultSet is the outcome of the latest completed search.
type ResultSet struct {
	SearchID string                `json:"search_id"`
	Query    models.SearchQuery    `json:"query"`
	Results  []models.SearchResult `json:"results"`
	At       time.Time             `json:"at"`
}

// Engine validates search input, runs it against a Backend and keeps history.
// Only the most recently started search may become current: starting a search
// cancels the one in flight. This is process-wide. A server shares one Engine
// across all clients, so one client's search supersedes another's.
type Engine struct {
	backend   Backend
	history   *History
	publisher Publisher

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *ResultSet
}

func NewEngine(backend Backend, historySize int) *Engine {
	return &Engine{
		backend: backend,
		history: NewHistory(historySize),
	}
}

// SetPublisher sets the hook that receives completed searches.
func (e *Engine) SetPublisher(p Publisher) {
	e.publisher = p
}

func (e *Engine) SearchByFace(ctx context.Context, img *models.FaceImage) (*ResultSet, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, newValidationError("image", "please upload an image first")
	}
	q := models.SearchQuery{Type: models.MatchFace, Face: img}
	return e.run(ctx, q, func(ctx context.Context) ([]models.SearchResult, error) {
		return e.backend.SearchByFace(ctx, *img)
	})
}

func (e *Engine) SearchByID(ctx context.Context, id string) (*ResultSet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, newValidationError("id", "please enter a person id")
	}
	q := models.SearchQuery{Type: models.MatchID, ID: id}
	return e.run(ctx, q, func(ctx context.Context) ([]models.SearchResult, error) {
		return e.backend.SearchByID(ctx, id)
	})
}

func (e *Engine) SearchByTime(ctx context.Context, r models.TimeRange) (*ResultSet, error) {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Camera = strings.TrimSpace(r.Camera)
	if r.From == "" || r.To == "" {
		return nil, newValidationError("time", "please select both time ranges")
	}
	q := models.SearchQuery{Type: models.MatchTime, Range: &r}
	return e.run(ctx, q, func(ctx context.Context) ([]models.SearchResult, error) {
		return e.backend.SearchByTime(ctx, r)
	})
}

// Current returns the latest completed result set, or nil.
func (e *Engine) Current() *ResultSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// History returns completed searches, newest first.
func (e *Engine) History() []models.HistoryEntry {
	return e.history.Entries()
}

func (e *Engine) HistoryLen() int {
	return e.history.Len()
}

func (e *Engine) run(ctx context.Context, q models.SearchQuery, call func(context.Context) ([]models.SearchResult, error)) (*ResultSet, error) {
	ctx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.gen++
	gen := e.gen
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.mu.Unlock()

	start := time.Now()
	results, err := call(ctx)
	elapsed := time.Since(start)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		cancel()
		observability.SearchesSuperseded.Inc()
		slog.Debug("search superseded", "type", q.Type, "generation", gen)
		return nil, ErrSuperseded
	}
	e.cancel = nil
	cancel()

	if err != nil {
		e.mu.Unlock()
		observability.Searches.WithLabelValues(string(q.Type), "error").Inc()
		if !IsValidation(err) && !IsTransport(err) {
			err = &TransportError{Op: "search by " + string(q.Type), Err: err}
		}
		return nil, err
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	rs := &ResultSet{
		SearchID: uuid.New().String(),
		Query:    q,
		Results:  results,
		At:       time.Now().UTC(),
	}
	e.current = rs
	entry := models.HistoryEntry{
		SearchID:    rs.SearchID,
		Type:        q.Type,
		Query:       Describe(q),
		ResultCount: len(results),
		Timestamp:   rs.At,
	}
	e.history.Add(entry)
	e.mu.Unlock()

	observability.Searches.WithLabelValues(string(q.Type), "ok").Inc()
	observability.SearchDuration.WithLabelValues(string(q.Type)).Observe(elapsed.Seconds())
	slog.Info("search completed", "type", q.Type, "results", len(results), "duration", elapsed.String())

	if e.publisher != nil {
		if err := e.publisher.PublishSearch(context.WithoutCancel(ctx), entry); err != nil {
			slog.Warn("publish search", "error", err)
		}
	}
	return rs, nil
}

// Describe renders a query the way history entries show it.
func Describe(q models.SearchQuery) string {
	switch q.Type {
	case models.MatchFace:
		if q.Face != nil && q.Face.Filename != "" {
			return "image:" + q.Face.Filename
		}
		return "image"
	case models.MatchID:
		return q.ID
	case models.MatchTime:
		if q.Range == nil {
			return ""
		}
		d := fmt.Sprintf("%s..%s", q.Range.From, q.Range.To)
		if q.Range.Camera != "" {
			d += " @" + q.Range.Camera
		}
		return d
	}
	return ""
}

// IsSuperseded reports whether err means the search lost to a newer one.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
