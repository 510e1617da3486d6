package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/campustrack/internal/models"
)

const (
	SearchesStreamName   = "SEARCHES"
	SearchesSubjectBase  = "searches"
	SnapshotsStreamName  = "SNAPSHOTS"
	SnapshotsSubjectBase = "snapshots"
	SnapshotUpdated      = SnapshotsSubjectBase + ".updated"
)

type Producer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewProducer(natsURL string) (*Producer, error) {
	nc, err := connect(natsURL)
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Producer{nc: nc, js: js}, nil
}

func connect(natsURL string) (*nats.Conn, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// EnsureStreams creates JetStream streams if they don't exist.
// Retries up to 30 times (1s apart) to handle NATS startup delay.
func (p *Producer) EnsureStreams(ctx context.Context) error {
	streams := []jetstream.StreamConfig{
		{
			Name:        SearchesStreamName,
			Subjects:    []string{SearchesSubjectBase + ".>"},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      7 * 24 * time.Hour,
			MaxMsgs:     1000000,
			Storage:     jetstream.FileStorage,
			Discard:     jetstream.DiscardOld,
			Description: "Completed search audit trail",
		},
		{
			Name:        SnapshotsStreamName,
			Subjects:    []string{SnapshotsSubjectBase + ".>"},
			Retention:   jetstream.InterestPolicy,
			MaxAge:      time.Hour,
			MaxMsgs:     10000,
			Storage:     jetstream.FileStorage,
			Duplicates:  30 * time.Second,
			Description: "Tracker data change notices",
		},
	}

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		allOK := true
		for _, cfg := range streams {
			opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_, err := p.js.CreateOrUpdateStream(opCtx, cfg)
			cancel()
			if err != nil {
				allOK = false
				if attempt == maxAttempts {
					return fmt.Errorf("create stream %s: %w (after %d attempts)", cfg.Name, err, maxAttempts)
				}
				slog.Warn("ensure NATS stream (retrying...)", "name", cfg.Name, "attempt", attempt, "error", err)
				break
			}
			slog.Info("ensured NATS stream", "name", cfg.Name)
		}
		if allOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return nil
}

// PublishSearch records a completed search on searches.<type>.
func (p *Producer) PublishSearch(ctx context.Context, entry models.HistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal search entry: %w", err)
	}

	_, err = p.js.Publish(ctx, SearchSubject(entry.Type), payload, jetstream.WithMsgID(entry.SearchID))
	if err != nil {
		return fmt.Errorf("publish search: %w", err)
	}
	return nil
}

// PublishSnapshotUpdated announces that tracker data changed. The tracker
// side normally sends this; trackctl uses it to nudge running servers.
func (p *Producer) PublishSnapshotUpdated(ctx context.Context, n SnapshotNotice) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal snapshot notice: %w", err)
	}
	if _, err := p.js.Publish(ctx, SnapshotUpdated, payload); err != nil {
		return fmt.Errorf("publish snapshot notice: %w", err)
	}
	return nil
}

func (p *Producer) Ping() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

func (p *Producer) Close() {
	p.nc.Close()
}

func SearchSubject(t models.MatchType) string {
	if t == "" {
		t = "unknown"
	}
	return fmt.Sprintf("%s.%s", SearchesSubjectBase, t)
}
