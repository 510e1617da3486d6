package models

import (
	"errors"
	"fmt"
	"time"
)

type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusInactive PersonStatus = "inactive"
)

// PersonRecord is one detected person as seen by the tracker.
// FirstSeen and LastSeen are ISO-like strings ("2025-10-23 14:30:22") and are
// compared lexicographically, never parsed.
type PersonRecord struct {
	ID           string       `json:"id" db:"id"`
	Image        string       `json:"image" db:"image_ref"`
	Camera       string       `json:"camera" db:"camera_id"`
	FirstSeen    string       `json:"first_seen" db:"first_seen"`
	LastSeen     string       `json:"last_seen" db:"last_seen"`
	Duration     int          `json:"duration" db:"duration_sec"`
	TotalCameras int          `json:"total_cameras" db:"total_cameras"`
	Status       PersonStatus `json:"status" db:"status"`
	Confidence   int          `json:"confidence" db:"confidence"`
}

// Snapshot is the full person/camera view returned by a load. It is never
// mutated after construction; a refresh produces a new Snapshot.
type Snapshot struct {
	Persons  []PersonRecord `json:"persons"`
	Cameras  []CameraRecord `json:"cameras"`
	LoadedAt time.Time      `json:"loaded_at"`
}

// ErrMalformedSnapshot marks a snapshot that loaded but violates the record invariants.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Validate checks record invariants: unique person ids, known enum values and
// numeric ranges.
func (s *Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Persons))
	for i, p := range s.Persons {
		if p.ID == "" {
			return fmt.Errorf("%w: person %d has empty id", ErrMalformedSnapshot, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate person id %s", ErrMalformedSnapshot, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Status != PersonStatusActive && p.Status != PersonStatusInactive {
			return fmt.Errorf("%w: person %s has status %q", ErrMalformedSnapshot, p.ID, p.Status)
		}
		if p.Duration < 0 {
			return fmt.Errorf("%w: person %s has negative duration", ErrMalformedSnapshot, p.ID)
		}
		if p.TotalCameras < 1 {
			return fmt.Errorf("%w: person %s has total_cameras %d", ErrMalformedSnapshot, p.ID, p.TotalCameras)
		}
		if p.Confidence < 0 || p.Confidence > 100 {
			return fmt.Errorf("%w: person %s has confidence %d", ErrMalformedSnapshot, p.ID, p.Confidence)
		}
	}
	for _, c := range s.Cameras {
		if c.Status != CameraStatusActive && c.Status != CameraStatusDemo {
			return fmt.Errorf("%w: camera %s has status %q", ErrMalformedSnapshot, c.ID, c.Status)
		}
	}
	return nil
}

// FindPerson returns the person with the given id, or nil.
func (s *Snapshot) FindPerson(id string) *PersonRecord {
	for i := range s.Persons {
		if s.Persons[i].ID == id {
			return &s.Persons[i]
		}
	}
	return nil
}
