// Package canned serves fixed fixtures after artificial delays. It stands in
// for the tracking backend in demos and tests.
package canned

import (
	"context"
	"time"

	"github.com/your-org/campustrack/internal/models"
)

const placeholderImage = "/static/images/bg-login.jpg"

type Delays struct {
	Load time.Duration
	Face time.Duration
	ID   time.Duration
	Time time.Duration
}

// Backend implements tracking.Source and tracking.Backend.
type Backend struct {
	delays Delays
}

func New(d Delays) *Backend {
	return &Backend{delays: d}
}

func (b *Backend) Load(ctx context.Context) (*models.Snapshot, error) {
	if err := wait(ctx, b.delays.Load); err != nil {
		return nil, err
	}
	return &models.Snapshot{
		Persons:  Persons(),
		Cameras:  Cameras(),
		LoadedAt: time.Now().UTC(),
	}, nil
}

func (b *Backend) SearchByFace(ctx context.Context, _ models.FaceImage) ([]models.SearchResult, error) {
	if err := wait(ctx, b.delays.Face); err != nil {
		return nil, err
	}
	return []models.SearchResult{
		result("PERSON_001", "CAM_1", "2025-10-23 14:30:22", 95, 300, models.MatchFace),
		result("PERSON_007", "CAM_2", "2025-10-23 14:25:10", 87, 725, models.MatchFace),
		result("PERSON_012", "CAM_3", "2025-10-23 14:35:45", 92, 165, models.MatchFace),
	}, nil
}

// SearchByID echoes the requested id as a single exact match.
func (b *Backend) SearchByID(ctx context.Context, id string) ([]models.SearchResult, error) {
	if err := wait(ctx, b.delays.ID); err != nil {
		return nil, err
	}
	return []models.SearchResult{
		result(id, "CAM_1", "2025-10-23 14:30:22", 100, 300, models.MatchID),
	}, nil
}

func (b *Backend) SearchByTime(ctx context.Context, _ models.TimeRange) ([]models.SearchResult, error) {
	if err := wait(ctx, b.delays.Time); err != nil {
		return nil, err
	}
	return []models.SearchResult{
		result("PERSON_001", "CAM_1", "2025-10-23 14:30:22", 95, 300, models.MatchTime),
		result("PERSON_002", "CAM_2", "2025-10-23 14:25:10", 87, 725, models.MatchTime),
	}, nil
}

// Persons returns a fresh copy of the person fixtures.
func Persons() []models.PersonRecord {
	return []models.PersonRecord{
		{
			ID:           "PERSON_001",
			Image:        placeholderImage,
			Camera:       "CAM_1",
			FirstSeen:    "2025-10-23 14:30:22",
			LastSeen:     "2025-10-23 14:35:22",
			Duration:     300,
			TotalCameras: 1,
			Status:       models.PersonStatusActive,
			Confidence:   95,
		},
		{
			ID:           "PERSON_002",
			Image:        placeholderImage,
			Camera:       "CAM_2",
			FirstSeen:    "2025-10-23 14:25:10",
			LastSeen:     "2025-10-23 14:37:15",
			Duration:     725,
			TotalCameras: 2,
			Status:       models.PersonStatusInactive,
			Confidence:   87,
		},
		{
			ID:           "PERSON_003",
			Image:        placeholderImage,
			Camera:       "CAM_3",
			FirstSeen:    "2025-10-23 14:35:45",
			LastSeen:     "2025-10-23 14:38:30",
			Duration:     165,
			TotalCameras: 1,
			Status:       models.PersonStatusActive,
			Confidence:   92,
		},
	}
}

// Cameras returns a fresh copy of the camera fixtures.
func Cameras() []models.CameraRecord {
	return []models.CameraRecord{
		{ID: "CAM_1", Status: models.CameraStatusActive, Occupancy: 1, LastActivity: "2 min ago"},
		{ID: "CAM_2", Status: models.CameraStatusActive, Occupancy: 1, LastActivity: "just now"},
		{ID: "CAM_3", Status: models.CameraStatusActive, Occupancy: 1, LastActivity: "just now"},
		{ID: "CAM_4", Status: models.CameraStatusActive, Occupancy: 0, LastActivity: "15 min ago"},
		{ID: "DEMO_CAM", Status: models.CameraStatusDemo, Occupancy: 0, LastActivity: "demo feed"},
	}
}

func result(id, camera, at string, confidence, duration int, mt models.MatchType) models.SearchResult {
	return models.SearchResult{
		ID:         id,
		Image:      placeholderImage,
		Camera:     camera,
		Time:       at,
		Confidence: confidence,
		Duration:   duration,
		MatchType:  mt,
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
