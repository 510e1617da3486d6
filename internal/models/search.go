package models

import "time"

type MatchType string

const (
	MatchFace MatchType = "face"
	MatchID   MatchType = "id"
	MatchTime MatchType = "time"
)

// FaceImage is an uploaded probe image.
type FaceImage struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type TimeRange struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Camera string `json:"camera,omitempty"`
}

// SearchQuery is a tagged variant; only the field matching Type is set.
type SearchQuery struct {
	Type  MatchType  `json:"type"`
	Face  *FaceImage `json:"face,omitempty"`
	ID    string     `json:"id,omitempty"`
	Range *TimeRange `json:"range,omitempty"`
}

// SearchResult is one match returned by a search backend.
type SearchResult struct {
	ID         string    `json:"id"`
	Image      string    `json:"image"`
	Camera     string    `json:"camera"`
	Time       string    `json:"time"`
	Confidence int       `json:"confidence"`
	Duration   int       `json:"duration"`
	MatchType  MatchType `json:"match_type"`
}

// HistoryEntry records one completed search.
type HistoryEntry struct {
	SearchID    string    `json:"search_id"`
	Type        MatchType `json:"type"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}
