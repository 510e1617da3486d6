package dto

type SearchResultResponse struct {
	ID           string `json:"id"`
	Image        string `json:"image"`
	Camera       string `json:"camera"`
	Time         string `json:"time"`
	Confidence   int    `json:"confidence"`
	Duration     int    `json:"duration"`
	DurationText string `json:"duration_text"`
	MatchType    string `json:"match_type"`
}

// SearchResponse is returned by every /search endpoint. An empty Results
// list is a valid "no matches" answer.
type SearchResponse struct {
	SearchID string                 `json:"search_id"`
	Type     string                 `json:"type"`
	Query    string                 `json:"query"`
	Results  []SearchResultResponse `json:"results"`
	Total    int                    `json:"total"`
	ProbeKey string                 `json:"probe_key,omitempty"`
}

type HistoryEntryResponse struct {
	SearchID    string `json:"search_id"`
	Type        string `json:"type"`
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
	Timestamp   string `json:"timestamp"`
}

type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
	Total   int                    `json:"total"`
}
