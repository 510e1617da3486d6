package dto

type PersonResponse struct {
	ID           string `json:"id"`
	Image        string `json:"image"`
	Camera       string `json:"camera"`
	FirstSeen    string `json:"first_seen"`
	LastSeen     string `json:"last_seen"`
	Duration     int    `json:"duration"`
	DurationText string `json:"duration_text"`
	TotalCameras int    `json:"total_cameras"`
	Status       string `json:"status"`
	Confidence   int    `json:"confidence"`
}

type PersonListResponse struct {
	Persons []PersonResponse `json:"persons"`
	Total   int              `json:"total"`
}

type CameraResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Occupancy    int    `json:"occupancy"`
	LastActivity string `json:"last_activity"`
}

type CameraListResponse struct {
	Cameras []CameraResponse `json:"cameras"`
	Total   int              `json:"total"`
}

type StatsResponse struct {
	TotalPersons   int    `json:"total_persons"`
	ActiveCameras  int    `json:"active_cameras"`
	TotalDuration  string `json:"total_duration"`
	RecentSearches int    `json:"recent_searches"`
	LoadedAt       string `json:"loaded_at,omitempty"`
}

type RefreshResponse struct {
	Status   string `json:"status"`
	Persons  int    `json:"persons"`
	Cameras  int    `json:"cameras"`
	LoadedAt string `json:"loaded_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
