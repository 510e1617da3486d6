package models

type CameraStatus string

const (
	CameraStatusActive CameraStatus = "active"
	CameraStatusDemo   CameraStatus = "demo"
)

type CameraRecord struct {
	ID           string       `json:"id" db:"id"`
	Status       CameraStatus `json:"status" db:"status"`
	Occupancy    int          `json:"occupancy" db:"occupancy"`
	LastActivity string       `json:"last_activity" db:"last_activity"`
}
