package tracking

import (
	"fmt"

	"github.com/your-org/campustrack/internal/models"
)

// Stats are the headline numbers shown above the person grid.
type Stats struct {
	TotalPersons   int    `json:"total_persons"`
	ActiveCameras  int    `json:"active_cameras"`
	TotalDuration  string `json:"total_duration"`
	RecentSearches int    `json:"recent_searches"`
}

func ComputeStats(snap *models.Snapshot, recentSearches int) Stats {
	st := Stats{
		TotalPersons:   len(snap.Persons),
		RecentSearches: recentSearches,
	}
	for _, c := range snap.Cameras {
		if c.Status == models.CameraStatusActive {
			st.ActiveCameras++
		}
	}
	total := 0
	for _, p := range snap.Persons {
		total += p.Duration
	}
	st.TotalDuration = fmt.Sprintf("%dh", total/3600)
	return st
}

// FormatDuration renders seconds as "1h 2m", "12m 5s" or "45s".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
