package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

const timeFormat = "2006-01-02T15:04:05Z"

// Broadcaster pushes events to connected dashboard views.
type Broadcaster interface {
	BroadcastEvent(event *dto.WSEvent)
	Notify(level, message string)
}

// writeError maps tracking errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	var ve *tracking.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message, Field: ve.Field})
	case tracking.IsSuperseded(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case tracking.IsTransport(err):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func personToDTO(p models.PersonRecord) dto.PersonResponse {
	return dto.PersonResponse{
		ID:           p.ID,
		Image:        p.Image,
		Camera:       p.Camera,
		FirstSeen:    p.FirstSeen,
		LastSeen:     p.LastSeen,
		Duration:     p.Duration,
		DurationText: tracking.FormatDuration(p.Duration),
		TotalCameras: p.TotalCameras,
		Status:       string(p.Status),
		Confidence:   p.Confidence,
	}
}

// PersonList converts filtered persons into the list response.
func PersonList(persons []models.PersonRecord) dto.PersonListResponse {
	resp := make([]dto.PersonResponse, 0, len(persons))
	for _, p := range persons {
		resp = append(resp, personToDTO(p))
	}
	return dto.PersonListResponse{Persons: resp, Total: len(resp)}
}

func searchToDTO(rs *tracking.ResultSet, probeKey string) dto.SearchResponse {
	results := make([]dto.SearchResultResponse, 0, len(rs.Results))
	for _, r := range rs.Results {
		results = append(results, dto.SearchResultResponse{
			ID:           r.ID,
			Image:        r.Image,
			Camera:       r.Camera,
			Time:         r.Time,
			Confidence:   r.Confidence,
			Duration:     r.Duration,
			DurationText: tracking.FormatDuration(r.Duration),
			MatchType:    string(r.MatchType),
		})
	}
	return dto.SearchResponse{
		SearchID: rs.SearchID,
		Type:     string(rs.Query.Type),
		Query:    tracking.Describe(rs.Query),
		Results:  results,
		Total:    len(results),
		ProbeKey: probeKey,
	}
}
