package tracking

import (
	"math"
	"strconv"
	"strings"

	"github.com/your-org/campustrack/internal/models"
)

// maxMinutes keeps minutes*60 within int.
const maxMinutes = math.MaxInt / 60

// RawCriteria holds filter inputs exactly as a form or query string delivers them.
type RawCriteria struct {
	DateFrom    string `json:"date_from" form:"date_from"`
	DateTo      string `json:"date_to" form:"date_to"`
	Camera      string `json:"camera" form:"camera"`
	Duration    string `json:"duration" form:"duration"`
	MaxDuration string `json:"max_duration" form:"max_duration"`
	Status      string `json:"status" form:"status"`
	PersonID    string `json:"person_id" form:"person_id"`
}

// ParseCriteria converts raw inputs to FilterCriteria. Blank values are unset.
// Durations are minutes; fractions are truncated.
func ParseCriteria(raw RawCriteria) (models.FilterCriteria, error) {
	c := models.FilterCriteria{
		DateFrom: strings.TrimSpace(raw.DateFrom),
		DateTo:   strings.TrimSpace(raw.DateTo),
		Camera:   strings.TrimSpace(raw.Camera),
		PersonID: strings.TrimSpace(raw.PersonID),
	}

	var err error
	if c.MinDurationMinutes, err = parseMinutes("duration", raw.Duration); err != nil {
		return models.FilterCriteria{}, err
	}
	if c.MaxDurationMinutes, err = parseMinutes("max_duration", raw.MaxDuration); err != nil {
		return models.FilterCriteria{}, err
	}

	switch status := models.PersonStatus(strings.TrimSpace(raw.Status)); status {
	case "", models.PersonStatusActive, models.PersonStatusInactive:
		c.Status = status
	default:
		return models.FilterCriteria{}, newValidationError("status", "must be active or inactive")
	}

	return c, nil
}

func parseMinutes(field, v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Fractional minutes truncate toward zero, as the dashboard's parseInt did.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newValidationError(field, "must be a number of minutes")
		}
		if f < 0 {
			return nil, newValidationError(field, "must not be negative")
		}
		if f > float64(maxMinutes) {
			return nil, newValidationError(field, "too large")
		}
		n = int(math.Trunc(f))
	}
	if n < 0 {
		return nil, newValidationError(field, "must not be negative")
	}
	if n > maxMinutes {
		return nil, newValidationError(field, "too large")
	}
	return &n, nil
}
