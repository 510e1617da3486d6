package tracking

import (
	"strings"

	"github.com/your-org/campustrack/internal/models"
)

type predicate func(p *models.PersonRecord) bool

// Apply returns the persons that satisfy every constraint set in c, in input
// order. Timestamps are compared as strings. With no constraint set the input
// slice itself is returned.
func Apply(persons []models.PersonRecord, c models.FilterCriteria) []models.PersonRecord {
	preds := predicates(c)
	if len(preds) == 0 {
		return persons
	}

	out := make([]models.PersonRecord, 0, len(persons))
next:
	for i := range persons {
		for _, match := range preds {
			if !match(&persons[i]) {
				continue next
			}
		}
		out = append(out, persons[i])
	}
	return out
}

func predicates(c models.FilterCriteria) []predicate {
	var preds []predicate
	if c.DateFrom != "" {
		preds = append(preds, func(p *models.PersonRecord) bool { return p.FirstSeen >= c.DateFrom })
	}
	if c.DateTo != "" {
		preds = append(preds, func(p *models.PersonRecord) bool { return p.LastSeen <= c.DateTo })
	}
	if c.Camera != "" {
		preds = append(preds, func(p *models.PersonRecord) bool { return p.Camera == c.Camera })
	}
	if c.MinDurationMinutes != nil {
		minSec := *c.MinDurationMinutes * 60
		preds = append(preds, func(p *models.PersonRecord) bool { return p.Duration >= minSec })
	}
	if c.MaxDurationMinutes != nil {
		maxSec := *c.MaxDurationMinutes * 60
		preds = append(preds, func(p *models.PersonRecord) bool { return p.Duration <= maxSec })
	}
	if c.Status != "" {
		preds = append(preds, func(p *models.PersonRecord) bool { return p.Status == c.Status })
	}
	if c.PersonID != "" {
		needle := strings.ToLower(c.PersonID)
		preds = append(preds, func(p *models.PersonRecord) bool {
			return strings.Contains(strings.ToLower(p.ID), needle)
		})
	}
	return preds
}
