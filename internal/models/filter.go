package models

// FilterCriteria narrows a snapshot to a result view. Empty strings and nil
// pointers mean "no constraint".
type FilterCriteria struct {
	DateFrom           string       `json:"date_from,omitempty" form:"date_from"`
	DateTo             string       `json:"date_to,omitempty" form:"date_to"`
	Camera             string       `json:"camera,omitempty" form:"camera"`
	MinDurationMinutes *int         `json:"duration,omitempty"`
	MaxDurationMinutes *int         `json:"max_duration,omitempty"`
	Status             PersonStatus `json:"status,omitempty" form:"status"`
	PersonID           string       `json:"person_id,omitempty" form:"person_id"`
}

// IsEmpty reports whether no constraint is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.DateFrom == "" && c.DateTo == "" && c.Camera == "" &&
		c.MinDurationMinutes == nil && c.MaxDurationMinutes == nil &&
		c.Status == "" && c.PersonID == ""
}
