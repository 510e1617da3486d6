package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/campustrack/internal/backend/canned"
	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/tracking"
)

func ids(persons []models.PersonRecord) []string {
	out := make([]string, 0, len(persons))
	for _, p := range persons {
		out = append(out, p.ID)
	}
	return out
}

func minutes(n int) *int { return &n }

func TestApply_EmptyCriteriaReturnsInputUnchanged(t *testing.T) {
	persons := canned.Persons()

	got := tracking.Apply(persons, models.FilterCriteria{})
	assert.Equal(t, persons, got)
	assert.Equal(t, []string{"PERSON_001", "PERSON_002", "PERSON_003"}, ids(got))
}

func TestApply_BlankRawCriteriaIsNoConstraint(t *testing.T) {
	c, err := tracking.ParseCriteria(tracking.RawCriteria{Camera: "  ", Duration: "", Status: ""})
	require.NoError(t, err)

	got := tracking.Apply(canned.Persons(), c)
	assert.Len(t, got, 3)
}

func TestApply_DurationFiveMinutes(t *testing.T) {
	c, err := tracking.ParseCriteria(tracking.RawCriteria{Duration: "5"})
	require.NoError(t, err)

	got := tracking.Apply(canned.Persons(), c)
	assert.Equal(t, []string{"PERSON_001", "PERSON_002"}, ids(got))
}

func TestApply_DurationIsInclusive(t *testing.T) {
	persons := []models.PersonRecord{
		{ID: "EXACT", Duration: 600},
		{ID: "SHORT", Duration: 599},
	}

	got := tracking.Apply(persons, models.FilterCriteria{MinDurationMinutes: minutes(10)})
	assert.Equal(t, []string{"EXACT"}, ids(got))

	got = tracking.Apply(persons, models.FilterCriteria{MaxDurationMinutes: minutes(10)})
	assert.Equal(t, []string{"EXACT", "SHORT"}, ids(got))
}

func TestApply_MaxDuration(t *testing.T) {
	got := tracking.Apply(canned.Persons(), models.FilterCriteria{MaxDurationMinutes: minutes(5)})
	assert.Equal(t, []string{"PERSON_001", "PERSON_003"}, ids(got))
}

func TestApply_CameraMatchesExactly(t *testing.T) {
	persons := canned.Persons()
	for _, cam := range []string{"CAM_1", "CAM_2", "CAM_3", "CAM_9"} {
		got := tracking.Apply(persons, models.FilterCriteria{Camera: cam})
		for _, p := range got {
			assert.Equal(t, cam, p.Camera)
		}
	}
	assert.Empty(t, tracking.Apply(persons, models.FilterCriteria{Camera: "cam_1"}))
}

func TestApply_PersonIDCaseInsensitive(t *testing.T) {
	got := tracking.Apply(canned.Persons(), models.FilterCriteria{PersonID: "person_001"})
	assert.Equal(t, []string{"PERSON_001"}, ids(got))

	got = tracking.Apply(canned.Persons(), models.FilterCriteria{PersonID: "son_00"})
	assert.Len(t, got, 3)
}

func TestApply_DateBoundsCompareAsStrings(t *testing.T) {
	persons := canned.Persons()

	got := tracking.Apply(persons, models.FilterCriteria{DateFrom: "2025-10-23 14:30"})
	assert.Equal(t, []string{"PERSON_001", "PERSON_003"}, ids(got))

	got = tracking.Apply(persons, models.FilterCriteria{DateTo: "2025-10-23 14:36"})
	assert.Equal(t, []string{"PERSON_001"}, ids(got))

	// A differently formatted bound is not parsed: "2025-10-23T..." sorts after "2025-10-23 ...".
	got = tracking.Apply(persons, models.FilterCriteria{DateFrom: "2025-10-23T00:00"})
	assert.Empty(t, got)
}

func TestApply_Status(t *testing.T) {
	got := tracking.Apply(canned.Persons(), models.FilterCriteria{Status: models.PersonStatusInactive})
	assert.Equal(t, []string{"PERSON_002"}, ids(got))
}

func TestApply_ConstraintsCombine(t *testing.T) {
	persons := canned.Persons()

	got := tracking.Apply(persons, models.FilterCriteria{
		Status:             models.PersonStatusActive,
		MinDurationMinutes: minutes(1),
		PersonID:           "3",
	})
	assert.Equal(t, []string{"PERSON_003"}, ids(got))

	got = tracking.Apply(persons, models.FilterCriteria{Camera: "CAM_1", Status: models.PersonStatusInactive})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	persons := canned.Persons()
	before := canned.Persons()

	_ = tracking.Apply(persons, models.FilterCriteria{Camera: "CAM_2"})
	assert.Equal(t, before, persons)
}
