package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baniere/baniere-api/internal/models"
)

func makeSection(crn, course, label string, meetings ...models.MeetingTime) models.Section {
	return models.Section{
		CourseReferenceNumber: crn,
		SubjectCourse:         course,
		Label:                 label,
		CreditHours:           3,
		OpenSection:           true,
		Faculty: []models.Faculty{
			{BannerID: "p" + crn, DisplayName: "Prof " + crn, IsPrimary: true},
		},
		MeetingTimes: meetings,
	}
}

func meeting(begin, end string, days ...string) models.MeetingTime {
	return models.MeetingTime{BeginTime: begin, EndTime: end, Days: days}
}

func TestValidTimeFormat(t *testing.T) {
	assert.True(t, ValidTimeFormat("0000"))
	assert.True(t, ValidTimeFormat("0930"))
	assert.True(t, ValidTimeFormat("2359"))
	assert.False(t, ValidTimeFormat("2400"))
	assert.False(t, ValidTimeFormat("1260"))
	assert.False(t, ValidTimeFormat("930"))
	assert.False(t, ValidTimeFormat("09:30"))
	assert.False(t, ValidTimeFormat(""))
}

func TestTimesOverlapHalfOpen(t *testing.T) {
	assert.True(t, timesOverlap("0900", "1100", "1000", "1200"))
	assert.True(t, timesOverlap("1000", "1200", "0900", "1100"))
	assert.True(t, timesOverlap("0900", "1200", "1000", "1100"))

	// Touching endpoints are not a conflict.
	assert.False(t, timesOverlap("0900", "1000", "1000", "1100"))
	assert.False(t, timesOverlap("1000", "1100", "0900", "1000"))
	assert.False(t, timesOverlap("0800", "0900", "1000", "1100"))
}

func TestSectionIntervalsExpandsDays(t *testing.T) {
	sec := makeSection("10001", "MATE1203", "1",
		meeting("0900", "1050", "monday", "wednesday"),
		meeting("1400", "1450", "friday"),
	)

	intervals := SectionIntervals(&sec)
	require.Len(t, intervals, 3)
	assert.Equal(t, "monday", intervals[0].Day)
	assert.Equal(t, "wednesday", intervals[1].Day)
	assert.Equal(t, "friday", intervals[2].Day)
	assert.Equal(t, "0900", intervals[0].BeginTime)
}

func TestSectionIntervalsSkipsTBA(t *testing.T) {
	sec := makeSection("10002", "ISIS1105", "V",
		models.MeetingTime{BeginTime: models.TimeTBA, EndTime: models.TimeTBA, Days: []string{"monday"}},
		models.MeetingTime{BeginTime: "0900", EndTime: "1050"},
	)

	assert.Empty(t, SectionIntervals(&sec))
}

func TestSectionsConflict(t *testing.T) {
	a := makeSection("10001", "MATE1203", "1", meeting("0900", "1050", "monday"))
	b := makeSection("10002", "FISI1518", "1", meeting("1000", "1150", "monday"))
	c := makeSection("10003", "ISIS1105", "1", meeting("0900", "1050", "tuesday"))

	assert.True(t, SectionsConflict(&a, &b))
	assert.True(t, SectionsConflict(&b, &a), "conflict must be symmetric")
	assert.False(t, SectionsConflict(&a, &c), "different days never conflict")
	d := a2(t)
	assert.False(t, SectionsConflict(&a, &d), "adjacent times never conflict")
}

func a2(t *testing.T) models.Section {
	t.Helper()
	return makeSection("10004", "QUIM1103", "1", meeting("1050", "1150", "monday"))
}

func TestSectionsConflictCycleExemption(t *testing.T) {
	a := makeSection("10001", "ADMI2501", "1", meeting("0900", "1050", "monday"))
	b := makeSection("10002", "ADMI2502", "1", meeting("0900", "1050", "monday"))
	a.Cycle = 1
	b.Cycle = 2

	assert.False(t, SectionsConflict(&a, &b), "different cycles occupy disjoint half-terms")

	b.Cycle = 1
	assert.True(t, SectionsConflict(&a, &b), "same cycle conflicts normally")

	b.Cycle = 0
	assert.True(t, SectionsConflict(&a, &b), "full-term section conflicts with either cycle")
}

func TestSectionsConflictTBANeverConflicts(t *testing.T) {
	tba := makeSection("10001", "ISIS1105", "V")
	timed := makeSection("10002", "MATE1203", "1", meeting("0900", "1050", "monday"))

	assert.False(t, SectionsConflict(&tba, &timed))
	assert.False(t, SectionsConflict(&tba, &tba))
}

func TestBuildConflictMatrix(t *testing.T) {
	sections := []models.Section{
		makeSection("10001", "MATE1203", "1", meeting("0900", "1050", "monday")),
		makeSection("10002", "FISI1518", "1", meeting("1000", "1150", "monday")),
		makeSection("10003", "ISIS1105", "1", meeting("1400", "1550", "monday")),
	}

	matrix := BuildConflictMatrix(sections)

	assert.True(t, matrix["10001"]["10002"])
	assert.True(t, matrix["10002"]["10001"], "matrix must be symmetric")
	assert.False(t, matrix["10001"]["10003"])
	assert.False(t, matrix["10002"]["10003"])
}

func TestHasConflict(t *testing.T) {
	sections := []models.Section{
		makeSection("10001", "MATE1203", "1", meeting("0900", "1050", "monday")),
		makeSection("10002", "FISI1518", "1", meeting("1000", "1150", "monday")),
		makeSection("10003", "ISIS1105", "1", meeting("1400", "1550", "monday")),
	}
	matrix := BuildConflictMatrix(sections)

	assert.True(t, matrix.HasConflict("10002", []string{"10003", "10001"}))
	assert.False(t, matrix.HasConflict("10003", []string{"10001", "10002"}))
	assert.False(t, matrix.HasConflict("10001", nil))
}

func TestGapMinutes(t *testing.T) {
	assert.Equal(t, 30, gapMinutes("1000", "1030"))
	assert.Equal(t, 0, gapMinutes("1000", "1000"))
	assert.Equal(t, -50, gapMinutes("1050", "1000"))
	assert.Equal(t, 70, gapMinutes("0950", "1100"))
}
