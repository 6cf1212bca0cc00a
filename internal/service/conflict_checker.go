package service

import (
	"regexp"
	"strconv"

	"github.com/baniere/baniere-api/internal/models"
)

var validTimePattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3])[0-5][0-9]$`)

// ValidTimeFormat reports whether raw is a well-formed HHMM time.
func ValidTimeFormat(raw string) bool {
	return validTimePattern.MatchString(raw)
}

// timesOverlap applies the half-open overlap test: touching endpoints do not
// overlap. HHMM strings compare correctly lexicographically.
func timesOverlap(beginA, endA, beginB, endB string) bool {
	return beginA < endB && beginB < endA
}

// timeToMinutes converts an HHMM string to minutes from midnight.
func timeToMinutes(t string) int {
	if len(t) != 4 {
		return 0
	}
	hours, err := strconv.Atoi(t[:2])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(t[2:])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// gapMinutes measures the distance from the end of one interval to the start
// of the next. Negative values indicate overlap or adjacency.
func gapMinutes(endTime, startTime string) int {
	return timeToMinutes(startTime) - timeToMinutes(endTime)
}

// SectionIntervals flattens a section's meeting pattern into (day, begin,
// end) tuples. TBA entries and entries without weekday flags contribute
// nothing, so fully asynchronous sections expand to an empty set.
func SectionIntervals(sec *models.Section) []models.TimeInterval {
	var intervals []models.TimeInterval
	for _, meeting := range sec.MeetingTimes {
		if meeting.BeginTime == models.TimeTBA || meeting.EndTime == models.TimeTBA || len(meeting.Days) == 0 {
			continue
		}
		for _, day := range meeting.Days {
			intervals = append(intervals, models.TimeInterval{
				Day:       day,
				BeginTime: meeting.BeginTime,
				EndTime:   meeting.EndTime,
				Building:  meeting.Building,
				Room:      meeting.Room,
			})
		}
	}
	return intervals
}

// SectionsConflict reports whether two sections collide in time. Sections
// tagged with two different defined cycles occupy disjoint half-terms and
// never conflict; sections without intervals never conflict with anything.
func SectionsConflict(a, b *models.Section) bool {
	if a.Cycle != 0 && b.Cycle != 0 && a.Cycle != b.Cycle {
		return false
	}

	intervalsA := SectionIntervals(a)
	intervalsB := SectionIntervals(b)
	if len(intervalsA) == 0 || len(intervalsB) == 0 {
		return false
	}

	for _, ia := range intervalsA {
		for _, ib := range intervalsB {
			if ia.Day == ib.Day && timesOverlap(ia.BeginTime, ia.EndTime, ib.BeginTime, ib.EndTime) {
				return true
			}
		}
	}
	return false
}

// ConflictMatrix maps a section reference number to the set of reference
// numbers it conflicts with. Symmetric, stored densely in both directions
// for O(1) lookup either way during backtracking.
type ConflictMatrix map[string]map[string]bool

// BuildConflictMatrix computes the pairwise conflict relation once for a
// flat section pool. O(n²) here buys O(1) membership checks inside the
// exponential search.
func BuildConflictMatrix(sections []models.Section) ConflictMatrix {
	matrix := make(ConflictMatrix, len(sections))
	for i := range sections {
		matrix[sections[i].CourseReferenceNumber] = make(map[string]bool)
	}
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if SectionsConflict(&sections[i], &sections[j]) {
				refI := sections[i].CourseReferenceNumber
				refJ := sections[j].CourseReferenceNumber
				matrix[refI][refJ] = true
				matrix[refJ][refI] = true
			}
		}
	}
	return matrix
}

// HasConflict reports whether the candidate reference conflicts with any of
// the already chosen references.
func (m ConflictMatrix) HasConflict(candidateRef string, chosenRefs []string) bool {
	conflicts := m[candidateRef]
	if len(conflicts) == 0 {
		return false
	}
	for _, ref := range chosenRefs {
		if conflicts[ref] {
			return true
		}
	}
	return false
}
