package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/baniere/baniere-api/internal/models"
)

// GroupSchedules collapses schedules sharing an identical weekly time
// pattern into one shape per equivalence class, listing the interchangeable
// sections for each course slot. Without this, same-time sections that
// differ only in room or label multiply the apparent result count without
// adding scheduling diversity. Input order (best-first) is preserved.
func GroupSchedules(schedules []models.Schedule) []models.GroupedSchedule {
	classes := make(map[string][]models.Schedule)
	var order []string

	for _, schedule := range schedules {
		key := schedulePattern(&schedule)
		if _, seen := classes[key]; !seen {
			order = append(order, key)
		}
		classes[key] = append(classes[key], schedule)
	}

	grouped := make([]models.GroupedSchedule, 0, len(order))
	for _, key := range order {
		grouped = append(grouped, groupClass(classes[key]))
	}
	return grouped
}

// schedulePattern builds the equivalence key: per course (sorted by code),
// the weekday set plus start/end of every meeting. Room, building and
// section label are deliberately excluded.
func schedulePattern(schedule *models.Schedule) string {
	sections := make([]models.Section, len(schedule.Sections))
	copy(sections, schedule.Sections)
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].SubjectCourse < sections[j].SubjectCourse
	})

	patterns := make([]string, 0, len(sections))
	for i := range sections {
		sec := &sections[i]
		coursePattern := make([]string, 0, len(sec.MeetingTimes))
		for _, meeting := range sec.MeetingTimes {
			days := make([]string, len(meeting.Days))
			copy(days, meeting.Days)
			sort.Strings(days)
			coursePattern = append(coursePattern, fmt.Sprintf("%s:%s:%s-%s",
				sec.SubjectCourse, strings.Join(days, ","), meeting.BeginTime, meeting.EndTime))
		}
		sort.Strings(coursePattern)
		patterns = append(patterns, strings.Join(coursePattern, "|"))
	}
	return strings.Join(patterns, "||")
}

func groupClass(class []models.Schedule) models.GroupedSchedule {
	base := class[0]

	// Every distinct section (by reference number) that fills a course slot
	// anywhere in the class is an acceptable alternative for that slot.
	byCourse := make(map[string][]models.Section)
	for _, schedule := range class {
		for _, sec := range schedule.Sections {
			byCourse[sec.SubjectCourse] = append(byCourse[sec.SubjectCourse], sec)
		}
	}

	slots := make([]models.GroupedCourseSlot, 0, len(base.Sections))
	for _, baseSec := range base.Sections {
		alternatives := lo.UniqBy(byCourse[baseSec.SubjectCourse], func(sec models.Section) string {
			return sec.CourseReferenceNumber
		})
		sort.SliceStable(alternatives, func(i, j int) bool {
			ni, nj := labelNumber(alternatives[i].Label), labelNumber(alternatives[j].Label)
			if ni != nj {
				return ni < nj
			}
			return alternatives[i].Label < alternatives[j].Label
		})
		slots = append(slots, models.GroupedCourseSlot{
			SubjectCourse: baseSec.SubjectCourse,
			Sections:      alternatives,
		})
	}

	return models.GroupedSchedule{
		ID:       base.ID,
		Slots:    slots,
		Score:    base.Score,
		Metadata: base.Metadata,
		OriginalScheduleIDs: lo.Map(class, func(s models.Schedule, _ int) string {
			return s.ID
		}),
	}
}

// labelNumber parses a section label numerically when possible ("1", "2",
// "10"); non-numeric labels sort together at zero and fall back to the
// lexicographic tiebreak.
func labelNumber(label string) int {
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0
	}
	return n
}
