package models

// ValidDays enumerates the recognized weekday labels, in week order.
var ValidDays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// Filters is the constraint specification for one generation request.
// Absent fields mean unconstrained. The engine never mutates a Filters value.
type Filters struct {
	MaxEndTime          string      `json:"maxEndTime,omitempty"`
	MinStartTime        string      `json:"minStartTime,omitempty"`
	FreeDays            []string    `json:"freeDays,omitempty"`
	RequiredSections    []string    `json:"requiredSections,omitempty"`
	ForbiddenSections   []string    `json:"forbiddenSections,omitempty"`
	RequiredProfessors  []string    `json:"requiredProfessors,omitempty"`
	ForbiddenProfessors []string    `json:"forbiddenProfessors,omitempty"`
	OnlyOpenSections    bool        `json:"onlyOpenSections,omitempty"`
	PreferCompact       bool        `json:"preferCompact,omitempty"`
	MaxGapMinutes       *int        `json:"maxGapMinutes,omitempty"`
	TimeBlocks          []TimeBlock `json:"timeBlocks,omitempty"`
	SpecificDayFilters  []DayFilter `json:"specificDayFilters,omitempty"`
}

// HasTimeConstraints reports whether any time-based rule is active. Sections
// with no meeting intervals must not silently bypass these.
func (f *Filters) HasTimeConstraints() bool {
	return len(f.FreeDays) > 0 ||
		f.MaxEndTime != "" ||
		f.MinStartTime != "" ||
		len(f.TimeBlocks) > 0 ||
		len(f.SpecificDayFilters) > 0
}

// TimeBlock is a user-blocked window on one weekday (HHMM bounds).
type TimeBlock struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label,omitempty"`
}

// DayFilter overrides the global time bounds for one weekday.
type DayFilter struct {
	Day          string `json:"day"`
	MaxEndTime   string `json:"maxEndTime,omitempty"`
	MinStartTime string `json:"minStartTime,omitempty"`
}

// Schedule is one complete conflict-free assignment of one section per
// requested course. Immutable after creation.
type Schedule struct {
	ID       string           `json:"id"`
	Sections []Section        `json:"sections"`
	Score    int              `json:"score"`
	Metadata ScheduleMetadata `json:"metadata"`
}

// ScheduleMetadata aggregates the per-schedule measurements the score is
// derived from.
type ScheduleMetadata struct {
	LatestEndTime            string  `json:"latestEndTime"`
	EarliestStartTime        string  `json:"earliestStartTime"`
	TotalGaps                int     `json:"totalGaps"`
	DaysOnCampus             int     `json:"daysOnCampus"`
	TotalCredits             float64 `json:"totalCredits"`
	PreferredProfessorsCount int     `json:"preferredProfessorsCount"`
}

// GenerationResult is the engine's answer for one request.
type GenerationResult struct {
	Schedules    []Schedule `json:"schedules"`
	TotalFound   int        `json:"totalFound"`
	SearchTimeMs int64      `json:"searchTimeMs"`
	LimitReached bool       `json:"limitReached"`
}

// GroupedSchedule collapses schedules sharing an identical weekly time
// pattern into one shape with interchangeable picks per course slot.
type GroupedSchedule struct {
	ID                  string              `json:"id"`
	Slots               []GroupedCourseSlot `json:"slots"`
	Score               int                 `json:"score"`
	Metadata            ScheduleMetadata    `json:"metadata"`
	OriginalScheduleIDs []string            `json:"originalScheduleIds"`
}

// GroupedCourseSlot lists every acceptable section for one course slot of a
// grouped schedule. Sections[0] is the display representative.
type GroupedCourseSlot struct {
	SubjectCourse string    `json:"subjectCourse"`
	Sections      []Section `json:"sections"`
}
