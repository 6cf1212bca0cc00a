package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/baniere/baniere-api/internal/models"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
)

// FilterEngine decides, per section, whether it survives the user's
// constraints. Pure pass/fail with diagnostic logging only.
type FilterEngine struct {
	logger *zap.Logger
}

// NewFilterEngine constructs a filter engine.
func NewFilterEngine(logger *zap.Logger) *FilterEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterEngine{logger: logger}
}

// SectionPasses applies the filter rules in order; the first failing rule
// excludes the section.
func (e *FilterEngine) SectionPasses(sec *models.Section, filters *models.Filters) bool {
	if filters.OnlyOpenSections && !sec.OpenSection {
		return false
	}

	for _, ref := range filters.ForbiddenSections {
		if sec.CourseReferenceNumber == ref {
			return false
		}
	}

	if len(filters.ForbiddenProfessors) > 0 && facultyMatches(sec.Faculty, filters.ForbiddenProfessors) {
		return false
	}

	intervals := SectionIntervals(sec)

	// A TBA section must not silently bypass active time constraints.
	if len(intervals) == 0 && filters.HasTimeConstraints() {
		e.logger.Debug("section excluded: TBA with active time filters",
			zap.String("section", sectionName(sec)))
		return false
	}

	for _, interval := range intervals {
		if containsDay(filters.FreeDays, interval.Day) {
			e.logger.Debug("section excluded: meets on free day",
				zap.String("section", sectionName(sec)),
				zap.String("day", interval.Day))
			return false
		}

		if blockedByWindow(filters.TimeBlocks, interval) {
			e.logger.Debug("section excluded: overlaps blocked window",
				zap.String("section", sectionName(sec)),
				zap.String("day", interval.Day))
			return false
		}

		if filters.MaxEndTime != "" && interval.EndTime > filters.MaxEndTime {
			e.logger.Debug("section excluded: ends too late",
				zap.String("section", sectionName(sec)),
				zap.String("end", interval.EndTime))
			return false
		}

		if filters.MinStartTime != "" && interval.BeginTime < filters.MinStartTime {
			e.logger.Debug("section excluded: starts too early",
				zap.String("section", sectionName(sec)),
				zap.String("begin", interval.BeginTime))
			return false
		}

		for _, df := range filters.SpecificDayFilters {
			if df.Day != interval.Day {
				continue
			}
			if df.MaxEndTime != "" && interval.EndTime > df.MaxEndTime {
				return false
			}
			if df.MinStartTime != "" && interval.BeginTime < df.MinStartTime {
				return false
			}
		}
	}

	return true
}

// FilterSections keeps only the sections passing all rules.
func (e *FilterEngine) FilterSections(sections []models.Section, filters *models.Filters) []models.Section {
	result := make([]models.Section, 0, len(sections))
	for i := range sections {
		if e.SectionPasses(&sections[i], filters) {
			result = append(result, sections[i])
		}
	}
	return result
}

// HasPreferredProfessor reports whether any of the section's faculty match
// the preferred-professor list.
func HasPreferredProfessor(sec *models.Section, preferred []string) bool {
	if len(preferred) == 0 {
		return false
	}
	return facultyMatches(sec.Faculty, preferred)
}

// facultyMatches applies the two-mode professor match: exact identifier
// equality or case-sensitive substring of the display name.
func facultyMatches(faculty []models.Faculty, entries []string) bool {
	for _, prof := range faculty {
		for _, entry := range entries {
			if entry == "" {
				continue
			}
			if prof.BannerID == entry || strings.Contains(prof.DisplayName, entry) {
				return true
			}
		}
	}
	return false
}

func blockedByWindow(blocks []models.TimeBlock, interval models.TimeInterval) bool {
	for _, block := range blocks {
		if block.Day != interval.Day {
			continue
		}
		if timesOverlap(interval.BeginTime, interval.EndTime, block.StartTime, block.EndTime) {
			return true
		}
	}
	return false
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func sectionName(sec *models.Section) string {
	return sec.SubjectCourse + "-" + sec.Label
}

// ValidateFilters runs the boundary validation pass: the engine itself
// assumes a pre-validated Filters value.
func ValidateFilters(filters *models.Filters) error {
	var errs []string

	if filters.MaxEndTime != "" && !ValidTimeFormat(filters.MaxEndTime) {
		errs = append(errs, fmt.Sprintf("invalid maxEndTime format: %s, expected HHMM", filters.MaxEndTime))
	}
	if filters.MinStartTime != "" && !ValidTimeFormat(filters.MinStartTime) {
		errs = append(errs, fmt.Sprintf("invalid minStartTime format: %s, expected HHMM", filters.MinStartTime))
	}

	for _, day := range filters.FreeDays {
		if !validDay(day) {
			errs = append(errs, fmt.Sprintf("invalid day: %s", day))
		}
	}

	for _, block := range filters.TimeBlocks {
		if !validDay(block.Day) {
			errs = append(errs, fmt.Sprintf("invalid day in timeBlocks: %s", block.Day))
		}
		if !ValidTimeFormat(block.StartTime) || !ValidTimeFormat(block.EndTime) {
			errs = append(errs, fmt.Sprintf("invalid time window in timeBlocks for %s", block.Day))
		} else if block.StartTime >= block.EndTime {
			errs = append(errs, fmt.Sprintf("timeBlocks window for %s must start before it ends", block.Day))
		}
	}

	for _, df := range filters.SpecificDayFilters {
		if !validDay(df.Day) {
			errs = append(errs, fmt.Sprintf("invalid day in specificDayFilters: %s", df.Day))
		}
		if df.MaxEndTime != "" && !ValidTimeFormat(df.MaxEndTime) {
			errs = append(errs, fmt.Sprintf("invalid maxEndTime in specificDayFilters for %s", df.Day))
		}
		if df.MinStartTime != "" && !ValidTimeFormat(df.MinStartTime) {
			errs = append(errs, fmt.Sprintf("invalid minStartTime in specificDayFilters for %s", df.Day))
		}
	}

	if filters.MinStartTime != "" && filters.MaxEndTime != "" && filters.MinStartTime >= filters.MaxEndTime {
		errs = append(errs, "minStartTime must be less than maxEndTime")
	}

	if filters.MaxGapMinutes != nil && *filters.MaxGapMinutes < 0 {
		errs = append(errs, "maxGapMinutes must be non-negative")
	}

	// A section cannot be both required and forbidden; contradictory input
	// is rejected rather than resolved silently.
	forbidden := make(map[string]bool, len(filters.ForbiddenSections))
	for _, ref := range filters.ForbiddenSections {
		forbidden[ref] = true
	}
	for _, ref := range filters.RequiredSections {
		if forbidden[ref] {
			errs = append(errs, fmt.Sprintf("section %s is both required and forbidden", ref))
		}
	}

	if len(errs) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

func validDay(day string) bool {
	for _, d := range models.ValidDays {
		if d == day {
			return true
		}
	}
	return false
}
