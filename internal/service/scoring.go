package service

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/baniere/baniere-api/internal/models"
	"github.com/baniere/baniere-api/pkg/config"
)

// ComputeMetadata aggregates the measurements a schedule is ranked by.
// Works on partial schedules too, which the gap-bound pruning relies on.
func ComputeMetadata(sections []models.Section, preferredProfessors []string) models.ScheduleMetadata {
	md := models.ScheduleMetadata{
		LatestEndTime:     "0000",
		EarliestStartTime: "2359",
	}

	daysUsed := make(map[string]bool)
	intervalsByDay := make(map[string][]models.TimeInterval)

	for i := range sections {
		sec := &sections[i]
		md.TotalCredits += sec.CreditHours

		if HasPreferredProfessor(sec, preferredProfessors) {
			md.PreferredProfessorsCount++
		}

		for _, interval := range SectionIntervals(sec) {
			daysUsed[interval.Day] = true
			intervalsByDay[interval.Day] = append(intervalsByDay[interval.Day], interval)

			if interval.EndTime > md.LatestEndTime {
				md.LatestEndTime = interval.EndTime
			}
			if interval.BeginTime < md.EarliestStartTime {
				md.EarliestStartTime = interval.BeginTime
			}
		}
	}

	md.DaysOnCampus = len(daysUsed)

	// Idle time per day: sort by start, sum positive end-to-start distances.
	// Adjacent or overlapping intervals contribute nothing.
	for _, intervals := range intervalsByDay {
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].BeginTime < intervals[j].BeginTime
		})
		for i := 0; i < len(intervals)-1; i++ {
			if gap := gapMinutes(intervals[i].EndTime, intervals[i+1].BeginTime); gap > 0 {
				md.TotalGaps += gap
			}
		}
	}

	return md
}

// ComputeScore folds metadata into a single rank value; lower is better.
func ComputeScore(md models.ScheduleMetadata, preferCompact bool, w config.ScoreWeights) int {
	latestHour := 0
	if len(md.LatestEndTime) == 4 {
		latestHour, _ = strconv.Atoi(md.LatestEndTime[:2])
	}

	score := latestHour*w.LatestEnd +
		md.TotalGaps*w.Gap +
		md.DaysOnCampus*w.Days -
		md.PreferredProfessorsCount*w.Preferred

	if preferCompact {
		score -= w.CompactBonus
	}

	return score
}

// ScheduleID derives the stable schedule identifier: md5 over the sorted
// reference numbers, truncated to 16 hex characters. Insensitive to the
// order sections were assigned in.
func ScheduleID(sections []models.Section) string {
	refs := lo.Map(sections, func(sec models.Section, _ int) string {
		return sec.CourseReferenceNumber
	})
	sort.Strings(refs)
	sum := md5.Sum([]byte(strings.Join(refs, "-")))
	return hex.EncodeToString(sum[:])[:16]
}
