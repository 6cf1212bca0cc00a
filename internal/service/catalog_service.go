package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/models"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
)

// catalogSource abstracts the raw catalog snapshot loader.
type catalogSource interface {
	Load(ctx context.Context) (*models.BannerResponse, error)
}

// searchPreviewSections caps the per-course section preview in search results.
const searchPreviewSections = 5

// CatalogService normalizes the raw Banner dump into Sections and answers
// catalog queries. All lookups run against the repository's cached snapshot.
type CatalogService struct {
	source catalogSource
	logger *zap.Logger
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(source catalogSource, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, logger: logger}
}

// AllSections returns every normalized section matching the query.
func (s *CatalogService) AllSections(ctx context.Context, query *dto.CourseQuery) ([]models.Section, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(snapshot.Data))
	for i := range snapshot.Data {
		raw := &snapshot.Data[i]
		if query.Term != "" && raw.Term != query.Term {
			continue
		}
		if query.Subject != "" && raw.Subject != query.Subject {
			continue
		}
		if query.OpenOnly && !raw.OpenSection {
			continue
		}
		sections = append(sections, normalizeCourse(raw))
	}
	return sections, nil
}

// SectionsByCode returns every section of one course code.
func (s *CatalogService) SectionsByCode(ctx context.Context, code string) ([]models.Section, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	var sections []models.Section
	for i := range snapshot.Data {
		if snapshot.Data[i].SubjectCourse == code {
			sections = append(sections, normalizeCourse(&snapshot.Data[i]))
		}
	}

	if len(sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, fmt.Sprintf("course %s not found", code))
	}
	return sections, nil
}

// Search matches course codes and titles, accent-insensitively, and groups
// hits per course with a short section preview.
func (s *CatalogService) Search(ctx context.Context, query string) ([]dto.CourseSummary, error) {
	normalized := normalizeForSearch(query)
	if len(normalized) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search query must be at least 2 characters")
	}

	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Section)
	var order []string
	for i := range snapshot.Data {
		raw := &snapshot.Data[i]
		if !strings.Contains(raw.SubjectCourse, normalized) &&
			!strings.Contains(normalizeForSearch(raw.CourseTitle), normalized) {
			continue
		}
		if _, seen := grouped[raw.SubjectCourse]; !seen {
			order = append(order, raw.SubjectCourse)
		}
		grouped[raw.SubjectCourse] = append(grouped[raw.SubjectCourse], normalizeCourse(raw))
	}

	results := make([]dto.CourseSummary, 0, len(order))
	for _, code := range order {
		sections := grouped[code]
		open := 0
		for i := range sections {
			if sections[i].OpenSection {
				open++
			}
		}
		preview := sections
		if len(preview) > searchPreviewSections {
			preview = preview[:searchPreviewSections]
		}
		results = append(results, dto.CourseSummary{
			SubjectCourse: code,
			CourseTitle:   sections[0].CourseTitle,
			Subject:       sections[0].Subject,
			CourseNumber:  sections[0].CourseNumber,
			CreditHours:   sections[0].CreditHours,
			SectionCount:  len(sections),
			OpenSections:  open,
			Sections:      preview,
		})
	}
	return results, nil
}

// Subjects lists the distinct subject prefixes, sorted.
func (s *CatalogService) Subjects(ctx context.Context) ([]string, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var subjects []string
	for i := range snapshot.Data {
		subject := snapshot.Data[i].Subject
		if subject == "" || seen[subject] {
			continue
		}
		seen[subject] = true
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// PoolsFor resolves requested course codes into section pools. An unknown
// code fails the whole request so the caller never searches a silently
// incomplete product.
func (s *CatalogService) PoolsFor(ctx context.Context, codes []string) (map[string][]models.Section, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(codes))
	pools := make(map[string][]models.Section, len(codes))
	for _, code := range codes {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		wanted[normalized] = true
		pools[normalized] = nil
	}

	for i := range snapshot.Data {
		raw := &snapshot.Data[i]
		if !wanted[raw.SubjectCourse] {
			continue
		}
		pools[raw.SubjectCourse] = append(pools[raw.SubjectCourse], normalizeCourse(raw))
	}

	for code, pool := range pools {
		if len(pool) == 0 {
			return nil, appErrors.Clone(appErrors.ErrCourseNotFound, fmt.Sprintf("course %s not found", code))
		}
	}
	return pools, nil
}

func (s *CatalogService) load(ctx context.Context) (*models.BannerResponse, error) {
	snapshot, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, appErrors.ErrCatalog.Message)
	}
	return snapshot, nil
}

// normalizeCourse converts one raw Banner record into a Section.
func normalizeCourse(raw *models.BannerCourse) models.Section {
	sec := models.Section{
		ID:                    raw.ID,
		Term:                  raw.Term,
		CourseReferenceNumber: raw.CourseReferenceNumber,
		SubjectCourse:         raw.SubjectCourse,
		CourseTitle:           raw.CourseTitle,
		Subject:               raw.Subject,
		CourseNumber:          raw.CourseNumber,
		Label:                 raw.SequenceNumber,
		CreditHours:           raw.CreditHourLow,
		MaximumEnrollment:     raw.MaximumEnrollment,
		Enrollment:            raw.Enrollment,
		SeatsAvailable:        raw.SeatsAvailable,
		OpenSection:           raw.OpenSection,
		ScheduleType:          raw.ScheduleType,
		WaitAvailable:         raw.WaitAvailable,
		Cycle:                 extractCycle(raw.CourseTitle),
	}

	if raw.CreditHours != nil {
		sec.CreditHours = *raw.CreditHours
	}
	if raw.CrossList != nil {
		sec.CrossList = *raw.CrossList
	}

	for _, f := range raw.Faculty {
		sec.Faculty = append(sec.Faculty, models.Faculty{
			BannerID:    f.BannerID,
			DisplayName: f.DisplayName,
			Email:       f.EmailAddress,
			IsPrimary:   f.PrimaryIndicator,
		})
	}
	if len(sec.Faculty) == 0 {
		sec.Faculty = []models.Faculty{{DisplayName: "Por Asignar", IsPrimary: true}}
	}

	for _, mf := range raw.MeetingsFaculty {
		mt := mf.MeetingTime
		days := extractDays(&mt)

		// Entries with neither days nor times carry no information at all.
		if len(days) == 0 && (mt.BeginTime == "" || mt.EndTime == "") {
			continue
		}

		begin, end := mt.BeginTime, mt.EndTime
		if begin == "" {
			begin = models.TimeTBA
		}
		if end == "" {
			end = models.TimeTBA
		}

		sec.MeetingTimes = append(sec.MeetingTimes, models.MeetingTime{
			BeginTime:           begin,
			EndTime:             end,
			Days:                days,
			Building:            mt.Building,
			BuildingDescription: html.UnescapeString(mt.BuildingDescription),
			Room:                mt.Room,
			StartDate:           convertDateFormat(mt.StartDate),
			EndDate:             convertDateFormat(mt.EndDate),
		})
	}

	return sec
}

func extractDays(mt *models.BannerMeetingTime) []string {
	var days []string
	if mt.Monday {
		days = append(days, "monday")
	}
	if mt.Tuesday {
		days = append(days, "tuesday")
	}
	if mt.Wednesday {
		days = append(days, "wednesday")
	}
	if mt.Thursday {
		days = append(days, "thursday")
	}
	if mt.Friday {
		days = append(days, "friday")
	}
	if mt.Saturday {
		days = append(days, "saturday")
	}
	if mt.Sunday {
		days = append(days, "sunday")
	}
	return days
}

// extractCycle recognizes the half-term marker Banner embeds in course
// titles. Zero means the section spans the full term.
func extractCycle(title string) int {
	if strings.Contains(title, "Ciclo 1 de 8 semanas") {
		return 1
	}
	if strings.Contains(title, "Ciclo 2 de 8 semanas") {
		return 2
	}
	return 0
}

// convertDateFormat rewrites Banner's DD/MM/YYYY dates as ISO 8601.
// Anything else passes through untouched.
func convertDateFormat(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

// normalizeForSearch uppercases and strips diacritics so "programacion"
// finds "PROGRAMACIÓN".
func normalizeForSearch(text string) string {
	decomposed := norm.NFD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(strings.TrimSpace(b.String()))
}
