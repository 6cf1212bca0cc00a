package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/models"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
	"github.com/baniere/baniere-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is one rendered schedule document.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a chosen schedule as a downloadable document.
type ExportService struct {
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, validator: validator.New(), logger: logger}
}

// Export renders the request's sections in the requested format. CSV is the
// default when no format is given.
func (s *ExportService) Export(req *dto.ExportScheduleRequest) (*ExportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}

	title := req.Title
	if title == "" {
		title = "Weekly Schedule"
	}

	dataset := buildScheduleDataset(req.Sections)

	var payload []byte
	var contentType string
	var err error
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render schedule export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("schedule.%s", format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func buildScheduleDataset(sections []models.Section) export.Dataset {
	headers := []string{"Course", "Title", "Section", "CRN", "Credits", "Days", "Time", "Location", "Professor"}
	rows := make([]map[string]string, 0, len(sections))

	for i := range sections {
		sec := &sections[i]
		for _, mt := range sec.MeetingTimes {
			rows = append(rows, map[string]string{
				"Course":    sec.SubjectCourse,
				"Title":     sec.CourseTitle,
				"Section":   sec.Label,
				"CRN":       sec.CourseReferenceNumber,
				"Credits":   fmt.Sprintf("%.1f", sec.CreditHours),
				"Days":      strings.Join(mt.Days, ", "),
				"Time":      formatTimeRange(mt.BeginTime, mt.EndTime),
				"Location":  formatLocation(mt.Building, mt.Room),
				"Professor": primaryProfessor(sec.Faculty),
			})
		}
		if len(sec.MeetingTimes) == 0 {
			rows = append(rows, map[string]string{
				"Course":    sec.SubjectCourse,
				"Title":     sec.CourseTitle,
				"Section":   sec.Label,
				"CRN":       sec.CourseReferenceNumber,
				"Credits":   fmt.Sprintf("%.1f", sec.CreditHours),
				"Days":      models.TimeTBA,
				"Time":      models.TimeTBA,
				"Location":  "",
				"Professor": primaryProfessor(sec.Faculty),
			})
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func formatTimeRange(begin, end string) string {
	if begin == models.TimeTBA || end == models.TimeTBA {
		return models.TimeTBA
	}
	return formatClock(begin) + " - " + formatClock(end)
}

func formatClock(t string) string {
	if len(t) != 4 {
		return t
	}
	return t[:2] + ":" + t[2:]
}

func formatLocation(building, room string) string {
	switch {
	case building == "" && room == "":
		return ""
	case room == "":
		return building
	case building == "":
		return room
	default:
		return building + " " + room
	}
}

func primaryProfessor(faculty []models.Faculty) string {
	for _, f := range faculty {
		if f.IsPrimary {
			return f.DisplayName
		}
	}
	if len(faculty) > 0 {
		return faculty[0].DisplayName
	}
	return ""
}
