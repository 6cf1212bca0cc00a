package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/models"
	"github.com/baniere/baniere-api/internal/service"
	"github.com/baniere/baniere-api/pkg/response"
)

type courseCatalog interface {
	AllSections(ctx context.Context, query *dto.CourseQuery) ([]models.Section, error)
	SectionsByCode(ctx context.Context, code string) ([]models.Section, error)
	Search(ctx context.Context, query string) ([]dto.CourseSummary, error)
	Subjects(ctx context.Context) ([]string, error)
}

// CourseHandler exposes the catalog endpoints.
type CourseHandler struct {
	catalog courseCatalog
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: svc}
}

// List godoc
// @Summary List catalog sections
// @Tags Courses
// @Produce json
// @Param term query string false "Term code"
// @Param subject query string false "Subject prefix"
// @Param openOnly query bool false "Only open sections"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	query := dto.CourseQuery{
		Term:     c.Query("term"),
		Subject:  c.Query("subject"),
		OpenOnly: c.Query("openOnly") == "true",
	}
	sections, err := h.catalog.AllSections(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, map[string]interface{}{"totalCount": len(sections)})
}

// Search godoc
// @Summary Search courses by code or title
// @Tags Courses
// @Produce json
// @Param q query string true "Search query (min 2 characters)"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	results, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, map[string]interface{}{"totalCount": len(results)})
}

// Subjects godoc
// @Summary List distinct subject prefixes
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/subjects/list [get]
func (h *CourseHandler) Subjects(c *gin.Context) {
	subjects, err := h.catalog.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, map[string]interface{}{"totalCount": len(subjects)})
}

// Sections godoc
// @Summary Get all sections of one course code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code, e.g. MATE1203"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Sections(c *gin.Context) {
	sections, err := h.catalog.SectionsByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, map[string]interface{}{"totalCount": len(sections)})
}
