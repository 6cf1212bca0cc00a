package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/service"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
	"github.com/baniere/baniere-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleExporter interface {
	Export(req *dto.ExportScheduleRequest) (*service.ExportFile, error)
}

// ScheduleHandler exposes the schedule generation endpoints.
type ScheduleHandler struct {
	generator scheduleGenerator
	exporter  scheduleExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(generator *service.GeneratorService, exporter *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate conflict-free weekly schedules
// @Description Searches every valid one-section-per-course combination, ranked best first.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export a schedule as CSV or PDF
// @Tags Schedules
// @Accept json
// @Produce octet-stream
// @Param payload body dto.ExportScheduleRequest true "Export payload"
// @Success 200 {file} binary
// @Router /schedules/export [post]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	file, err := h.exporter.Export(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
