package dto

import "github.com/baniere/baniere-api/internal/models"

// GenerateScheduleRequest is the payload for POST /schedules/generate.
type GenerateScheduleRequest struct {
	Courses    []string       `json:"courses" binding:"required" validate:"required,min=1,dive,required"`
	Filters    models.Filters `json:"filters"`
	MaxResults int            `json:"maxResults" validate:"omitempty,min=1"`
	Grouped    bool           `json:"grouped"`
}

// GenerateScheduleResponse mirrors the engine output plus optional grouping.
type GenerateScheduleResponse struct {
	Schedules        []models.Schedule        `json:"schedules,omitempty"`
	GroupedSchedules []models.GroupedSchedule `json:"groupedSchedules,omitempty"`
	TotalFound       int                      `json:"totalFound"`
	SearchTimeMs     int64                    `json:"searchTimeMs"`
	LimitReached     bool                     `json:"limitReached"`
}

// ExportScheduleRequest asks for a rendered copy of one schedule.
type ExportScheduleRequest struct {
	Sections []models.Section `json:"sections" binding:"required" validate:"required,min=1"`
	Format   string           `json:"format" validate:"omitempty,oneof=csv pdf"`
	Title    string           `json:"title"`
}
