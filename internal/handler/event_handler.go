package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoffmv/shipmate-ai/internal/models"
	"github.com/hoffmv/shipmate-ai/internal/service"
	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
	"github.com/hoffmv/shipmate-ai/pkg/response"
)

type calendarEventService interface {
	AddEvent(ctx context.Context, req service.AddEventRequest) (string, error)
	RemoveEvent(ctx context.Context, eventID string) (bool, error)
	ListAllEvents(ctx context.Context) ([]models.Event, error)
	EventsForDate(ctx context.Context, date string) ([]models.Event, error)
}

// EventHandler exposes the calendar event CRUD endpoints.
type EventHandler struct {
	service calendarEventService
}

// NewEventHandler constructs the handler.
func NewEventHandler(service calendarEventService) *EventHandler {
	return &EventHandler{service: service}
}

// Create godoc
// @Summary Add or replace a calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.AddEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	eventID, err := h.service.AddEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"event_id": eventID})
}

// List godoc
// @Summary List calendar events
// @Tags Events
// @Produce json
// @Param date query string false "Filter by calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	date := c.Query("date")

	var (
		events []models.Event
		err    error
	)
	if date != "" {
		events, err = h.service.EventsForDate(c.Request.Context(), date)
	} else {
		events, err = h.service.ListAllEvents(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Delete godoc
// @Summary Remove a calendar event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	removed, err := h.service.RemoveEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "event not found"))
		return
	}
	response.NoContent(c)
}
