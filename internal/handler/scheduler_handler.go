package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoffmv/shipmate-ai/internal/models"
	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
	"github.com/hoffmv/shipmate-ai/pkg/response"
)

type scheduleProposer interface {
	ProposeSchedule(ctx context.Context, tasks []models.PendingTask) ([]models.SlotProposal, error)
}

// proposeScheduleRequest carries the pending tasks of one scheduling run.
type proposeScheduleRequest struct {
	Tasks []models.PendingTask `json:"tasks" binding:"required"`
}

// SchedulerHandler exposes the slot proposal endpoint.
type SchedulerHandler struct {
	service scheduleProposer
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(service scheduleProposer) *SchedulerHandler {
	return &SchedulerHandler{service: service}
}

// Propose godoc
// @Summary Propose time slots for pending tasks
// @Description Tasks that cannot be placed before their deadline are omitted from the result.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body proposeScheduleRequest true "Pending tasks"
// @Success 200 {object} response.Envelope
// @Router /schedule/proposals [post]
func (h *SchedulerHandler) Propose(c *gin.Context) {
	var req proposeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	proposals, err := h.service.ProposeSchedule(c.Request.Context(), req.Tasks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals)
}
