package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoffmv/shipmate-ai/internal/models"
	"github.com/hoffmv/shipmate-ai/pkg/response"
)

type conflictLister interface {
	Conflicts(ctx context.Context) ([]models.ConflictGroup, error)
}

type conflictResolver interface {
	Resolve(ctx context.Context) ([]models.ResolutionDecision, error)
}

// ConflictHandler exposes the overlap report and resolution endpoints.
type ConflictHandler struct {
	lister   conflictLister
	resolver conflictResolver
}

// NewConflictHandler constructs the handler.
func NewConflictHandler(lister conflictLister, resolver conflictResolver) *ConflictHandler {
	return &ConflictHandler{lister: lister, resolver: resolver}
}

// List godoc
// @Summary List groups of overlapping events
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	groups, err := h.lister.Conflicts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

// Resolutions godoc
// @Summary Keep/reschedule decisions for every conflict group
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts/resolutions [get]
func (h *ConflictHandler) Resolutions(c *gin.Context) {
	decisions, err := h.resolver.Resolve(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisions)
}
