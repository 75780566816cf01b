package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apictx "github.com/pontoamd/ponto-server/internal/api/http/context"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
	"github.com/pontoamd/ponto-server/internal/report"
	"github.com/pontoamd/ponto-server/internal/service"
)

// RosterService defines roster administration operations.
type RosterService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ToggleRole(ctx context.Context, actorID, targetID uuid.UUID) (model.User, error)
}

// CorrectionService defines the admin correction flow.
type CorrectionService interface {
	History(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error)
	Amend(ctx context.Context, eventID uuid.UUID, date, clock string, kind model.Kind) (model.AttendanceEvent, error)
}

// ReportService builds rows and xlsx exports for date intervals.
type ReportService interface {
	Rows(ctx context.Context, start, end string) ([]report.Row, error)
	Export(ctx context.Context, start, end string) (service.Artifact, error)
}

// Admin handles HTTP endpoints restricted to the admin role.
type Admin struct {
	rosterService     RosterService
	correctionService CorrectionService
	reportService     ReportService
	contextManager    *apictx.Manager
	logger            *logger.Logger
}

// NewAdmin creates a new Admin handler.
func NewAdmin(
	rosterService RosterService,
	correctionService CorrectionService,
	reportService ReportService,
	contextManager *apictx.Manager,
	logger *logger.Logger,
) *Admin {
	return &Admin{
		rosterService:     rosterService,
		correctionService: correctionService,
		reportService:     reportService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

// ListUsers returns the roster ordered by display name.
func (h *Admin) ListUsers(c *gin.Context) {
	users, err := h.rosterService.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// ToggleRole flips the target user's role. The acting admin comes from
// the access token, never from the request body.
func (h *Admin) ToggleRole(c *gin.Context) {
	actorID, ok := h.contextManager.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.rosterService.ToggleRole(c.Request.Context(), actorID, targetID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UserHistory returns any user's events, newest first.
func (h *Admin) UserHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	events, err := h.correctionService.History(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": toEventResponses(events)})
}

type amendRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

// AmendEvent rewrites the timestamp and kind of a committed event.
func (h *Admin) AmendEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req amendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.correctionService.Amend(c.Request.Context(), eventID, req.Date, req.Time, model.Kind(req.Kind))
	if err != nil {
		h.logger.Error("amend failed", "event_id", eventID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

// Report returns the joined report rows for [start, end] as JSON.
func (h *Admin) Report(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end dates are required"})
		return
	}

	rows, err := h.reportService.Rows(c.Request.Context(), start, end)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Export streams the xlsx report for [start, end] as a download.
func (h *Admin) Export(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end dates are required"})
		return
	}

	artifact, err := h.reportService.Export(c.Request.Context(), start, end)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", artifact.Data)
}
