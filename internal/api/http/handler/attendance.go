package handler

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apictx "github.com/pontoamd/ponto-server/internal/api/http/context"
	"github.com/pontoamd/ponto-server/internal/geo"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
)

// AttendanceService defines the lifecycle operations for attendance
// events.
type AttendanceService interface {
	NextAction(ctx context.Context, userID uuid.UUID) (model.Kind, error)
	Commit(ctx context.Context, userID uuid.UUID, kind model.Kind, image []byte, fix *geo.Fix) (model.AttendanceEvent, error)
	History(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error)
	Evidence(ctx context.Context, eventID uuid.UUID) (model.AttendanceEvent, []byte, error)
}

// Locator produces a coordinate fix for commits that arrive without
// one, typically a probe pinned to the workplace site.
type Locator interface {
	Locate(ctx context.Context) (geo.Fix, error)
}

// Attendance handles HTTP endpoints for clocking in and out.
type Attendance struct {
	attendanceService AttendanceService
	locator           Locator
	contextManager    *apictx.Manager
	logger            *logger.Logger
}

// NewAttendance creates a new Attendance handler.
func NewAttendance(attendanceService AttendanceService, locator Locator, contextManager *apictx.Manager, logger *logger.Logger) *Attendance {
	return &Attendance{
		attendanceService: attendanceService,
		locator:           locator,
		contextManager:    contextManager,
		logger:            logger,
	}
}

type eventResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Timestamp int64   `json:"timestamp"`
	Kind      string  `json:"kind"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func toEventResponse(event model.AttendanceEvent) eventResponse {
	return eventResponse{
		ID:        event.ID.String(),
		UserID:    event.UserID.String(),
		Timestamp: event.Timestamp,
		Kind:      string(event.Kind),
		Latitude:  event.Latitude,
		Longitude: event.Longitude,
	}
}

func toEventResponses(events []model.AttendanceEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, toEventResponse(event))
	}
	return out
}

// NextAction returns the next permitted event kind for the caller.
func (h *Attendance) NextAction(c *gin.Context) {
	userID, ok := h.contextManager.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	kind, err := h.attendanceService.NextAction(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nextKind": string(kind)})
}

type commitRequest struct {
	Kind      string   `json:"kind" binding:"required"`
	Photo     string   `json:"photo"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Commit records a new attendance event. The photo travels as base64
// JPEG; coordinates are optional at the wire level so the service can
// report what exactly is missing.
func (h *Attendance) Commit(c *gin.Context) {
	userID, ok := h.contextManager.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var image []byte
	if req.Photo != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo is not valid base64"})
			return
		}
		image = decoded
	}

	var fix *geo.Fix
	if req.Latitude != nil && req.Longitude != nil {
		fix = &geo.Fix{Latitude: *req.Latitude, Longitude: *req.Longitude}
	} else if located, err := h.locator.Locate(c.Request.Context()); err == nil {
		fix = &located
	}

	event, err := h.attendanceService.Commit(c.Request.Context(), userID, model.Kind(req.Kind), image, fix)
	if err != nil {
		h.logger.Error("commit failed", "user_id", userID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(event))
}

// History returns the caller's events, newest first.
func (h *Attendance) History(c *gin.Context) {
	userID, ok := h.contextManager.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	events, err := h.attendanceService.History(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": toEventResponses(events)})
}

// Evidence streams the JPEG evidence photo of one of the caller's own
// events. Admins may fetch any event's photo.
func (h *Attendance) Evidence(c *gin.Context) {
	userID, ok := h.contextManager.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, image, err := h.attendanceService.Evidence(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err)
		return
	}

	role, _ := h.contextManager.Role(c)
	if event.UserID != userID && role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", image)
}
