package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/dto"
	apierrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/middleware"
	"github.com/escritorio-dados/nanowip-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

// TrackerHandler coordinates tracker HTTP handlers.
type TrackerHandler struct {
	trackerService *services.TrackerService
}

// NewTrackerHandler creates a new TrackerHandler
func NewTrackerHandler(trackerService *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// StartTracker opens a new work interval on an assignment
func (h *TrackerHandler) StartTracker(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	type StartTrackerRequest struct {
		AssignmentID uint64     `json:"assignment_id" binding:"required"`
		Reason       string     `json:"reason"`
		Start        *time.Time `json:"start"`
	}

	var req StartTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tracker, err := h.trackerService.StartTracker(services.StartTrackerInput{
		AssignmentID:   req.AssignmentID,
		OrganizationID: orgID,
		Reason:         req.Reason,
		Start:          req.Start,
	})
	if err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTrackerDTO(*tracker))
}

// StopTracker closes an open work interval
func (h *TrackerHandler) StopTracker(c *gin.Context) {
	orgID, trackerID, ok := trackerScope(c)
	if !ok {
		return
	}

	type StopTrackerRequest struct {
		End *time.Time `json:"end"`
	}

	// body is optional; a missing end defaults to now
	var req StopTrackerRequest
	_ = c.ShouldBindJSON(&req)

	tracker, err := h.trackerService.StopTracker(services.StopTrackerInput{
		TrackerID:      trackerID,
		OrganizationID: orgID,
		End:            req.End,
	})
	if err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrackerDTO(*tracker))
}

// UpdateTracker edits a tracker's interval or reason
func (h *TrackerHandler) UpdateTracker(c *gin.Context) {
	orgID, trackerID, ok := trackerScope(c)
	if !ok {
		return
	}

	type UpdateTrackerRequest struct {
		Reason   *string    `json:"reason"`
		Start    *time.Time `json:"start"`
		End      *time.Time `json:"end"`
		ClearEnd bool       `json:"clear_end"`
	}

	var req UpdateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tracker, err := h.trackerService.UpdateTracker(trackerID, orgID, services.UpdateTrackerInput{
		Reason:   req.Reason,
		Start:    req.Start,
		End:      req.End,
		ClearEnd: req.ClearEnd,
	})
	if err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrackerDTO(*tracker))
}

// DeleteTracker removes a tracker and recomputes the assignment's dates
func (h *TrackerHandler) DeleteTracker(c *gin.Context) {
	orgID, trackerID, ok := trackerScope(c)
	if !ok {
		return
	}

	if err := h.trackerService.DeleteTracker(trackerID, orgID); err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tracker deleted"})
}

// ListByAssignment returns an assignment's trackers
func (h *TrackerHandler) ListByAssignment(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	assignmentID, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return
	}

	trackers, err := h.trackerService.ListByAssignment(assignmentID, orgID)
	if err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trackers": dto.ToTrackerDTOs(trackers)})
}

// trackerScope extracts the organization and tracker IDs for tracker-scoped
// routes
func trackerScope(c *gin.Context) (orgID, trackerID uint64, ok bool) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return 0, 0, false
	}

	trackerID, err := strconv.ParseUint(c.Param("tracker_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid tracker ID")
		return 0, 0, false
	}

	return orgID, trackerID, true
}

func respondTrackerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTrackerAlreadyStopped),
		errors.Is(err, services.ErrTrackerEndBeforeStart),
		errors.Is(err, services.ErrTrackerOnClosedTarget):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.Respond(c, err)
	}
}
