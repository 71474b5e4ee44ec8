package handlers

import (
	"net/http"
	"strconv"

	"github.com/escritorio-dados/nanowip-sub000/internal/dto"
	apierrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/middleware"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler coordinates assignment HTTP handlers, including the
// status-change endpoints.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	statusService     *services.AssignmentStatusService
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(assignmentService *services.AssignmentService, statusService *services.AssignmentStatusService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		statusService:     statusService,
	}
}

// CreateAssignment binds a collaborator to a task
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	type CreateAssignmentRequest struct {
		TaskID         uint64 `json:"task_id" binding:"required"`
		CollaboratorID uint64 `json:"collaborator_id" binding:"required"`
		TimeLimit      *int   `json:"time_limit"`
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(services.CreateAssignmentInput{
		TaskID:         req.TaskID,
		CollaboratorID: req.CollaboratorID,
		OrganizationID: orgID,
		TimeLimit:      req.TimeLimit,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentDTO(*assignment))
}

// GetAssignment returns an assignment with its relations
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignment(assignmentID, orgID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// GetPersonalAssignment returns an assignment only to its own collaborator
func (h *AssignmentHandler) GetPersonalAssignment(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	assignment, err := h.assignmentService.GetPersonalAssignment(assignmentID, orgID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// ListByTask returns every assignment of a task
func (h *AssignmentHandler) ListByTask(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	assignments, err := h.assignmentService.ListByTask(taskID, orgID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// ListByCollaborator returns every assignment of a collaborator
func (h *AssignmentHandler) ListByCollaborator(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	collaboratorID, err := strconv.ParseUint(c.Param("collaborator_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid collaborator ID")
		return
	}

	assignments, err := h.assignmentService.ListByCollaborator(collaboratorID, orgID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// UpdateAssignment updates an assignment's time limit
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	type UpdateAssignmentRequest struct {
		TimeLimit      *int `json:"time_limit"`
		ClearTimeLimit bool `json:"clear_time_limit"`
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(assignmentID, orgID, services.UpdateAssignmentInput{
		TimeLimit:      req.TimeLimit,
		ClearTimeLimit: req.ClearTimeLimit,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// DeleteAssignment deletes an assignment without trackers
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteAssignment(assignmentID, orgID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}

// ChangeStatus transitions an assignment between open and closed
func (h *AssignmentHandler) ChangeStatus(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Status must be Aberto or Fechado")
		return
	}

	assignment, err := h.statusService.ChangeStatus(services.ChangeStatusInput{
		AssignmentID:   assignmentID,
		OrganizationID: orgID,
		Status:         models.AssignmentStatus(req.Status),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// PersonalChangeStatus transitions the caller's own assignment
func (h *AssignmentHandler) PersonalChangeStatus(c *gin.Context) {
	orgID, assignmentID, ok := assignmentScope(c)
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Status must be Aberto or Fechado")
		return
	}

	assignment, err := h.statusService.PersonalChangeStatus(services.PersonalChangeStatusInput{
		AssignmentID:   assignmentID,
		OrganizationID: orgID,
		UserID:         userID,
		Status:         models.AssignmentStatus(req.Status),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=Aberto Fechado"`
}

// assignmentScope extracts the organization and assignment IDs for
// assignment-scoped routes
func assignmentScope(c *gin.Context) (orgID, assignmentID uint64, ok bool) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return 0, 0, false
	}

	assignmentID, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return 0, 0, false
	}

	return orgID, assignmentID, true
}
