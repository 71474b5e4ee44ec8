package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/escritorio-dados/nanowip-sub000/internal/dto"
	apierrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/middleware"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/services"
	"github.com/escritorio-dados/nanowip-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

// CollaboratorHandler coordinates collaborator HTTP handlers.
type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
}

// NewCollaboratorHandler creates a new CollaboratorHandler
func NewCollaboratorHandler(collaboratorService *services.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{collaboratorService: collaboratorService}
}

// ListCollaborators returns the organization's collaborators
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	collaborators, total, err := h.collaboratorService.ListCollaborators(orgID, params.Page, params.Limit)
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCollaboratorListResponse(collaborators, params.Page, params.Limit, total))
}

// CreateCollaborator creates a collaborator in the organization
func (h *CollaboratorHandler) CreateCollaborator(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	type CreateCollaboratorRequest struct {
		Name     string  `json:"name" binding:"required"`
		JobTitle string  `json:"job_title"`
		Type     string  `json:"type" binding:"omitempty,oneof=Interno Externo"`
		UserID   *uint64 `json:"user_id"`
	}

	var req CreateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	collaborator, err := h.collaboratorService.CreateCollaborator(services.CreateCollaboratorInput{
		Name:           req.Name,
		JobTitle:       req.JobTitle,
		Type:           models.CollaboratorType(req.Type),
		UserID:         req.UserID,
		OrganizationID: orgID,
	})
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCollaboratorDTO(*collaborator))
}

// GetCollaborator returns a single collaborator
func (h *CollaboratorHandler) GetCollaborator(c *gin.Context) {
	orgID, collaboratorID, ok := collaboratorScope(c)
	if !ok {
		return
	}

	collaborator, err := h.collaboratorService.GetCollaborator(collaboratorID, orgID)
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCollaboratorDTO(*collaborator))
}

// UpdateCollaborator updates a collaborator's fields
func (h *CollaboratorHandler) UpdateCollaborator(c *gin.Context) {
	orgID, collaboratorID, ok := collaboratorScope(c)
	if !ok {
		return
	}

	type UpdateCollaboratorRequest struct {
		Name     *string `json:"name"`
		JobTitle *string `json:"job_title"`
		Type     *string `json:"type" binding:"omitempty,oneof=Interno Externo"`
		UserID   *uint64 `json:"user_id"`
	}

	var req UpdateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateCollaboratorInput{
		Name:     req.Name,
		JobTitle: req.JobTitle,
		UserID:   req.UserID,
	}
	if req.Type != nil {
		t := models.CollaboratorType(*req.Type)
		input.Type = &t
	}

	collaborator, err := h.collaboratorService.UpdateCollaborator(collaboratorID, orgID, input)
	if err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCollaboratorDTO(*collaborator))
}

// DeleteCollaborator deletes a collaborator without assignments
func (h *CollaboratorHandler) DeleteCollaborator(c *gin.Context) {
	orgID, collaboratorID, ok := collaboratorScope(c)
	if !ok {
		return
	}

	if err := h.collaboratorService.DeleteCollaborator(collaboratorID, orgID); err != nil {
		respondCollaboratorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator deleted"})
}

// collaboratorScope extracts the organization and collaborator IDs for
// collaborator-scoped routes
func collaboratorScope(c *gin.Context) (orgID, collaboratorID uint64, ok bool) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return 0, 0, false
	}

	collaboratorID, err := strconv.ParseUint(c.Param("collaborator_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid collaborator ID")
		return 0, 0, false
	}

	return orgID, collaboratorID, true
}

func respondCollaboratorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCollaboratorNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.Respond(c, err)
	}
}
