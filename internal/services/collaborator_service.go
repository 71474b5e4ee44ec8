package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCollaboratorNameRequired = errors.New("collaborator name is required")
)

// CollaboratorService handles collaborator business logic
type CollaboratorService struct {
	collaboratorRepo repository.CollaboratorRepository
}

// NewCollaboratorService creates a new CollaboratorService
func NewCollaboratorService(collaboratorRepo repository.CollaboratorRepository) *CollaboratorService {
	return &CollaboratorService{collaboratorRepo: collaboratorRepo}
}

// CreateCollaboratorInput represents input for creating a collaborator
type CreateCollaboratorInput struct {
	Name           string
	JobTitle       string
	Type           models.CollaboratorType
	UserID         *uint64
	OrganizationID uint64
}

// CreateCollaborator creates a new collaborator
func (s *CollaboratorService) CreateCollaborator(input CreateCollaboratorInput) (*models.Collaborator, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCollaboratorNameRequired
	}

	if input.Type == "" {
		input.Type = models.CollaboratorTypeInternal
	}

	collaborator := &models.Collaborator{
		Name:           input.Name,
		JobTitle:       input.JobTitle,
		Type:           input.Type,
		UserID:         input.UserID,
		OrganizationID: input.OrganizationID,
	}

	if err := s.collaboratorRepo.Create(collaborator); err != nil {
		return nil, fmt.Errorf("failed to create collaborator: %w", err)
	}

	return collaborator, nil
}

// GetCollaborator returns a collaborator by ID
func (s *CollaboratorService) GetCollaborator(id, organizationID uint64) (*models.Collaborator, error) {
	collaborator, err := s.collaboratorRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}
	return collaborator, nil
}

// ListCollaborators returns an organization's collaborators
func (s *CollaboratorService) ListCollaborators(organizationID uint64, page, pageSize int) ([]models.Collaborator, int64, error) {
	collaborators, total, err := s.collaboratorRepo.List(organizationID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, total, nil
}

// UpdateCollaboratorInput represents input for updating a collaborator
type UpdateCollaboratorInput struct {
	Name     *string
	JobTitle *string
	Type     *models.CollaboratorType
	UserID   *uint64
}

// UpdateCollaborator updates a collaborator
func (s *CollaboratorService) UpdateCollaborator(id, organizationID uint64, input UpdateCollaboratorInput) (*models.Collaborator, error) {
	collaborator, err := s.collaboratorRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrCollaboratorNameRequired
		}
		collaborator.Name = *input.Name
	}
	if input.JobTitle != nil {
		collaborator.JobTitle = *input.JobTitle
	}
	if input.Type != nil {
		collaborator.Type = *input.Type
	}
	if input.UserID != nil {
		collaborator.UserID = input.UserID
	}

	if err := s.collaboratorRepo.Update(collaborator); err != nil {
		return nil, fmt.Errorf("failed to save collaborator: %w", err)
	}

	return collaborator, nil
}

// DeleteCollaborator deletes a collaborator, but only while no assignments
// are bound to it
func (s *CollaboratorService) DeleteCollaborator(id, organizationID uint64) error {
	collaborator, err := s.collaboratorRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find collaborator: %w", err)
	}

	count, err := s.collaboratorRepo.CountAssignments(collaborator.ID)
	if err != nil {
		return fmt.Errorf("failed to count assignments: %w", err)
	}
	if count > 0 {
		return apperrors.ErrDeleteCollaboratorWithAssignments
	}

	if err := s.collaboratorRepo.Delete(collaborator.ID); err != nil {
		return fmt.Errorf("failed to delete collaborator: %w", err)
	}

	return nil
}
