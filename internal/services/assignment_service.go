package services

import (
	"errors"
	"fmt"

	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"gorm.io/gorm"
)

// AssignmentService handles assignment CRUD business logic
type AssignmentService struct {
	assignmentRepo   repository.AssignmentRepository
	trackerRepo      repository.TrackerRepository
	taskRepo         repository.TaskRepository
	collaboratorRepo repository.CollaboratorRepository
	statusService    *AssignmentStatusService
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	trackerRepo repository.TrackerRepository,
	taskRepo repository.TaskRepository,
	collaboratorRepo repository.CollaboratorRepository,
	statusService *AssignmentStatusService,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo:   assignmentRepo,
		trackerRepo:      trackerRepo,
		taskRepo:         taskRepo,
		collaboratorRepo: collaboratorRepo,
		statusService:    statusService,
	}
}

// CreateAssignmentInput represents input for creating an assignment
type CreateAssignmentInput struct {
	TaskID         uint64
	CollaboratorID uint64
	OrganizationID uint64
	TimeLimit      *int
}

// CreateAssignment binds a collaborator to a task. A (task, collaborator)
// pair is unique, and no assignment can be created on a finished task whose
// successors have already started.
func (s *AssignmentService) CreateAssignment(input CreateAssignmentInput) (*models.Assignment, error) {
	if _, err := s.taskRepo.FindByID(input.TaskID, input.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.collaboratorRepo.FindByID(input.CollaboratorID, input.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	if _, err := s.assignmentRepo.FindByTaskAndCollaborator(
		input.TaskID, input.CollaboratorID, input.OrganizationID,
	); err == nil {
		return nil, apperrors.ErrDuplicateAssignment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check duplicate assignment: %w", err)
	}

	// A new assignment is an open assignment: the same dependent-task guard
	// that protects reopening applies here.
	if err := s.statusService.ValidateOpenAssignment(input.TaskID, input.OrganizationID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		TaskID:         input.TaskID,
		CollaboratorID: input.CollaboratorID,
		OrganizationID: input.OrganizationID,
		Status:         models.AssignmentStatusOpen,
		TimeLimit:      input.TimeLimit,
	}

	if err := s.assignmentRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// GetAssignment returns an assignment with its relations
func (s *AssignmentService) GetAssignment(id, organizationID uint64) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(id, organizationID, "Task", "Collaborator", "Trackers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return assignment, nil
}

// GetPersonalAssignment returns an assignment only to its owning collaborator
func (s *AssignmentService) GetPersonalAssignment(id, organizationID, userID uint64) (*models.Assignment, error) {
	assignment, err := s.GetAssignment(id, organizationID)
	if err != nil {
		return nil, err
	}

	collaborator, err := s.collaboratorRepo.FindByUser(userID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonalAccessAnotherUser
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	if assignment.CollaboratorID != collaborator.ID {
		return nil, apperrors.ErrPersonalAccessAnotherUser
	}

	return assignment, nil
}

// ListByTask returns every assignment under a task
func (s *AssignmentService) ListByTask(taskID, organizationID uint64) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.FindAllByTask(taskID, organizationID, "Collaborator")
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// ListByCollaborator returns every assignment of a collaborator
func (s *AssignmentService) ListByCollaborator(collaboratorID, organizationID uint64) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.FindAllByCollaborator(collaboratorID, organizationID, "Task")
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// UpdateAssignmentInput represents input for updating an assignment
type UpdateAssignmentInput struct {
	TimeLimit      *int
	ClearTimeLimit bool
}

// UpdateAssignment updates an assignment's time limit
func (s *AssignmentService) UpdateAssignment(id, organizationID uint64, input UpdateAssignmentInput) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	if input.ClearTimeLimit {
		assignment.TimeLimit = nil
	} else if input.TimeLimit != nil {
		assignment.TimeLimit = input.TimeLimit
	}

	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	return assignment, nil
}

// DeleteAssignment deletes an assignment, but only while it has no trackers
func (s *AssignmentService) DeleteAssignment(id, organizationID uint64) error {
	assignment, err := s.assignmentRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find assignment: %w", err)
	}

	count, err := s.trackerRepo.CountByAssignment(assignment.ID)
	if err != nil {
		return fmt.Errorf("failed to count trackers: %w", err)
	}
	if count > 0 {
		return apperrors.ErrDeleteAssignmentWithTrackers
	}

	if err := s.assignmentRepo.Delete(assignment.ID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	return nil
}
