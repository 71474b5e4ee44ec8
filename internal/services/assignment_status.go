package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/constants"
	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"gorm.io/gorm"
)

// AssignmentStatusService validates and performs open/closed transitions on
// assignments, including the stale-tracker rule and the dependent-task guard.
type AssignmentStatusService struct {
	assignmentRepo   repository.AssignmentRepository
	trackerRepo      repository.TrackerRepository
	taskRepo         repository.TaskRepository
	collaboratorRepo repository.CollaboratorRepository
	taskNotifier     TaskDatesNotifier
}

// NewAssignmentStatusService creates a new AssignmentStatusService
func NewAssignmentStatusService(
	assignmentRepo repository.AssignmentRepository,
	trackerRepo repository.TrackerRepository,
	taskRepo repository.TaskRepository,
	collaboratorRepo repository.CollaboratorRepository,
	taskNotifier TaskDatesNotifier,
) *AssignmentStatusService {
	return &AssignmentStatusService{
		assignmentRepo:   assignmentRepo,
		trackerRepo:      trackerRepo,
		taskRepo:         taskRepo,
		collaboratorRepo: collaboratorRepo,
		taskNotifier:     taskNotifier,
	}
}

// ChangeStatusInput represents a requested status transition
type ChangeStatusInput struct {
	AssignmentID   uint64
	OrganizationID uint64
	Status         models.AssignmentStatus
}

// ChangeStatus transitions an assignment between open and closed. A
// transition to the current state is a no-op.
func (s *AssignmentStatusService) ChangeStatus(input ChangeStatusInput) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(input.AssignmentID, input.OrganizationID, "Trackers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	if assignment.Status == input.Status {
		return assignment, nil
	}

	if input.Status == models.AssignmentStatusClosed {
		err = s.close(assignment)
	} else {
		err = s.open(assignment)
	}
	if err != nil {
		return nil, err
	}

	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	return assignment, nil
}

// close performs the open -> closed transition. An assignment without
// trackers cannot be closed; an open tracker running for less than the stale
// threshold is closed at now, one running longer aborts the transition.
func (s *AssignmentStatusService) close(assignment *models.Assignment) error {
	if len(assignment.Trackers) == 0 {
		return apperrors.ErrCloseAssignmentWithoutTrackers
	}

	now := time.Now()
	for i := range assignment.Trackers {
		tracker := &assignment.Trackers[i]
		if tracker.End != nil || tracker.Start == nil {
			continue
		}

		if now.Sub(*tracker.Start).Hours() >= constants.MaxOpenTrackerHours {
			return apperrors.ErrCloseAssignmentWithOpenTracker
		}

		end := now
		tracker.End = &end
		if err := s.trackerRepo.Update(tracker); err != nil {
			return fmt.Errorf("failed to close tracker: %w", err)
		}
		assignment.EndDate = &end
	}

	assignment.Status = models.AssignmentStatusClosed
	return nil
}

// open performs the closed -> open transition, guarded by the dependent-task
// check. Reopening clears the derived end date.
func (s *AssignmentStatusService) open(assignment *models.Assignment) error {
	if err := s.ValidateOpenAssignment(assignment.TaskID, assignment.OrganizationID); err != nil {
		return err
	}

	assignment.Status = models.AssignmentStatusOpen
	assignment.EndDate = nil
	return nil
}

// ValidateOpenAssignment rejects an open transition when the assignment's
// task is finished and a successor task has already started: reopening would
// contradict a prerequisite the successor relies on.
func (s *AssignmentStatusService) ValidateOpenAssignment(taskID, organizationID uint64) error {
	task, err := s.taskRepo.FindByID(taskID, organizationID, "NextTasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.EndDate == nil {
		return nil
	}

	for i := range task.NextTasks {
		if task.NextTasks[i].StartDate != nil {
			return apperrors.ErrOpenAssignmentInClosedTask
		}
	}

	return nil
}

// PersonalChangeStatusInput represents a collaborator-initiated transition
type PersonalChangeStatusInput struct {
	AssignmentID   uint64
	OrganizationID uint64
	UserID         uint64
	Status         models.AssignmentStatus
}

// PersonalChangeStatus lets a collaborator change the status of their own
// assignment. The resulting end-date change cascades to the task.
func (s *AssignmentStatusService) PersonalChangeStatus(input PersonalChangeStatusInput) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(input.AssignmentID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	collaborator, err := s.collaboratorRepo.FindByUser(input.UserID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChangeStatusFromAnotherUser
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	if assignment.CollaboratorID != collaborator.ID {
		return nil, apperrors.ErrChangeStatusFromAnotherUser
	}

	if assignment.Status == input.Status {
		return assignment, nil
	}

	updated, err := s.ChangeStatus(ChangeStatusInput{
		AssignmentID:   input.AssignmentID,
		OrganizationID: input.OrganizationID,
		Status:         input.Status,
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskNotifier.VerifyDatesChanges(TaskDatesChangesInput{
		TaskID:         updated.TaskID,
		OrganizationID: updated.OrganizationID,
		End:            &DateChange{New: updated.EndDate},
	}); err != nil {
		return nil, err
	}

	return updated, nil
}
