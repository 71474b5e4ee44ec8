package services

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"gorm.io/gorm"
)

// DateChange carries a new value for a derived date and, when relevant, the
// value it replaces.
type DateChange struct {
	New *time.Time
	Old *time.Time
}

// TaskDatesChangesInput is the notification the assignment engines send to
// the task layer after a date-relevant mutation.
type TaskDatesChangesInput struct {
	TaskID         uint64
	OrganizationID uint64
	Start          *DateChange
	End            *DateChange
	Deleted        bool
}

// TaskDatesNotifier receives date-change notifications from the assignment
// engines. TaskService implements it; the indirection keeps the assignment
// and task services from depending on each other directly.
type TaskDatesNotifier interface {
	VerifyDatesChanges(input TaskDatesChangesInput) error
}

// RecalculateStartDate returns the earliest non-nil start among the trackers,
// or nil if none have started. Pure function.
func RecalculateStartDate(trackers []models.Tracker) *time.Time {
	var earliest *time.Time
	for i := range trackers {
		start := trackers[i].Start
		if start == nil {
			continue
		}
		if earliest == nil || start.Before(*earliest) {
			earliest = start
		}
	}
	return earliest
}

// RecalculateEndDate returns the latest non-nil end among the trackers, or
// nil if none have ended. Pure function.
func RecalculateEndDate(trackers []models.Tracker) *time.Time {
	var latest *time.Time
	for i := range trackers {
		end := trackers[i].End
		if end == nil {
			continue
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}
	return latest
}

// AssignmentDatesService keeps an assignment's derived start and end dates
// consistent with its trackers, and notifies the task layer when the start
// boundary moves.
type AssignmentDatesService struct {
	assignmentRepo repository.AssignmentRepository
	trackerRepo    repository.TrackerRepository
	taskNotifier   TaskDatesNotifier
}

// NewAssignmentDatesService creates a new AssignmentDatesService
func NewAssignmentDatesService(
	assignmentRepo repository.AssignmentRepository,
	trackerRepo repository.TrackerRepository,
	taskNotifier TaskDatesNotifier,
) *AssignmentDatesService {
	return &AssignmentDatesService{
		assignmentRepo: assignmentRepo,
		trackerRepo:    trackerRepo,
		taskNotifier:   taskNotifier,
	}
}

// VerifyDatesChangesInput describes a tracker mutation the engine must absorb.
// NewStartDate/NewEndDate are the mutated tracker's dates; OldStartDate is the
// start the tracker had before the mutation, used to detect that the tracker
// defining the assignment's boundary was changed or removed.
type VerifyDatesChangesInput struct {
	AssignmentID   uint64
	OrganizationID uint64
	NewStartDate   *time.Time
	NewEndDate     *time.Time
	OldStartDate   *time.Time
}

// VerifyDatesChanges is invoked after a tracker is created, updated or
// deleted. The assignment start date is kept at the minimum tracker start:
// an earlier incoming start is adopted directly, and when the tracker that
// defined the current boundary loses its start, the date is recomputed from
// every tracker. Only start-date changes cascade to the task.
func (s *AssignmentDatesService) VerifyDatesChanges(input VerifyDatesChangesInput) error {
	assignment, err := s.assignmentRepo.FindByID(input.AssignmentID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find assignment: %w", err)
	}

	oldStart := assignment.StartDate
	dateChanged := false

	switch {
	case assignment.StartDate == nil && input.NewStartDate != nil:
		assignment.StartDate = input.NewStartDate
		dateChanged = true

	case assignment.StartDate != nil && input.NewStartDate != nil &&
		input.NewStartDate.Before(*assignment.StartDate):
		assignment.StartDate = input.NewStartDate
		dateChanged = true

	case assignment.StartDate != nil && input.NewStartDate == nil &&
		input.OldStartDate != nil && assignment.StartDate.Equal(*input.OldStartDate):
		// The tracker that set the boundary lost its start and no candidate
		// came in its place: recompute from every remaining tracker.
		trackers, err := s.trackerRepo.FindByAssignment(assignment.ID, assignment.OrganizationID)
		if err != nil {
			return fmt.Errorf("failed to load trackers: %w", err)
		}
		assignment.StartDate = RecalculateStartDate(trackers)
		dateChanged = true
	}

	if input.NewEndDate == nil {
		// An open tracker means the assignment is not finished.
		assignment.EndDate = nil
	} else if assignment.EndDate == nil || input.NewEndDate.After(*assignment.EndDate) {
		assignment.EndDate = input.NewEndDate
	}

	if err := s.assignmentRepo.Update(assignment); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	if dateChanged {
		return s.taskNotifier.VerifyDatesChanges(TaskDatesChangesInput{
			TaskID:         assignment.TaskID,
			OrganizationID: assignment.OrganizationID,
			Start:          &DateChange{New: assignment.StartDate, Old: oldStart},
		})
	}

	return nil
}

// VerifyRecalculateDatesInput identifies the previous boundary dates of a
// tracker whose edit or removal may invalidate the assignment's bounds.
type VerifyRecalculateDatesInput struct {
	AssignmentID     uint64
	OrganizationID   uint64
	ChangedStartDate *time.Time
	ChangedEndDate   *time.Time
}

// VerifyRecalculateDates recomputes an assignment bound from scratch when the
// tracker that previously defined it was edited or removed.
func (s *AssignmentDatesService) VerifyRecalculateDates(input VerifyRecalculateDatesInput) error {
	assignment, err := s.assignmentRepo.FindByID(input.AssignmentID, input.OrganizationID, "Trackers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find assignment: %w", err)
	}

	oldStart := assignment.StartDate
	startChanged := false

	if input.ChangedStartDate != nil && assignment.StartDate != nil &&
		assignment.StartDate.Equal(*input.ChangedStartDate) {
		assignment.StartDate = RecalculateStartDate(assignment.Trackers)
		startChanged = true
	}

	if input.ChangedEndDate != nil && assignment.EndDate != nil &&
		assignment.EndDate.Equal(*input.ChangedEndDate) {
		assignment.EndDate = RecalculateEndDate(assignment.Trackers)
	}

	if err := s.assignmentRepo.Update(assignment); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	if startChanged {
		return s.taskNotifier.VerifyDatesChanges(TaskDatesChangesInput{
			TaskID:         assignment.TaskID,
			OrganizationID: assignment.OrganizationID,
			Start:          &DateChange{New: assignment.StartDate, Old: oldStart},
		})
	}

	return nil
}
