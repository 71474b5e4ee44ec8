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

var (
	ErrTrackerAlreadyStopped = errors.New("tracker already has an end date")
	ErrTrackerEndBeforeStart = errors.New("tracker end cannot be before its start")
	ErrTrackerOnClosedTarget = errors.New("cannot track time on a closed assignment")
)

// TrackerService handles tracker mutations. Every mutation feeds the
// assignment date-fix engine so the derived dates stay consistent.
type TrackerService struct {
	trackerRepo    repository.TrackerRepository
	assignmentRepo repository.AssignmentRepository
	datesService   *AssignmentDatesService
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(
	trackerRepo repository.TrackerRepository,
	assignmentRepo repository.AssignmentRepository,
	datesService *AssignmentDatesService,
) *TrackerService {
	return &TrackerService{
		trackerRepo:    trackerRepo,
		assignmentRepo: assignmentRepo,
		datesService:   datesService,
	}
}

// StartTrackerInput represents input for starting a work interval
type StartTrackerInput struct {
	AssignmentID   uint64
	OrganizationID uint64
	Reason         string
	Start          *time.Time
}

// StartTracker opens a new work interval on an assignment
func (s *TrackerService) StartTracker(input StartTrackerInput) (*models.Tracker, error) {
	assignment, err := s.assignmentRepo.FindByID(input.AssignmentID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	if assignment.Status == models.AssignmentStatusClosed {
		return nil, ErrTrackerOnClosedTarget
	}

	start := input.Start
	if start == nil {
		now := time.Now()
		start = &now
	}

	tracker := &models.Tracker{
		AssignmentID:   assignment.ID,
		OrganizationID: assignment.OrganizationID,
		Reason:         input.Reason,
		Start:          start,
	}

	if err := s.trackerRepo.Create(tracker); err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}

	if err := s.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: assignment.OrganizationID,
		NewStartDate:   tracker.Start,
		NewEndDate:     tracker.End,
	}); err != nil {
		return nil, err
	}

	return tracker, nil
}

// StopTrackerInput represents input for closing a work interval
type StopTrackerInput struct {
	TrackerID      uint64
	OrganizationID uint64
	End            *time.Time
}

// StopTracker closes an open work interval
func (s *TrackerService) StopTracker(input StopTrackerInput) (*models.Tracker, error) {
	tracker, err := s.trackerRepo.FindByID(input.TrackerID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tracker: %w", err)
	}

	if tracker.End != nil {
		return nil, ErrTrackerAlreadyStopped
	}

	end := input.End
	if end == nil {
		now := time.Now()
		end = &now
	}
	if tracker.Start != nil && end.Before(*tracker.Start) {
		return nil, ErrTrackerEndBeforeStart
	}

	tracker.End = end
	if err := s.trackerRepo.Update(tracker); err != nil {
		return nil, fmt.Errorf("failed to save tracker: %w", err)
	}

	if err := s.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   tracker.AssignmentID,
		OrganizationID: tracker.OrganizationID,
		NewStartDate:   tracker.Start,
		NewEndDate:     tracker.End,
	}); err != nil {
		return nil, err
	}

	return tracker, nil
}

// UpdateTrackerInput represents input for editing a tracker's dates
type UpdateTrackerInput struct {
	Reason *string
	Start  *time.Time
	End    *time.Time
	// ClearEnd reopens the interval
	ClearEnd bool
}

// UpdateTracker edits a tracker. The tracker's previous dates may have
// defined the assignment's boundary, so the edit first routes through the
// from-scratch recompute and then offers the new dates to the engine.
func (s *TrackerService) UpdateTracker(id, organizationID uint64, input UpdateTrackerInput) (*models.Tracker, error) {
	tracker, err := s.trackerRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tracker: %w", err)
	}

	oldStart := tracker.Start
	oldEnd := tracker.End

	if input.Reason != nil {
		tracker.Reason = *input.Reason
	}
	if input.Start != nil {
		tracker.Start = input.Start
	}
	if input.ClearEnd {
		tracker.End = nil
	} else if input.End != nil {
		tracker.End = input.End
	}

	if tracker.Start != nil && tracker.End != nil && tracker.End.Before(*tracker.Start) {
		return nil, ErrTrackerEndBeforeStart
	}

	if err := s.trackerRepo.Update(tracker); err != nil {
		return nil, fmt.Errorf("failed to save tracker: %w", err)
	}

	if err := s.datesService.VerifyRecalculateDates(VerifyRecalculateDatesInput{
		AssignmentID:     tracker.AssignmentID,
		OrganizationID:   tracker.OrganizationID,
		ChangedStartDate: oldStart,
		ChangedEndDate:   oldEnd,
	}); err != nil {
		return nil, err
	}

	if err := s.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   tracker.AssignmentID,
		OrganizationID: tracker.OrganizationID,
		NewStartDate:   tracker.Start,
		NewEndDate:     tracker.End,
		OldStartDate:   oldStart,
	}); err != nil {
		return nil, err
	}

	return tracker, nil
}

// DeleteTracker removes a tracker and recomputes any assignment boundary the
// tracker used to define.
func (s *TrackerService) DeleteTracker(id, organizationID uint64) error {
	tracker, err := s.trackerRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find tracker: %w", err)
	}

	if err := s.trackerRepo.Delete(tracker.ID); err != nil {
		return fmt.Errorf("failed to delete tracker: %w", err)
	}

	return s.datesService.VerifyRecalculateDates(VerifyRecalculateDatesInput{
		AssignmentID:     tracker.AssignmentID,
		OrganizationID:   tracker.OrganizationID,
		ChangedStartDate: tracker.Start,
		ChangedEndDate:   tracker.End,
	})
}

// ListByAssignment returns all trackers of an assignment
func (s *TrackerService) ListByAssignment(assignmentID, organizationID uint64) ([]models.Tracker, error) {
	trackers, err := s.trackerRepo.FindByAssignment(assignmentID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackers: %w", err)
	}
	return trackers, nil
}
