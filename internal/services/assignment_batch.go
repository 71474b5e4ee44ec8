package services

import (
	"fmt"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/constants"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
)

// AssignmentBatchService holds the maintenance routines that operate on many
// assignments at once: the task-close cascade and the full date recomputation.
type AssignmentBatchService struct {
	assignmentRepo repository.AssignmentRepository
	trackerRepo    repository.TrackerRepository
}

// NewAssignmentBatchService creates a new AssignmentBatchService
func NewAssignmentBatchService(
	assignmentRepo repository.AssignmentRepository,
	trackerRepo repository.TrackerRepository,
) *AssignmentBatchService {
	return &AssignmentBatchService{
		assignmentRepo: assignmentRepo,
		trackerRepo:    trackerRepo,
	}
}

// CloseAllAssignmentsForTaskInput identifies the finished task and the end
// date every assignment under it inherits.
type CloseAllAssignmentsForTaskInput struct {
	TaskID         uint64
	OrganizationID uint64
	EndDate        time.Time
}

// CloseAllAssignmentsForTask closes every assignment under a finished task.
// Assignments take the task's end date, not a per-assignment recomputation.
// Open trackers are partitioned by the stale threshold relative to that end
// date: sessions open for 12 hours or more are deleted as abandoned, shorter
// ones are closed at the task's end date. All writes happen in one
// transaction.
func (s *AssignmentBatchService) CloseAllAssignmentsForTask(input CloseAllAssignmentsForTaskInput) error {
	assignments, err := s.assignmentRepo.FindAllByTask(input.TaskID, input.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil
	}

	endDate := input.EndDate
	assignmentIDs := make([]uint64, len(assignments))
	for i := range assignments {
		assignmentIDs[i] = assignments[i].ID
		assignments[i].Status = models.AssignmentStatusClosed
		assignments[i].EndDate = &endDate
	}

	trackers, err := s.trackerRepo.FindByAssignmentIDs(assignmentIDs, input.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to load trackers: %w", err)
	}

	var stale, closing []models.Tracker
	for _, tracker := range trackers {
		if tracker.End != nil {
			continue
		}

		if tracker.Start != nil && endDate.Sub(*tracker.Start).Hours() >= constants.MaxOpenTrackerHours {
			stale = append(stale, tracker)
			continue
		}

		end := endDate
		tracker.End = &end
		closing = append(closing, tracker)
	}

	if err := s.assignmentRepo.ApplyTaskClose(stale, closing, assignments); err != nil {
		return fmt.Errorf("failed to apply task close: %w", err)
	}

	return nil
}

// RecalculateDates recomputes every assignment's start and end dates from its
// trackers, in fixed-size batches. It is a repair pass: nothing cascades to
// the task layer, and running it twice yields the same result.
func (s *AssignmentBatchService) RecalculateDates(organizationID uint64) error {
	assignments, err := s.assignmentRepo.FindAll(organizationID, "Trackers")
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}

	for offset := 0; offset < len(assignments); offset += constants.RecalculateChunkSize {
		limit := offset + constants.RecalculateChunkSize
		if limit > len(assignments) {
			limit = len(assignments)
		}
		chunk := assignments[offset:limit]

		for i := range chunk {
			chunk[i].StartDate = RecalculateStartDate(chunk[i].Trackers)
			chunk[i].EndDate = RecalculateEndDate(chunk[i].Trackers)
		}

		if err := s.assignmentRepo.UpdateAll(chunk); err != nil {
			return fmt.Errorf("failed to save assignment batch: %w", err)
		}
	}

	return nil
}
