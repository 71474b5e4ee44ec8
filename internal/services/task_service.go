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
	ErrTaskNameRequired = errors.New("task name is required")
)

// AssignmentCloser runs the task-close cascade over a task's assignments.
// AssignmentBatchService implements it.
type AssignmentCloser interface {
	CloseAllAssignmentsForTask(input CloseAllAssignmentsForTaskInput) error
}

// TaskService handles task business logic, including the date-change hook the
// assignment engines call into.
type TaskService struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.AssignmentRepository
	closer         AssignmentCloser
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.AssignmentRepository,
	closer AssignmentCloser,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		closer:         closer,
	}
}

// VerifyDatesChanges absorbs a date change coming up from an assignment. The
// task start date is the minimum assignment start; the task end date is only
// set once every assignment under it is closed, and is cleared as soon as one
// reopens. When the end date transitions, successor tasks have their
// available date refreshed.
func (s *TaskService) VerifyDatesChanges(input TaskDatesChangesInput) error {
	task, err := s.taskRepo.FindByID(input.TaskID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	changed := false
	endChanged := false

	if input.Start != nil || input.Deleted {
		newStart, err := s.resolveStartDate(task, input)
		if err != nil {
			return err
		}
		if !datesEqual(task.StartDate, newStart) {
			task.StartDate = newStart
			changed = true
		}
	}

	if input.End != nil || input.Deleted {
		newEnd, err := s.resolveEndDate(task, input)
		if err != nil {
			return err
		}
		if !datesEqual(task.EndDate, newEnd) {
			task.EndDate = newEnd
			changed = true
			endChanged = true
		}
	}

	if !changed {
		return nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if endChanged {
		if err := s.refreshSuccessorAvailability(task); err != nil {
			return err
		}
	}

	return nil
}

// resolveStartDate applies the adopt-minimum rule at the task level: an
// earlier incoming start is adopted directly, anything else falls back to a
// recomputation over the task's assignments.
func (s *TaskService) resolveStartDate(task *models.Task, input TaskDatesChangesInput) (*time.Time, error) {
	if input.Start != nil && input.Start.New != nil &&
		(task.StartDate == nil || input.Start.New.Before(*task.StartDate)) {
		return input.Start.New, nil
	}

	assignments, err := s.assignmentRepo.FindAllByTask(task.ID, task.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	var earliest *time.Time
	for i := range assignments {
		start := assignments[i].StartDate
		if start == nil {
			continue
		}
		if earliest == nil || start.Before(*earliest) {
			earliest = start
		}
	}
	return earliest, nil
}

// resolveEndDate returns the latest assignment end once every assignment is
// closed, nil otherwise.
func (s *TaskService) resolveEndDate(task *models.Task, input TaskDatesChangesInput) (*time.Time, error) {
	if input.End != nil && input.End.New == nil && !input.Deleted {
		// An assignment reopened: the task is not finished.
		return nil, nil
	}

	assignments, err := s.assignmentRepo.FindAllByTask(task.ID, task.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	var latest *time.Time
	for i := range assignments {
		if assignments[i].Status != models.AssignmentStatusClosed {
			return nil, nil
		}
		end := assignments[i].EndDate
		if end == nil {
			return nil, nil
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}
	return latest, nil
}

// refreshSuccessorAvailability recomputes the available date of every
// successor: a task becomes available when all of its predecessors have
// ended, at the latest such end.
func (s *TaskService) refreshSuccessorAvailability(task *models.Task) error {
	withNext, err := s.taskRepo.FindByID(task.ID, task.OrganizationID, "NextTasks")
	if err != nil {
		return fmt.Errorf("failed to load successors: %w", err)
	}
	if len(withNext.NextTasks) == 0 {
		return nil
	}

	updated := make([]models.Task, 0, len(withNext.NextTasks))
	for i := range withNext.NextTasks {
		successor, err := s.taskRepo.FindByID(withNext.NextTasks[i].ID, task.OrganizationID, "PreviousTasks")
		if err != nil {
			return fmt.Errorf("failed to load successor: %w", err)
		}

		available := latestPredecessorEnd(successor.PreviousTasks)
		if datesEqual(successor.AvailableDate, available) {
			continue
		}
		successor.AvailableDate = available
		updated = append(updated, *successor)
	}

	if err := s.taskRepo.UpdateAll(updated); err != nil {
		return fmt.Errorf("failed to save successors: %w", err)
	}
	return nil
}

// latestPredecessorEnd returns the latest end among the predecessors, or nil
// while any of them is unfinished.
func latestPredecessorEnd(predecessors []models.Task) *time.Time {
	var latest *time.Time
	for i := range predecessors {
		end := predecessors[i].EndDate
		if end == nil {
			return nil
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}
	return latest
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// CloseTaskInput represents input for finishing a task
type CloseTaskInput struct {
	TaskID         uint64
	OrganizationID uint64
	EndDate        *time.Time
}

// CloseTask marks a task as fully finished and closes every assignment under
// it via the batch cascade.
func (s *TaskService) CloseTask(input CloseTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(input.TaskID, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	endDate := input.EndDate
	if endDate == nil {
		now := time.Now()
		endDate = &now
	}

	task.EndDate = endDate
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	if err := s.closer.CloseAllAssignmentsForTask(CloseAllAssignmentsForTaskInput{
		TaskID:         task.ID,
		OrganizationID: task.OrganizationID,
		EndDate:        *endDate,
	}); err != nil {
		return nil, err
	}

	if err := s.refreshSuccessorAvailability(task); err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name            string
	Description     string
	OrganizationID  uint64
	DeadlineDate    *time.Time
	PreviousTaskIDs []uint64
}

// CreateTask creates a task and links its predecessors. A task with no
// predecessors is available immediately.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}

	previous := make([]models.Task, 0, len(input.PreviousTaskIDs))
	for _, id := range input.PreviousTaskIDs {
		p, err := s.taskRepo.FindByID(id, input.OrganizationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("failed to find predecessor: %w", err)
		}
		previous = append(previous, *p)
	}

	task := &models.Task{
		Name:           input.Name,
		Description:    input.Description,
		OrganizationID: input.OrganizationID,
		DeadlineDate:   input.DeadlineDate,
	}

	if len(previous) == 0 {
		now := time.Now()
		task.AvailableDate = &now
	} else {
		task.AvailableDate = latestPredecessorEnd(previous)
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(previous) > 0 {
		if err := s.taskRepo.ReplaceDependencies(task, previous); err != nil {
			return nil, fmt.Errorf("failed to link predecessors: %w", err)
		}
	}

	return task, nil
}

// GetTask returns a task with its relations
func (s *TaskService) GetTask(id, organizationID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, organizationID,
		"Assignments", "Assignments.Collaborator", "NextTasks", "PreviousTasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns an organization's tasks with filtering and pagination
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	DeadlineDate  *time.Time
	ClearDeadline bool
}

// UpdateTask updates a task's descriptive fields
func (s *TaskService) UpdateTask(id, organizationID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDeadline {
		task.DeadlineDate = nil
	} else if input.DeadlineDate != nil {
		task.DeadlineDate = input.DeadlineDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task, but only while no assignments exist under it
func (s *TaskService) DeleteTask(id, organizationID uint64) error {
	task, err := s.taskRepo.FindByID(id, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	count, err := s.taskRepo.CountAssignments(task.ID)
	if err != nil {
		return fmt.Errorf("failed to count assignments: %w", err)
	}
	if count > 0 {
		return apperrors.ErrDeleteTaskWithAssignments
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
