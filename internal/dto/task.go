package dto

import (
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
)

// TaskRefDTO is a minimal task reference used inside other DTOs
type TaskRefDTO struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	OrganizationID uint64          `json:"organization_id"`
	AvailableDate  *time.Time      `json:"available_date"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	DeadlineDate   *time.Time      `json:"deadline_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Assignments    []AssignmentDTO `json:"assignments,omitempty"`
	NextTasks      []TaskRefDTO    `json:"next_tasks,omitempty"`
	PreviousTasks  []TaskRefDTO    `json:"previous_tasks,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskRefDTO converts a Task model to TaskRefDTO
func ToTaskRefDTO(task models.Task) TaskRefDTO {
	return TaskRefDTO{
		ID:        task.ID,
		Name:      task.Name,
		StartDate: task.StartDate,
		EndDate:   task.EndDate,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Name:           task.Name,
		Description:    task.Description,
		OrganizationID: task.OrganizationID,
		AvailableDate:  task.AvailableDate,
		StartDate:      task.StartDate,
		EndDate:        task.EndDate,
		DeadlineDate:   task.DeadlineDate,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if len(task.Assignments) > 0 {
		dto.Assignments = make([]AssignmentDTO, len(task.Assignments))
		for i, assignment := range task.Assignments {
			dto.Assignments[i] = ToAssignmentDTO(assignment)
		}
	}

	if len(task.NextTasks) > 0 {
		dto.NextTasks = make([]TaskRefDTO, len(task.NextTasks))
		for i, next := range task.NextTasks {
			dto.NextTasks[i] = ToTaskRefDTO(next)
		}
	}

	if len(task.PreviousTasks) > 0 {
		dto.PreviousTasks = make([]TaskRefDTO, len(task.PreviousTasks))
		for i, prev := range task.PreviousTasks {
			dto.PreviousTasks[i] = ToTaskRefDTO(prev)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
