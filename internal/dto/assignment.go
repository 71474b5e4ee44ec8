package dto

import (
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
)

// CollaboratorDTO represents a collaborator in API responses
type CollaboratorDTO struct {
	ID       uint64                  `json:"id"`
	Name     string                  `json:"name"`
	JobTitle string                  `json:"job_title"`
	Type     models.CollaboratorType `json:"type"`
	UserID   *uint64                 `json:"user_id,omitempty"`
}

// CollaboratorListResponse represents a paginated list of collaborators
type CollaboratorListResponse struct {
	Collaborators []CollaboratorDTO `json:"collaborators"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
}

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID             uint64                  `json:"id"`
	TaskID         uint64                  `json:"task_id"`
	CollaboratorID uint64                  `json:"collaborator_id"`
	OrganizationID uint64                  `json:"organization_id"`
	Status         models.AssignmentStatus `json:"status"`
	TimeLimit      *int                    `json:"time_limit"`
	StartDate      *time.Time              `json:"start_date"`
	EndDate        *time.Time              `json:"end_date"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Task           *TaskRefDTO             `json:"task,omitempty"`
	Collaborator   *CollaboratorDTO        `json:"collaborator,omitempty"`
	Trackers       []TrackerDTO            `json:"trackers,omitempty"`
}

// ToCollaboratorDTO converts a Collaborator model to CollaboratorDTO
func ToCollaboratorDTO(collaborator models.Collaborator) CollaboratorDTO {
	return CollaboratorDTO{
		ID:       collaborator.ID,
		Name:     collaborator.Name,
		JobTitle: collaborator.JobTitle,
		Type:     collaborator.Type,
		UserID:   collaborator.UserID,
	}
}

// ToCollaboratorListResponse converts a slice of collaborators to CollaboratorListResponse
func ToCollaboratorListResponse(collaborators []models.Collaborator, page, pageSize int, totalCount int64) CollaboratorListResponse {
	items := make([]CollaboratorDTO, len(collaborators))
	for i, collaborator := range collaborators {
		items[i] = ToCollaboratorDTO(collaborator)
	}

	return CollaboratorListResponse{
		Collaborators: items,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
	}
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(assignment models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:             assignment.ID,
		TaskID:         assignment.TaskID,
		CollaboratorID: assignment.CollaboratorID,
		OrganizationID: assignment.OrganizationID,
		Status:         assignment.Status,
		TimeLimit:      assignment.TimeLimit,
		StartDate:      assignment.StartDate,
		EndDate:        assignment.EndDate,
		CreatedAt:      assignment.CreatedAt,
		UpdatedAt:      assignment.UpdatedAt,
	}

	if assignment.Task.ID != 0 {
		task := ToTaskRefDTO(assignment.Task)
		dto.Task = &task
	}

	if assignment.Collaborator.ID != 0 {
		collaborator := ToCollaboratorDTO(assignment.Collaborator)
		dto.Collaborator = &collaborator
	}

	if len(assignment.Trackers) > 0 {
		dto.Trackers = make([]TrackerDTO, len(assignment.Trackers))
		for i, tracker := range assignment.Trackers {
			dto.Trackers[i] = ToTrackerDTO(tracker)
		}
	}

	return dto
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	items := make([]AssignmentDTO, len(assignments))
	for i, assignment := range assignments {
		items[i] = ToAssignmentDTO(assignment)
	}
	return items
}
