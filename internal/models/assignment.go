package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentStatusOpen   AssignmentStatus = "Aberto"
	AssignmentStatusClosed AssignmentStatus = "Fechado"
)

// Assignment is a collaborator's claim on a task. StartDate and EndDate are
// derived from its trackers: StartDate is the minimum tracker start, EndDate
// the maximum tracker end, cleared when the assignment reopens.
type Assignment struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	TaskID         uint64           `gorm:"not null;uniqueIndex:idx_assignments_task_collaborator" json:"task_id"`
	CollaboratorID uint64           `gorm:"not null;uniqueIndex:idx_assignments_task_collaborator" json:"collaborator_id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	Status         AssignmentStatus `gorm:"type:varchar(20);not null;default:'Aberto'" json:"status"`
	TimeLimit      *int             `json:"time_limit"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Task         Task         `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Collaborator Collaborator `gorm:"foreignKey:CollaboratorID" json:"collaborator,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Trackers     []Tracker    `gorm:"foreignKey:AssignmentID" json:"trackers,omitempty"`
}
