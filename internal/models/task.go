package models

import (
	"time"

	"gorm.io/gorm"
)

// Task carries derived scheduling dates: StartDate is the earliest start among
// its assignments, EndDate is set when all work on it is finished, and
// AvailableDate tracks when its predecessor tasks allow it to begin.
type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	AvailableDate  *time.Time     `json:"available_date"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	DeadlineDate   *time.Time     `json:"deadline_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Assignments  []Assignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`

	// Dependency successors and predecessors, through task_dependencies.
	NextTasks     []Task `gorm:"many2many:task_dependencies;foreignKey:ID;joinForeignKey:previous_task_id;References:ID;joinReferences:next_task_id" json:"next_tasks,omitempty"`
	PreviousTasks []Task `gorm:"many2many:task_dependencies;foreignKey:ID;joinForeignKey:next_task_id;References:ID;joinReferences:previous_task_id" json:"previous_tasks,omitempty"`
}
