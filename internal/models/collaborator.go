package models

import (
	"time"

	"gorm.io/gorm"
)

type CollaboratorType string

const (
	CollaboratorTypeInternal CollaboratorType = "Interno"
	CollaboratorTypeExternal CollaboratorType = "Externo"
)

// Collaborator is the work-performing identity an Assignment binds to.
// It may optionally be linked to a login User.
type Collaborator struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	JobTitle       string           `gorm:"type:varchar(255)" json:"job_title"`
	Type           CollaboratorType `gorm:"type:varchar(20);not null;default:'Interno'" json:"type"`
	UserID         *uint64          `gorm:"uniqueIndex" json:"user_id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	User         *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Assignments  []Assignment `gorm:"foreignKey:CollaboratorID" json:"assignments,omitempty"`
}
