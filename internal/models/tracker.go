package models

import (
	"time"

	"gorm.io/gorm"
)

// Tracker is one continuous work interval on an assignment. Start is nil for
// a tracker registered before work began; End is nil while work is ongoing.
// Invariant: End is nil or End >= Start.
type Tracker struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	AssignmentID   uint64         `gorm:"not null;index" json:"assignment_id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	Reason         string         `gorm:"type:varchar(255)" json:"reason"`
	Start          *time.Time     `json:"start"`
	End            *time.Time     `json:"end"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}
