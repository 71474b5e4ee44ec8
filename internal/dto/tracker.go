package dto

import (
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
)

// TrackerDTO represents a tracker in API responses
type TrackerDTO struct {
	ID           uint64     `json:"id"`
	AssignmentID uint64     `json:"assignment_id"`
	Reason       string     `json:"reason"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToTrackerDTO converts a Tracker model to TrackerDTO
func ToTrackerDTO(tracker models.Tracker) TrackerDTO {
	return TrackerDTO{
		ID:           tracker.ID,
		AssignmentID: tracker.AssignmentID,
		Reason:       tracker.Reason,
		Start:        tracker.Start,
		End:          tracker.End,
		CreatedAt:    tracker.CreatedAt,
	}
}

// ToTrackerDTOs converts a slice of trackers
func ToTrackerDTOs(trackers []models.Tracker) []TrackerDTO {
	items := make([]TrackerDTO, len(trackers))
	for i, tracker := range trackers {
		items[i] = ToTrackerDTO(tracker)
	}
	return items
}
