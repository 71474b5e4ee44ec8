package repository

import (
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"gorm.io/gorm"
)

// GormTrackerRepository is a GORM implementation of TrackerRepository
type GormTrackerRepository struct {
	db *gorm.DB
}

// NewTrackerRepository creates a new TrackerRepository
func NewTrackerRepository(db *gorm.DB) TrackerRepository {
	return &GormTrackerRepository{db: db}
}

// Create creates a new tracker
func (r *GormTrackerRepository) Create(tracker *models.Tracker) error {
	return r.db.Create(tracker).Error
}

// FindByID finds a tracker by ID within an organization
func (r *GormTrackerRepository) FindByID(id, organizationID uint64) (*models.Tracker, error) {
	var tracker models.Tracker
	if err := r.db.Where("organization_id = ?", organizationID).
		First(&tracker, id).Error; err != nil {
		return nil, err
	}
	return &tracker, nil
}

// FindByAssignment retrieves all trackers of one assignment
func (r *GormTrackerRepository) FindByAssignment(assignmentID, organizationID uint64) ([]models.Tracker, error) {
	var trackers []models.Tracker
	if err := r.db.
		Where("assignment_id = ? AND organization_id = ?", assignmentID, organizationID).
		Order("id").
		Find(&trackers).Error; err != nil {
		return nil, err
	}
	return trackers, nil
}

// FindByAssignmentIDs retrieves the trackers of many assignments at once
func (r *GormTrackerRepository) FindByAssignmentIDs(assignmentIDs []uint64, organizationID uint64) ([]models.Tracker, error) {
	if len(assignmentIDs) == 0 {
		return []models.Tracker{}, nil
	}

	var trackers []models.Tracker
	if err := r.db.
		Where("assignment_id IN ? AND organization_id = ?", assignmentIDs, organizationID).
		Find(&trackers).Error; err != nil {
		return nil, err
	}
	return trackers, nil
}

// CountByAssignment counts the trackers of an assignment
func (r *GormTrackerRepository) CountByAssignment(assignmentID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tracker{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

// Update updates a tracker
func (r *GormTrackerRepository) Update(tracker *models.Tracker) error {
	return r.db.Save(tracker).Error
}

// Delete soft deletes a tracker
func (r *GormTrackerRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Tracker{}, id).Error
}
