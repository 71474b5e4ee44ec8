package repository

import (
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *GormAssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// FindByID finds an assignment by ID within an organization, with optional preloading
func (r *GormAssignmentRepository) FindByID(id, organizationID uint64, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db.Where("organization_id = ?", organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&assignment, id).Error; err != nil {
		return nil, err
	}

	return &assignment, nil
}

// FindByTaskAndCollaborator finds the assignment binding a collaborator to a task
func (r *GormAssignmentRepository) FindByTaskAndCollaborator(taskID, collaboratorID, organizationID uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.
		Where("task_id = ? AND collaborator_id = ? AND organization_id = ?", taskID, collaboratorID, organizationID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindAllByTask retrieves every assignment under a task
func (r *GormAssignmentRepository) FindAllByTask(taskID, organizationID uint64, preload ...string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := r.db.Where("task_id = ? AND organization_id = ?", taskID, organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindAllByCollaborator retrieves every assignment of a collaborator
func (r *GormAssignmentRepository) FindAllByCollaborator(collaboratorID, organizationID uint64, preload ...string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := r.db.Where("collaborator_id = ? AND organization_id = ?", collaboratorID, organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindAll retrieves every assignment of an organization
func (r *GormAssignmentRepository) FindAll(organizationID uint64, preload ...string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := r.db.Where("organization_id = ?", organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Order("id").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// Update updates an assignment
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

// UpdateAll bulk-saves assignments
func (r *GormAssignmentRepository) UpdateAll(assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Save(&assignments).Error
}

// Delete soft deletes an assignment
func (r *GormAssignmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Assignment{}, id).Error
}

// ApplyTaskClose applies the task-close batch atomically: stale trackers are
// deleted, the remaining open trackers are closed, and the assignments saved.
// A single transaction keeps the three writes from being partially applied.
func (r *GormAssignmentRepository) ApplyTaskClose(deleteTrackers, saveTrackers []models.Tracker, saveAssignments []models.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(deleteTrackers) > 0 {
			ids := make([]uint64, len(deleteTrackers))
			for i, t := range deleteTrackers {
				ids[i] = t.ID
			}
			if err := tx.Delete(&models.Tracker{}, ids).Error; err != nil {
				return err
			}
		}

		if len(saveTrackers) > 0 {
			if err := tx.Save(&saveTrackers).Error; err != nil {
				return err
			}
		}

		if len(saveAssignments) > 0 {
			if err := tx.Save(&saveAssignments).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
