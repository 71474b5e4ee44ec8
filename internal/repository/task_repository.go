package repository

import (
	"github.com/escritorio-dados/nanowip-sub000/internal/database"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID within an organization, with optional preloading
func (r *GormTaskRepository) FindByID(id, organizationID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Where("organization_id = ?", organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.OrganizationScope(filter.OrganizationID))

	if filter.Name != nil {
		query = query.Where("tasks.name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.OnlyAvailable {
		query = query.Where("tasks.available_date IS NOT NULL AND tasks.end_date IS NULL")
	}
	if filter.OnlyFinished {
		query = query.Where("tasks.end_date IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateAll bulk-saves tasks
func (r *GormTaskRepository) UpdateAll(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.Save(&tasks).Error
}

// Delete soft deletes a task and its dependency links
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM task_dependencies WHERE previous_task_id = ? OR next_task_id = ?", id, id,
		).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// ReplaceDependencies replaces a task's predecessor links
func (r *GormTaskRepository) ReplaceDependencies(task *models.Task, previous []models.Task) error {
	return r.db.Model(task).Association("PreviousTasks").Replace(previous)
}

// CountAssignments counts the assignments under a task
func (r *GormTaskRepository) CountAssignments(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Assignment{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}
