package repository

import (
	"github.com/escritorio-dados/nanowip-sub000/internal/database"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"gorm.io/gorm"
)

// GormCollaboratorRepository is a GORM implementation of CollaboratorRepository
type GormCollaboratorRepository struct {
	db *gorm.DB
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &GormCollaboratorRepository{db: db}
}

// Create creates a new collaborator
func (r *GormCollaboratorRepository) Create(collaborator *models.Collaborator) error {
	return r.db.Create(collaborator).Error
}

// FindByID finds a collaborator by ID within an organization
func (r *GormCollaboratorRepository) FindByID(id, organizationID uint64) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	if err := r.db.Where("organization_id = ?", organizationID).
		First(&collaborator, id).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// FindByUser finds the collaborator linked to a login user
func (r *GormCollaboratorRepository) FindByUser(userID, organizationID uint64) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	if err := r.db.
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// List retrieves an organization's collaborators with pagination
func (r *GormCollaboratorRepository) List(organizationID uint64, page, pageSize int) ([]models.Collaborator, int64, error) {
	var collaborators []models.Collaborator

	query := r.db.Model(&models.Collaborator{}).Scopes(database.OrganizationScope(organizationID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("name").Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Find(&collaborators).Error; err != nil {
		return nil, 0, err
	}

	return collaborators, total, nil
}

// Update updates a collaborator
func (r *GormCollaboratorRepository) Update(collaborator *models.Collaborator) error {
	return r.db.Save(collaborator).Error
}

// Delete soft deletes a collaborator
func (r *GormCollaboratorRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Collaborator{}, id).Error
}

// CountAssignments counts the assignments bound to a collaborator
func (r *GormCollaboratorRepository) CountAssignments(collaboratorID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Assignment{}).
		Where("collaborator_id = ?", collaboratorID).
		Count(&count).Error
	return count, err
}
