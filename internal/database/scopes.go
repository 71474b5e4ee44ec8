package database

import (
	"gorm.io/gorm"
)

// Paginate applies pagination to a GORM query. Non-positive values disable it.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// OrganizationScope filters a query to a single tenant. Every repository
// query goes through this: the organization ID is always threaded as an
// explicit parameter, never ambient state.
func OrganizationScope(organizationID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}
