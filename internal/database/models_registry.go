package database

import "alumlink/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.HierarchyGrant{},
		&models.Institution{},
		&models.JoinRequest{},
		&models.LinkRequest{},
	}
}
