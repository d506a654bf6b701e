// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the coarse platform role of a user.
type UserRole string

const (
	// RoleSuperAdmin is the platform operator role with blanket rights.
	RoleSuperAdmin UserRole = "superadmin"
	// RoleAdmin is an institution-level administrator with blanket rights.
	RoleAdmin UserRole = "admin"
	// RoleUser is the default member role.
	RoleUser UserRole = "user"
)

// AdminType classifies what kind of organization an admin manages.
type AdminType string

const (
	AdminTypeInstitute AdminType = "institute"
	AdminTypeCorporate AdminType = "corporate"
	AdminTypeSchool    AdminType = "school"
)

// User represents a member of the alumni network.
//
// AdminHierarchy is a denormalized cache of the label granted by the latest
// approved link request. It may lag behind the request log after a partial
// failure; readers that need the authoritative value go through the
// effective-hierarchy resolver instead.
type User struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Name     string   `gorm:"not null" json:"name"`
	Username string   `gorm:"unique;not null" json:"username"`
	Email    string   `gorm:"unique;not null" json:"email"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// AdminType is only meaningful when Role is admin.
	AdminType     AdminType    `gorm:"type:varchar(20)" json:"admin_type,omitempty"`
	InstitutionID *uint        `gorm:"index" json:"institution_id,omitempty"`
	Institution   *Institution `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`

	AdminHierarchy  string           `gorm:"size:120" json:"admin_hierarchy,omitempty"`
	HierarchyGrants []HierarchyGrant `gorm:"foreignKey:UserID" json:"hierarchy_grants,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasBlanketGrantRights reports whether the user's coarse role bypasses the
// hierarchy eligibility rule entirely.
func (u *User) HasBlanketGrantRights() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleAdmin
}

// HasAdminCapability reports whether the user may access the baseline admin
// surface: a privileged role, or any granted hierarchy label.
func (u *User) HasAdminCapability() bool {
	return u.HasBlanketGrantRights() || u.AdminHierarchy != ""
}

// HierarchyGrant is one append-only history entry recording a hierarchy label
// granted to a user.
type HierarchyGrant struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Level           string    `gorm:"size:120;not null" json:"level"`
	GrantedByUserID uint      `gorm:"not null" json:"granted_by_user_id"`
	GrantedBy       *User     `gorm:"foreignKey:GrantedByUserID" json:"granted_by,omitempty"`
	GrantedAt       time.Time `gorm:"not null" json:"granted_at"`
}
