package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Institution represents a school, college, or corporate body that users
// join and administrators manage.
type Institution struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:120;not null" json:"name"`
	NormalizedName  string    `gorm:"size:120;not null;uniqueIndex" json:"normalized_name"`
	Type            AdminType `gorm:"type:varchar(20);not null" json:"type"`
	CreatedByUserID uint      `json:"created_by_user_id,omitempty"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeSave derives NormalizedName from the trimmed, lowercased name so the
// uniqueness constraint is case-insensitive.
func (i *Institution) BeforeSave(tx *gorm.DB) error {
	if i.Name != "" {
		i.NormalizedName = strings.ToLower(strings.TrimSpace(i.Name))
	}
	return nil
}
