package models

import "time"

// JoinRequestStatus defines lifecycle states for institution join requests.
type JoinRequestStatus string

const (
	// JoinRequestPending indicates the request is awaiting review.
	JoinRequestPending JoinRequestStatus = "pending"
	// JoinRequestApproved indicates the request was accepted.
	JoinRequestApproved JoinRequestStatus = "approved"
	// JoinRequestRejected indicates the request was denied.
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// JoinRequestDetails carries the enrollment information a user supplies when
// asking to join an institution.
type JoinRequestDetails struct {
	EnrollmentYear int    `json:"enrollment_year,omitempty"`
	Branch         string `gorm:"size:120" json:"branch,omitempty"`
	RollNumber     string `gorm:"size:60" json:"roll_number,omitempty"`
	Course         string `gorm:"size:120" json:"course,omitempty"`
	CollegeEmail   string `gorm:"size:120" json:"college_email,omitempty"`
}

// JoinRequest is a user's request to be linked to an institution.
type JoinRequest struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	UserID           uint               `gorm:"not null;index" json:"user_id"`
	User             *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	InstitutionID    uint               `gorm:"not null;index" json:"institution_id"`
	Institution      *Institution       `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	Details          JoinRequestDetails `gorm:"embedded;embeddedPrefix:detail_" json:"details"`
	Status           JoinRequestStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedByUserID *uint              `json:"reviewed_by_user_id,omitempty"`
	ReviewedByUser   *User              `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
