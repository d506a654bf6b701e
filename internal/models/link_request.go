package models

import "time"

// LinkRequestStatus defines lifecycle states for hierarchy link requests.
type LinkRequestStatus string

const (
	// LinkRequestPending indicates the request is awaiting review.
	LinkRequestPending LinkRequestStatus = "pending"
	// LinkRequestApproved indicates the request was accepted.
	LinkRequestApproved LinkRequestStatus = "approved"
	// LinkRequestRejected indicates the request was denied.
	LinkRequestRejected LinkRequestStatus = "rejected"
)

// LinkRequest is a user-submitted request to be granted a hierarchy label.
//
// Requests are append-only: a request transitions out of pending exactly once
// and is never deleted. The request log is the authoritative record of granted
// hierarchies; the user's cached field is derived from it.
type LinkRequest struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	SenderID           uint              `gorm:"not null;index" json:"sender_id"`
	Sender             *User             `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RequestedHierarchy string            `gorm:"size:120;not null" json:"requested_hierarchy"`
	Status             LinkRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedByUserID   *uint             `json:"reviewed_by_user_id,omitempty"`
	ReviewedByUser     *User             `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty"`
	// GrantedHierarchy is the label actually granted; set only on approval and
	// may differ from RequestedHierarchy when the reviewer grants another label.
	GrantedHierarchy string    `gorm:"size:120" json:"granted_hierarchy,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Decided reports whether the request has left the pending state.
func (r *LinkRequest) Decided() bool {
	return r.Status != LinkRequestPending
}
