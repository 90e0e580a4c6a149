package models

import "time"

// VerificationStatus is the review state of a service verification request.
type VerificationStatus string

const (
	// VerificationStatusPending indicates the request awaits admin review.
	VerificationStatusPending VerificationStatus = "pending"
	// VerificationStatusApproved indicates the member was verified.
	VerificationStatusApproved VerificationStatus = "approved"
	// VerificationStatusRejected indicates the request was declined.
	VerificationStatusRejected VerificationStatus = "rejected"
)

// VerificationRequest carries a member's self-reported service record through
// admin review. Approving one moves the user from pending to verified.
type VerificationRequest struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	UserID         uint               `gorm:"not null;index" json:"user_id"`
	ServiceBranch  string             `gorm:"size:40;not null" json:"service_branch"`
	YearsOfService int                `gorm:"not null" json:"years_of_service"`
	// DocumentRef points at the uploaded discharge/service document in the
	// external document store. This service never reads the document itself.
	DocumentRef string             `gorm:"size:255" json:"document_ref"`
	Status      VerificationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason      string             `gorm:"type:text" json:"reason,omitempty"`
	ReviewedBy  *uint              `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM.
func (VerificationRequest) TableName() string {
	return "verification_requests"
}
