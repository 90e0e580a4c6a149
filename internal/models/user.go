// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the membership tier of a user. Gated features require RoleVerified.
type Role string

const (
	// RolePublic is the default tier for a fresh signup.
	RolePublic Role = "public"
	// RolePending marks a user whose service verification is under review.
	RolePending Role = "pending"
	// RoleVerified grants access to scripts, projects, forums, messaging,
	// generation and festival submissions.
	RoleVerified Role = "verified"
)

// ValidRole reports whether r is a known membership tier.
func ValidRole(r Role) bool {
	switch r {
	case RolePublic, RolePending, RoleVerified:
		return true
	}
	return false
}

// CanTransitionRole defines the reachable edges of the membership state
// machine: public -> pending (member submits service record) and
// pending -> verified / pending -> public (admin review). Re-applying the
// current role is always permitted and treated as a no-op by callers.
func CanTransitionRole(from, to Role) bool {
	if from == to {
		return true
	}
	switch from {
	case RolePublic:
		return to == RolePending
	case RolePending:
		return to == RoleVerified || to == RolePublic
	case RoleVerified:
		return false
	}
	return false
}

// User represents a member of the ReelCorps platform.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`

	// Membership and service record. Branch and years are self-reported at
	// verification time and frozen on approval.
	Role           Role   `gorm:"type:varchar(20);not null;default:'public';index" json:"role"`
	IsVerified     bool   `gorm:"not null;default:false" json:"is_verified"`
	ServiceBranch  string `gorm:"size:40" json:"service_branch,omitempty"`
	YearsOfService int    `json:"years_of_service,omitempty"`

	// Credit balance in whole credits. Mutated only through the credit
	// ledger (repository.CreditRepository), never by direct assignment.
	Credits int64 `gorm:"not null;default:0" json:"credits"`

	// Referral program. ReferralCode is issued at signup; ReferredByID links
	// to the referring user when a code was redeemed.
	ReferralCode string `gorm:"size:12;uniqueIndex" json:"referral_code"`
	ReferredByID *uint  `json:"referred_by_id,omitempty"`

	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Scripts []Script `gorm:"foreignKey:AuthorID" json:"scripts,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// IsVerifiedMember is the single authorization predicate for the membership
// gate. Every gated route checks this and nothing else.
func (u *User) IsVerifiedMember() bool {
	return u != nil && u.Role == RoleVerified
}
