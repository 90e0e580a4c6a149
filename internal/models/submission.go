package models

import "time"

// SubmissionStatus is the tracking state of a festival submission. The owner
// may set any valid status at any time; there is deliberately no enforced
// transition graph, the enum only guards against unknown values.
type SubmissionStatus string

const (
	SubmissionStatusDraft       SubmissionStatus = "draft"
	SubmissionStatusSubmitted   SubmissionStatus = "submitted"
	SubmissionStatusUnderReview SubmissionStatus = "under_review"
	SubmissionStatusAccepted    SubmissionStatus = "accepted"
	SubmissionStatusRejected    SubmissionStatus = "rejected"
	SubmissionStatusWithdrawn   SubmissionStatus = "withdrawn"
)

// ValidSubmissionStatus reports whether s is a known tracking state.
func ValidSubmissionStatus(s SubmissionStatus) bool {
	switch s {
	case SubmissionStatusDraft, SubmissionStatusSubmitted, SubmissionStatusUnderReview,
		SubmissionStatusAccepted, SubmissionStatusRejected, SubmissionStatusWithdrawn:
		return true
	}
	return false
}

// FestivalSubmission tracks one entry of a script or project into a festival
// from the embedded catalog.
type FestivalSubmission struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	SubmitterID  uint             `gorm:"not null;index" json:"submitter_id"`
	FestivalSlug string           `gorm:"size:64;not null;index" json:"festival_slug"`
	ScriptID     *uint            `json:"script_id,omitempty"`
	ProjectID    *uint            `json:"project_id,omitempty"`
	Status       SubmissionStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Notes        string           `gorm:"type:text" json:"notes"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Submitter User     `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
	Script    *Script  `gorm:"foreignKey:ScriptID" json:"script,omitempty"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for GORM.
func (FestivalSubmission) TableName() string {
	return "festival_submissions"
}
