package models

import "time"

// GenerationKind identifies which external AI pipeline a job runs through.
type GenerationKind string

const (
	GenerationKindScriptCoverage GenerationKind = "script_coverage"
	GenerationKindStoryboard     GenerationKind = "storyboard"
	GenerationKindTrailerCut     GenerationKind = "trailer_cut"
)

// ValidGenerationKind reports whether k is a known pipeline.
func ValidGenerationKind(k GenerationKind) bool {
	switch k {
	case GenerationKindScriptCoverage, GenerationKindStoryboard, GenerationKindTrailerCut:
		return true
	}
	return false
}

// GenerationStatus is the lifecycle state of a generation job.
type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationJob records one credit-debited call into the external AI/media
// services. The service only tracks the job and its credit accounting; the
// actual processing happens behind ProviderRef.
type GenerationJob struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      uint             `gorm:"not null;index" json:"user_id"`
	Kind        GenerationKind   `gorm:"type:varchar(30);not null" json:"kind"`
	Status      GenerationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CostCredits int64            `gorm:"not null" json:"cost_credits"`
	ScriptID    *uint            `json:"script_id,omitempty"`
	ProjectID   *uint            `json:"project_id,omitempty"`
	// ProviderRef is the opaque job handle issued by the external service.
	ProviderRef string `gorm:"size:64;index" json:"provider_ref"`
	// ResultURL is filled in by the provider callback on completion.
	ResultURL string `gorm:"size:500" json:"result_url,omitempty"`
	Error     string `gorm:"size:500" json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (GenerationJob) TableName() string {
	return "generation_jobs"
}
