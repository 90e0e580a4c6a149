package models

import "time"

// Poster is a processed key-art upload for a project. Files live on local
// disk under the configured upload dir; the row records the derived webp
// rendition and its dimensions.
type Poster struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	ProjectID   *uint  `gorm:"index" json:"project_id,omitempty"`
	Path        string `gorm:"size:255;not null" json:"path"`
	ContentHash string `gorm:"size:64;not null;index" json:"content_hash"`
	Width       int    `gorm:"not null" json:"width"`
	Height      int    `gorm:"not null" json:"height"`
	SizeBytes   int64  `gorm:"not null" json:"size_bytes"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Poster) TableName() string {
	return "posters"
}
