package models

import (
	"time"

	"gorm.io/gorm"
)

// ScriptFormat identifies the kind of screenplay a script holds.
type ScriptFormat string

const (
	ScriptFormatFeature ScriptFormat = "feature"
	ScriptFormatShort   ScriptFormat = "short"
	ScriptFormatPilot   ScriptFormat = "pilot"
	ScriptFormatDoc     ScriptFormat = "documentary"
)

// ValidScriptFormat reports whether f is a known screenplay format.
func ValidScriptFormat(f ScriptFormat) bool {
	switch f {
	case ScriptFormatFeature, ScriptFormatShort, ScriptFormatPilot, ScriptFormatDoc:
		return true
	}
	return false
}

// Script is a screenplay owned by its author. Private scripts are visible to
// the author only; IsPublic opens read access to other verified members.
type Script struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	AuthorID uint         `gorm:"not null;index" json:"author_id"`
	Title    string       `gorm:"size:200;not null" json:"title"`
	Logline  string       `gorm:"size:500" json:"logline"`
	Content  string       `gorm:"type:text" json:"content"`
	Format   ScriptFormat `gorm:"type:varchar(20);not null;default:'feature'" json:"format"`
	IsPublic bool         `gorm:"not null;default:false;index" json:"is_public"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM.
func (Script) TableName() string {
	return "scripts"
}
