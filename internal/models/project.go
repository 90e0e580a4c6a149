package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectStage tracks where a production currently sits in its lifecycle.
type ProjectStage string

const (
	ProjectStageDevelopment   ProjectStage = "development"
	ProjectStagePreProduction ProjectStage = "pre_production"
	ProjectStageProduction    ProjectStage = "production"
	ProjectStagePost          ProjectStage = "post_production"
	ProjectStageReleased      ProjectStage = "released"
)

// ValidProjectStage reports whether s is a known production stage.
func ValidProjectStage(s ProjectStage) bool {
	switch s {
	case ProjectStageDevelopment, ProjectStagePreProduction, ProjectStageProduction,
		ProjectStagePost, ProjectStageReleased:
		return true
	}
	return false
}

// Project is a film production owned by its creator. Like scripts, private
// projects return 404 to anyone but the creator.
type Project struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	CreatorID uint        `gorm:"not null;index" json:"creator_id"`
	Title    string       `gorm:"size:200;not null" json:"title"`
	Synopsis string       `gorm:"type:text" json:"synopsis"`
	Stage    ProjectStage `gorm:"type:varchar(20);not null;default:'development'" json:"stage"`
	IsPublic bool         `gorm:"not null;default:false;index" json:"is_public"`
	ScriptID *uint        `json:"script_id,omitempty"`
	PosterID *uint        `json:"poster_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Creator User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Script  *Script `gorm:"foreignKey:ScriptID" json:"script,omitempty"`
	Poster  *Poster `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}
