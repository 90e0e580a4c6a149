package models

import (
	"time"

	"gorm.io/gorm"
)

// ForumCategory groups forum posts into boards.
type ForumCategory string

const (
	ForumCategoryGeneral     ForumCategory = "general"
	ForumCategoryCrewCall    ForumCategory = "crew_call"
	ForumCategoryScreenwriting ForumCategory = "screenwriting"
	ForumCategoryFestivals   ForumCategory = "festivals"
	ForumCategoryGear        ForumCategory = "gear"
)

// ValidForumCategory reports whether c is a known board.
func ValidForumCategory(c ForumCategory) bool {
	switch c {
	case ForumCategoryGeneral, ForumCategoryCrewCall, ForumCategoryScreenwriting,
		ForumCategoryFestivals, ForumCategoryGear:
		return true
	}
	return false
}

// ForumPost is a thread starter in a community board. The whole forum,
// reads included, sits behind the verified-member gate.
type ForumPost struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	AuthorID uint          `gorm:"not null;index" json:"author_id"`
	Category ForumCategory `gorm:"type:varchar(20);not null;default:'general';index" json:"category"`
	Title    string        `gorm:"size:200;not null" json:"title"`
	Body     string        `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author   User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments []ForumComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// TableName specifies the table name for GORM.
func (ForumPost) TableName() string {
	return "forum_posts"
}

// ForumComment is a reply within a forum thread.
type ForumComment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Body     string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM.
func (ForumComment) TableName() string {
	return "forum_comments"
}
