package model

import (
	"time"

	"gorm.io/gorm"
)

// ForumThread is a discussion thread owned by a branch. Only admins create
// threads; visibility is gated by verified membership in the owning branch.
type ForumThread struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	BranchID  uint           `gorm:"not null;index" json:"branch_id"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`

	// Relationships
	Author *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Branch *Branch     `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Posts  []ForumPost `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}
