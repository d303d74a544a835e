package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UniversityAffiliation is a user's claimed link to a university and branch via
// a school email. Each affiliation carries its own verification state; the
// branch gains the user in its roster only once the school email is verified.
// A user holds at most one affiliation per university.
type UniversityAffiliation struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uint           `gorm:"not null;uniqueIndex:idx_user_university" json:"user_id"`
	UniversityID uint           `gorm:"not null;uniqueIndex:idx_user_university" json:"university_id"`
	BranchID     uint           `gorm:"not null;index" json:"branch_id"`
	SchoolEmail  string         `gorm:"not null" json:"school_email"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	Programs     pq.StringArray `gorm:"type:text[]" json:"program"`

	VerificationToken   string     `gorm:"type:varchar(100);index" json:"-"`
	VerificationExpires *time.Time `json:"-"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Branch     Branch     `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// TableName keeps the historical collection name
func (UniversityAffiliation) TableName() string {
	return "university_affiliations"
}

// GenerateVerificationToken issues a new school-email verification token with
// a one-hour validity window, replacing any previous one.
func (a *UniversityAffiliation) GenerateVerificationToken() string {
	token := NewOpaqueToken()
	expires := time.Now().Add(VerificationTokenTTL)
	a.VerificationToken = token
	a.VerificationExpires = &expires
	return token
}

// ClearVerificationToken consumes the token after successful verification.
func (a *UniversityAffiliation) ClearVerificationToken() {
	a.VerificationToken = ""
	a.VerificationExpires = nil
}
