package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser            = "user"
	RoleVerifiedStudent = "verified_student"
	RoleAdmin           = "admin"
)

// VerificationTokenTTL is the validity window for email verification and
// password reset tokens.
const VerificationTokenTTL = 1 * time.Hour

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`                           // Never expose password in JSON
	Role         string         `gorm:"type:varchar(20);default:'user'" json:"role"` // user, verified_student, admin

	IsEmailVerified bool `gorm:"default:false" json:"is_email_verified"`

	// At most one active avatar configuration per user
	AvatarConfig datatypes.JSON `json:"avatar_config,omitempty"`

	EmailVerificationToken   string     `gorm:"type:varchar(100);index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	PasswordResetToken       string     `gorm:"type:varchar(100);index" json:"-"`
	PasswordResetExpires     *time.Time `json:"-"`

	// Relationships
	Affiliations []UniversityAffiliation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"universities,omitempty"`
}

// NewOpaqueToken returns a fresh single-use verification token.
func NewOpaqueToken() string {
	return uuid.New().String()
}

// GenerateEmailVerificationToken issues a new email verification token with a
// one-hour validity window, replacing any previous one.
func (u *User) GenerateEmailVerificationToken() string {
	token := NewOpaqueToken()
	expires := time.Now().Add(VerificationTokenTTL)
	u.EmailVerificationToken = token
	u.EmailVerificationExpires = &expires
	return token
}

// ClearEmailVerificationToken consumes the token after successful verification.
func (u *User) ClearEmailVerificationToken() {
	u.EmailVerificationToken = ""
	u.EmailVerificationExpires = nil
}

// GeneratePasswordResetToken issues a new password reset token with a one-hour
// validity window, replacing any previous one.
func (u *User) GeneratePasswordResetToken() string {
	token := NewOpaqueToken()
	expires := time.Now().Add(VerificationTokenTTL)
	u.PasswordResetToken = token
	u.PasswordResetExpires = &expires
	return token
}

// ClearPasswordResetToken consumes the token after a successful reset.
func (u *User) ClearPasswordResetToken() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

// TokenExpired reports whether a token expiry timestamp has passed. A missing
// expiry counts as expired, so a cleared token can never be reused.
func TokenExpired(expires *time.Time, now time.Time) bool {
	return expires == nil || !expires.After(now)
}

// AffiliationFor returns the user's affiliation entry for a university, or nil.
// Affiliations must be preloaded.
func (u *User) AffiliationFor(universityID uint) *UniversityAffiliation {
	for i := range u.Affiliations {
		if u.Affiliations[i].UniversityID == universityID {
			return &u.Affiliations[i]
		}
	}
	return nil
}

// VerifiedBranchIDs returns the branch ids of the user's verified affiliations.
func (u *User) VerifiedBranchIDs() []uint {
	ids := make([]uint, 0, len(u.Affiliations))
	for i := range u.Affiliations {
		if u.Affiliations[i].IsVerified {
			ids = append(ids, u.Affiliations[i].BranchID)
		}
	}
	return ids
}

// HasVerifiedBranch reports whether the user holds a verified affiliation to
// the given branch.
func (u *User) HasVerifiedBranch(branchID uint) bool {
	for i := range u.Affiliations {
		if u.Affiliations[i].IsVerified && u.Affiliations[i].BranchID == branchID {
			return true
		}
	}
	return false
}
