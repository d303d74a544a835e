package model

import (
	"time"

	"gorm.io/gorm"
)

// Rating bounds for the four qualitative sub-ratings
const (
	MinRating = 1
	MaxRating = 10
)

// Review is a student's rating of one branch of one university. A user holds
// at most one review per (university, branch) pair; resubmitting updates the
// existing review in place. The overall rating is the mean of the four
// qualitative sub-ratings; cost of living is recorded but excluded from it.
type Review struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uint           `gorm:"not null;uniqueIndex:idx_review_user_uni_branch" json:"user_id"`
	UniversityID uint           `gorm:"not null;uniqueIndex:idx_review_user_uni_branch;index" json:"university_id"`
	BranchID     uint           `gorm:"not null;uniqueIndex:idx_review_user_uni_branch;index" json:"branch_id"`

	OverallRating         float64 `gorm:"not null" json:"overall_rating"`
	AcademicRating        int     `gorm:"not null" json:"academic_rating"`
	FacilitiesRating      int     `gorm:"not null" json:"facilities_rating"`
	SocialLifeRating      int     `gorm:"not null" json:"social_life_rating"`
	CareerProspectsRating int     `gorm:"not null" json:"career_prospects_rating"`
	CostOfLiving          float64 `gorm:"default:0" json:"cost_of_living"`

	Comment string    `gorm:"type:text" json:"comment"`
	Date    time.Time `json:"date"`

	// Relationships
	User      User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Responses []ReviewResponse `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

// ComputeOverall returns the mean of the four qualitative sub-ratings.
// Cost of living is excluded from the overall figure.
func (r *Review) ComputeOverall() float64 {
	sum := r.AcademicRating + r.FacilitiesRating + r.SocialLifeRating + r.CareerProspectsRating
	return float64(sum) / 4
}

// ReviewResponse is an admin reply attached to a review, ordered by creation.
type ReviewResponse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	UserID    uint      `gorm:"not null" json:"user_id"` // responding admin
	Response  string    `gorm:"type:text;not null" json:"response"`
}
