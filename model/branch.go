package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Branch is a campus or program cluster belonging to one university. Ratings
// are aggregated independently at this level from branch-scoped reviews and
// rolled up to the university.
type Branch struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Name         string         `gorm:"not null" json:"name"`
	Location     string         `gorm:"not null" json:"location"`
	Contact      string         `gorm:"type:varchar(255)" json:"contact"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Website      string         `gorm:"type:varchar(255)" json:"website"`
	Description  string         `gorm:"type:text" json:"description"`

	OverallRating         float64 `gorm:"default:0" json:"overall_rating"`
	AcademicRating        float64 `gorm:"default:0" json:"academic_rating"`
	FacilitiesRating      float64 `gorm:"default:0" json:"facilities_rating"`
	SocialLifeRating      float64 `gorm:"default:0" json:"social_life_rating"`
	CareerProspectsRating float64 `gorm:"default:0" json:"career_prospects_rating"`
	CostOfLiving          float64 `gorm:"default:0" json:"cost_of_living"`

	ProgramsOffered pq.StringArray `gorm:"type:text[]" json:"programs_offered"`
	ImageGallery    pq.StringArray `gorm:"type:text[]" json:"image_gallery"`

	// Roster of students with a verified affiliation to this branch
	Students []User `gorm:"many2many:branch_students;constraint:OnDelete:CASCADE" json:"students,omitempty"`
}
