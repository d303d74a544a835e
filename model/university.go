package model

import (
	"time"

	"gorm.io/gorm"
)

// University represents an institution being rated. The rating fields are
// aggregates recomputed from reviews, never set directly by clients. The JSON
// field names are part of the client contract and must not change.
type University struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null;uniqueIndex" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Website     string         `gorm:"type:varchar(255)" json:"website"`
	EmailDomain string         `gorm:"type:varchar(255)" json:"email_domain"` // validates affiliation school emails

	OverallRating         float64 `gorm:"default:0" json:"overall_rating"`
	AcademicRating        float64 `gorm:"default:0" json:"academic_rating"`
	FacilitiesRating      float64 `gorm:"default:0" json:"facilities_rating"`
	SocialLifeRating      float64 `gorm:"default:0" json:"social_life_rating"`
	CareerProspectsRating float64 `gorm:"default:0" json:"career_prospects_rating"`
	CostOfLiving          float64 `gorm:"default:0" json:"cost_of_living"`

	// Relationships
	Branches []Branch `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"branches,omitempty"`
	Reviews  []Review `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}
