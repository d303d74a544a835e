package services

import (
	"github.com/varsityrank/api/model"
	"gorm.io/gorm"
)

// RatingAverages holds the mean sub-ratings over a set of reviews.
// The zero value is the correct aggregate for an empty review set.
type RatingAverages struct {
	Academic        float64
	Facilities      float64
	SocialLife      float64
	CareerProspects float64
	CostOfLiving    float64
}

// Overall returns the mean of the four qualitative averages. Cost of living
// is excluded from the overall figure.
func (a RatingAverages) Overall() float64 {
	return (a.Academic + a.Facilities + a.SocialLife + a.CareerProspects) / 4
}

// AveragesOf computes the arithmetic mean of each rating field across the
// review set. Returns zeroes for an empty set so stale aggregates get reset
// rather than left behind.
func AveragesOf(reviews []model.Review) RatingAverages {
	var avg RatingAverages
	if len(reviews) == 0 {
		return avg
	}
	for i := range reviews {
		avg.Academic += float64(reviews[i].AcademicRating)
		avg.Facilities += float64(reviews[i].FacilitiesRating)
		avg.SocialLife += float64(reviews[i].SocialLifeRating)
		avg.CareerProspects += float64(reviews[i].CareerProspectsRating)
		avg.CostOfLiving += reviews[i].CostOfLiving
	}
	n := float64(len(reviews))
	avg.Academic /= n
	avg.Facilities /= n
	avg.SocialLife /= n
	avg.CareerProspects /= n
	avg.CostOfLiving /= n
	return avg
}

// RatingService keeps the branch and university aggregates consistent with
// the underlying reviews.
type RatingService struct {
	db *gorm.DB
}

// NewRatingService creates a new rating service
func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// RecomputeAggregates recomputes the branch's ratings from all reviews of the
// branch and the university's ratings from all reviews across its branches.
// This is a full recompute from source rows, run inside a single transaction
// so concurrent review writes cannot interleave partial aggregate updates.
func (s *RatingService) RecomputeAggregates(universityID, branchID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var branchReviews []model.Review
		if err := tx.Where("university_id = ? AND branch_id = ?", universityID, branchID).
			Find(&branchReviews).Error; err != nil {
			return err
		}
		if err := writeAggregates(tx, &model.Branch{}, branchID, AveragesOf(branchReviews)); err != nil {
			return err
		}

		var universityReviews []model.Review
		if err := tx.Where("university_id = ?", universityID).
			Find(&universityReviews).Error; err != nil {
			return err
		}
		return writeAggregates(tx, &model.University{}, universityID, AveragesOf(universityReviews))
	})
}

func writeAggregates(tx *gorm.DB, target interface{}, id uint, avg RatingAverages) error {
	return tx.Model(target).Where("id = ?", id).Updates(map[string]interface{}{
		"academic_rating":         avg.Academic,
		"facilities_rating":       avg.Facilities,
		"social_life_rating":      avg.SocialLife,
		"career_prospects_rating": avg.CareerProspects,
		"cost_of_living":          avg.CostOfLiving,
		"overall_rating":          avg.Overall(),
	}).Error
}
