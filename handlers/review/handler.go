package review

import (
	"github.com/varsityrank/api/services"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

// ReviewHandler serves review submission, listing and admin responses
type ReviewHandler struct {
	db            *gorm.DB
	ratingService *services.RatingService
	validator     *validation.Validator
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(db *gorm.DB, ratingService *services.RatingService) *ReviewHandler {
	return &ReviewHandler{
		db:            db,
		ratingService: ratingService,
		validator:     validation.NewValidator(),
	}
}
