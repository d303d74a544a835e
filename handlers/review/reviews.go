package review

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/services"
	"github.com/varsityrank/api/utils/middleware"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitReviewRequest struct {
	UniversityID          uint    `json:"university_id" validate:"required"`
	BranchID              uint    `json:"branch_id" validate:"required"`
	AcademicRating        int     `json:"academic_rating" validate:"required"`
	FacilitiesRating      int     `json:"facilities_rating" validate:"required"`
	SocialLifeRating      int     `json:"social_life_rating" validate:"required"`
	CareerProspectsRating int     `json:"career_prospects_rating" validate:"required"`
	CostOfLiving          float64 `json:"cost_of_living" validate:"gte=0"`
	Comment               string  `json:"comment"`
}

type AddResponseRequest struct {
	Response string `json:"response" validate:"required,min=1"`
}

// upsertReview writes a review, updating the caller's existing row in place
// when one already holds the unique (user, university, branch) key. On the
// update path rev is refreshed with the stored row's id and timestamps.
func upsertReview(db *gorm.DB, rev *model.Review) error {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "university_id"}, {Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"academic_rating", "facilities_rating", "social_life_rating",
			"career_prospects_rating", "cost_of_living", "overall_rating",
			"comment", "date", "updated_at",
		}),
	}).Create(rev).Error
	if err != nil {
		return err
	}
	return db.Where("user_id = ? AND university_id = ? AND branch_id = ?",
		rev.UserID, rev.UniversityID, rev.BranchID).First(rev).Error
}

// SubmitReview handles POST /api/v1/reviews. A repeat submission for the same
// (university, branch) pair updates the caller's existing review in place, and
// either path recomputes the branch and university aggregates.
func (h *ReviewHandler) SubmitReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	for _, rating := range []int{req.AcademicRating, req.FacilitiesRating, req.SocialLifeRating, req.CareerProspectsRating} {
		if !validation.RatingInRange(rating) {
			return response.BadRequest(c, "Ratings must be numbers between 1 and 10")
		}
	}

	if err := services.CanSubmitReview(user, req.UniversityID); err != nil {
		return response.Forbidden(c, err.Error())
	}

	var branch model.Branch
	if err := h.db.Where("id = ? AND university_id = ?", req.BranchID, req.UniversityID).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to submit review")
	}

	rev := model.Review{
		UserID:                user.ID,
		UniversityID:          req.UniversityID,
		BranchID:              req.BranchID,
		AcademicRating:        req.AcademicRating,
		FacilitiesRating:      req.FacilitiesRating,
		SocialLifeRating:      req.SocialLifeRating,
		CareerProspectsRating: req.CareerProspectsRating,
		CostOfLiving:          req.CostOfLiving,
		Comment:               validation.SanitizeString(req.Comment),
		Date:                  time.Now(),
	}
	rev.OverallRating = rev.ComputeOverall()

	created := true
	var existing model.Review
	err := h.db.Where("user_id = ? AND university_id = ? AND branch_id = ?",
		user.ID, req.UniversityID, req.BranchID).First(&existing).Error
	switch {
	case err == nil:
		created = false
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return response.InternalServerError(c, "Failed to submit review")
	}

	// The store resolves the unique (user, university, branch) key, so two
	// concurrent first-time submissions both land on the update path instead
	// of one surfacing a constraint error.
	if err := upsertReview(h.db, &rev); err != nil {
		return response.InternalServerError(c, "Failed to submit review")
	}

	if err := h.ratingService.RecomputeAggregates(req.UniversityID, req.BranchID); err != nil {
		return response.InternalServerError(c, "Failed to update ratings")
	}

	if created {
		return response.Created(c, rev)
	}
	return response.SuccessWithMessage(c, "Review updated successfully", rev)
}

// ListByBranch handles GET /api/v1/branches/:id/reviews
func (h *ReviewHandler) ListByBranch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid branch id")
	}

	var count int64
	h.db.Model(&model.Branch{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NotFound(c, "Branch not found")
	}

	var reviews []model.Review
	if err := h.db.Preload("User").Preload("Responses").
		Where("branch_id = ?", id).Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch reviews")
	}

	return response.Success(c, reviews)
}

// ListByUniversity handles GET /api/v1/universities/:id/reviews
func (h *ReviewHandler) ListByUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var count int64
	h.db.Model(&model.University{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NotFound(c, "University not found")
	}

	var reviews []model.Review
	if err := h.db.Preload("User").Preload("Responses").
		Where("university_id = ?", id).Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch reviews")
	}

	return response.Success(c, reviews)
}

// AddResponse handles POST /api/v1/reviews/:id/responses. Admin only.
func (h *ReviewHandler) AddResponse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid review id")
	}

	var req AddResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var rev model.Review
	if err := h.db.First(&rev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Review not found")
		}
		return response.InternalServerError(c, "Failed to fetch review")
	}

	resp := model.ReviewResponse{
		ReviewID: rev.ID,
		UserID:   user.ID,
		Response: validation.SanitizeString(req.Response),
	}
	if err := h.db.Create(&resp).Error; err != nil {
		return response.InternalServerError(c, "Failed to add response")
	}

	return response.Created(c, resp)
}
