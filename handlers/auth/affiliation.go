package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/middleware"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type AddSchoolEmailRequest struct {
	UniversityID uint     `json:"university_id" validate:"required"`
	BranchID     uint     `json:"branch_id" validate:"required"`
	SchoolEmail  string   `json:"school_email" validate:"required,email"`
	Programs     []string `json:"programs"`
}

// AddSchoolEmail links the account to a university through a school email
// address. The affiliation stays unverified until the mailed token is used.
func (h *AuthHandler) AddSchoolEmail(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req AddSchoolEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var university model.University
	if err := h.db.First(&university, req.UniversityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to add school email")
	}

	var branch model.Branch
	if err := h.db.Where("id = ? AND university_id = ?", req.BranchID, req.UniversityID).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to add school email")
	}

	schoolEmail := strings.ToLower(validation.SanitizeString(req.SchoolEmail))
	if university.EmailDomain != "" && validation.EmailDomain(schoolEmail) != strings.ToLower(university.EmailDomain) {
		return response.BadRequest(c, "Invalid school email domain")
	}

	var existing model.UniversityAffiliation
	err := h.db.Where("user_id = ? AND university_id = ?", userID, req.UniversityID).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "You are already affiliated with this university")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to add school email")
	}

	aff := model.UniversityAffiliation{
		UserID:       userID,
		UniversityID: req.UniversityID,
		BranchID:     req.BranchID,
		SchoolEmail:  schoolEmail,
		Programs:     pq.StringArray(req.Programs),
	}
	token := aff.GenerateVerificationToken()

	if err := h.db.Create(&aff).Error; err != nil {
		return response.InternalServerError(c, "Failed to add school email")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err == nil {
		h.sendVerificationEmail(schoolEmail, user.Username, token, true)
	}

	return response.Created(c, fiber.Map{
		"message":     "School email added. Please check your inbox for verification.",
		"affiliation": aff,
	})
}
