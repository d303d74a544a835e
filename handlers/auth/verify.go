package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/response"
	"gorm.io/gorm"
)

// errTokenConsumed marks a token claimed by a concurrent verification.
var errTokenConsumed = errors.New("verification token already consumed")

// VerifyEmail consumes a verification token. The token may belong to the
// account email or to a school-email affiliation; an expired token is treated
// exactly like an unknown one. Every clearing update keeps the token in its
// WHERE clause, so a token is consumed exactly once even under concurrent
// verification attempts.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return response.BadRequest(c, "Verification token is required")
	}
	now := time.Now()

	// Account email token
	var user model.User
	err := h.db.Where("email_verification_token = ?", token).First(&user).Error
	if err == nil {
		if model.TokenExpired(user.EmailVerificationExpires, now) {
			return response.NotFound(c, "Invalid or expired verification token")
		}

		res := h.db.Model(&model.User{}).
			Where("id = ? AND email_verification_token = ?", user.ID, token).
			Updates(map[string]interface{}{
				"is_email_verified":          true,
				"email_verification_token":   "",
				"email_verification_expires": nil,
			})
		if res.Error != nil {
			return response.InternalServerError(c, "Failed to verify email")
		}
		if res.RowsAffected == 0 {
			return response.NotFound(c, "Invalid or expired verification token")
		}

		return response.SuccessWithMessage(c, "Email verified successfully", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to verify email")
	}

	// School email affiliation token
	var aff model.UniversityAffiliation
	if err := h.db.Where("verification_token = ?", token).First(&aff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Invalid or expired verification token")
		}
		return response.InternalServerError(c, "Failed to verify email")
	}
	if model.TokenExpired(aff.VerificationExpires, now) {
		return response.NotFound(c, "Invalid or expired verification token")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.UniversityAffiliation{}).
			Where("id = ? AND verification_token = ?", aff.ID, token).
			Updates(map[string]interface{}{
				"is_verified":          true,
				"verification_token":   "",
				"verification_expires": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTokenConsumed
		}

		// Verified students join the branch roster
		var branch model.Branch
		if err := tx.First(&branch, aff.BranchID).Error; err != nil {
			return err
		}
		if err := tx.Model(&branch).Association("Students").Append(&model.User{ID: aff.UserID}); err != nil {
			return err
		}

		// Promote plain users once any affiliation is verified
		return tx.Model(&model.User{}).
			Where("id = ? AND role = ?", aff.UserID, model.RoleUser).
			Update("role", model.RoleVerifiedStudent).Error
	})
	if err != nil {
		if errors.Is(err, errTokenConsumed) {
			return response.NotFound(c, "Invalid or expired verification token")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to verify school email")
	}

	return response.SuccessWithMessage(c, "Email verified successfully", nil)
}
