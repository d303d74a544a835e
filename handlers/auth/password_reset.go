package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/auth"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ForgotPassword issues a reset token to the account's email address.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	// Unknown addresses get the same response so the endpoint cannot be used
	// to probe which emails hold accounts.
	var user model.User
	if err := h.db.Where("email = ?", validation.SanitizeString(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.SuccessWithMessage(c, "Password reset link sent to your email", nil)
		}
		return response.InternalServerError(c, "Failed to process request")
	}

	token := user.GeneratePasswordResetToken()
	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": user.PasswordResetExpires,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to process request")
	}

	h.sendPasswordResetEmail(user.Email, user.Username, token)

	return response.SuccessWithMessage(c, "Password reset link sent to your email", nil)
}

// ResetPassword sets a new password if the token is valid and unexpired.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return response.BadRequest(c, "Reset token is required")
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.Where("password_reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Invalid or expired reset token")
		}
		return response.InternalServerError(c, "Failed to reset password")
	}
	if model.TokenExpired(user.PasswordResetExpires, time.Now()) {
		return response.NotFound(c, "Invalid or expired reset token")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to reset password")
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":          hash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to reset password")
	}

	return response.SuccessWithMessage(c, "Password reset successful", nil)
}
