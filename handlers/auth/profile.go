package auth

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/middleware"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type SetAvatarRequest struct {
	Avatar map[string]interface{} `json:"avatar" validate:"required"`
}

// GetProfile returns the authenticated user's account with affiliations.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var user model.User
	if err := h.db.Preload("Affiliations.University").Preload("Affiliations.Branch").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, user)
}

// UpdateProfile changes the username or email. Changing the email requires
// re-verification, so the account drops back to unverified and a fresh token
// goes out.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}
	if req.Username == "" && req.Email == "" {
		return response.BadRequest(c, "Nothing to update")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.InternalServerError(c, "Failed to load profile")
	}

	emailChanged := false
	if req.Username != "" && req.Username != user.Username {
		username := validation.SanitizeString(req.Username)
		if ok, msg := validation.ValidateUsername(username); !ok {
			return response.BadRequest(c, msg)
		}
		var count int64
		h.db.Model(&model.User{}).Where("username = ? AND id <> ?", username, user.ID).Count(&count)
		if count > 0 {
			return response.Conflict(c, "Username already taken")
		}
		user.Username = username
	}
	if req.Email != "" && req.Email != user.Email {
		email := validation.SanitizeString(req.Email)
		var count int64
		h.db.Model(&model.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
		if count > 0 {
			return response.Conflict(c, "Email already registered")
		}
		user.Email = email
		user.IsEmailVerified = false
		user.GenerateEmailVerificationToken()
		emailChanged = true
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	if emailChanged {
		h.sendVerificationEmail(user.Email, user.Username, user.EmailVerificationToken, false)
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", toUserResponse(&user))
}

// SetAvatar replaces the user's avatar configuration. Only a single
// configuration is kept per account.
func (h *AuthHandler) SetAvatar(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req SetAvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Avatar) == 0 {
		return response.BadRequest(c, "Avatar configuration is required")
	}

	raw, err := json.Marshal(req.Avatar)
	if err != nil {
		return response.BadRequest(c, "Invalid avatar configuration")
	}

	if err := h.db.Model(&model.User{}).Where("id = ?", userID).
		Update("avatar_config", raw).Error; err != nil {
		return response.InternalServerError(c, "Failed to save avatar")
	}

	return response.SuccessWithMessage(c, "Avatar saved successfully", fiber.Map{"avatar": req.Avatar})
}
