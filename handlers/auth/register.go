package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	authutil "github.com/varsityrank/api/utils/auth"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"` // Optional, defaults to "user"
}

// Register handles user registration. The account starts unverified; a
// verification mail goes out best-effort and login stays blocked until the
// token is consumed.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Username = validation.SanitizeString(req.Username)
	req.Email = validation.SanitizeString(req.Email)

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		return response.BadRequest(c, "Invalid role. Must be 'user' or 'admin'")
	}

	// Check if email or username is already taken
	var existingUser model.User
	if err := h.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		return response.Conflict(c, "Email or username is already taken")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		if err == authutil.ErrPasswordTooShort {
			return response.BadRequest(c, "Password must be at least 8 characters long")
		}
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}
	token := user.GenerateEmailVerificationToken()

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	h.sendVerificationEmail(user.Email, user.Username, token, false)

	return response.Created(c, fiber.Map{
		"message": "Registration successful. Please check your email for verification. If not available in your inbox, check spam.",
		"user":    toUserResponse(&user),
	})
}
