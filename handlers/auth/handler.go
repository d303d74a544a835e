package auth

import (
	"log"
	"time"

	"github.com/varsityrank/api/model"
	authutil "github.com/varsityrank/api/utils/auth"
	"github.com/varsityrank/api/utils/middleware"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication and account-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	emailService         EmailSender
	validator            *validation.Validator
}

// EmailSender is the slice of the email service the auth handlers need.
// Delivery is best-effort: callers log failures and carry on.
type EmailSender interface {
	SendVerificationEmail(toEmail, username, token string, school bool) error
	SendPasswordResetEmail(toEmail, username, token string) error
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, emailService EmailSender) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		emailService:         emailService,
		validator:            validation.NewValidator(),
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID              uint      `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// sendVerificationEmail delivers a verification mail without failing the
// triggering request.
func (h *AuthHandler) sendVerificationEmail(toEmail, username, token string, school bool) {
	if err := h.emailService.SendVerificationEmail(toEmail, username, token, school); err != nil {
		log.Printf("Error sending verification email: %v", err)
	}
}

func (h *AuthHandler) sendPasswordResetEmail(toEmail, username, token string) {
	if err := h.emailService.SendPasswordResetEmail(toEmail, username, token); err != nil {
		log.Printf("Error sending password reset email: %v", err)
	}
}
