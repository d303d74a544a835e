package forum

import (
	"github.com/varsityrank/api/services"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

// ForumHandler serves branch-scoped discussion threads, posts and votes
type ForumHandler struct {
	db           *gorm.DB
	forumService *services.ForumService
	validator    *validation.Validator
}

// NewForumHandler creates a new forum handler
func NewForumHandler(db *gorm.DB, forumService *services.ForumService) *ForumHandler {
	return &ForumHandler{
		db:           db,
		forumService: forumService,
		validator:    validation.NewValidator(),
	}
}
