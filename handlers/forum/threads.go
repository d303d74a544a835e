package forum

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/services"
	"github.com/varsityrank/api/utils/middleware"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type CreateThreadRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	BranchID uint   `json:"branch_id" validate:"required"`
}

type UpdateThreadRequest struct {
	Title   string `json:"title" validate:"omitempty,min=3,max=255"`
	Content string `json:"content" validate:"omitempty,min=1"`
}

// ListThreads handles GET /api/v1/forum/threads, scoped to the branches the
// caller holds a verified affiliation with. Admins see every thread.
func (h *ForumHandler) ListThreads(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	query := h.db.Model(&model.ForumThread{}).
		Preload("Author").Preload("Branch").
		Order("created_at DESC")

	if user.Role != model.RoleAdmin {
		branchIDs := user.VerifiedBranchIDs()
		if len(branchIDs) == 0 {
			return response.Success(c, []model.ForumThread{})
		}
		query = query.Where("branch_id IN ?", branchIDs)
	}

	var threads []model.ForumThread
	if err := query.Find(&threads).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch threads")
	}

	return response.Success(c, threads)
}

// GetThread handles GET /api/v1/forum/threads/:id. Membership in the thread's
// branch is required.
func (h *ForumHandler) GetThread(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid thread id")
	}

	var thread model.ForumThread
	if err := h.db.Preload("Author").Preload("Branch").First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Thread not found")
		}
		return response.InternalServerError(c, "Failed to fetch thread")
	}

	if err := services.CanAccessBranchForum(user, thread.BranchID); err != nil {
		return response.Forbidden(c, err.Error())
	}

	return response.Success(c, thread)
}

// CreateThread handles POST /api/v1/forum/threads. Admin only.
func (h *ForumHandler) CreateThread(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var count int64
	h.db.Model(&model.Branch{}).Where("id = ?", req.BranchID).Count(&count)
	if count == 0 {
		return response.NotFound(c, "Branch not found")
	}

	thread := model.ForumThread{
		Title:    validation.SanitizeString(req.Title),
		Content:  validation.SanitizeString(req.Content),
		BranchID: req.BranchID,
		AuthorID: user.ID,
	}
	if err := h.db.Create(&thread).Error; err != nil {
		return response.InternalServerError(c, "Failed to create thread")
	}

	return response.Created(c, thread)
}

// UpdateThread handles PUT /api/v1/forum/threads/:id. Admin only.
func (h *ForumHandler) UpdateThread(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid thread id")
	}

	var req UpdateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var thread model.ForumThread
	if err := h.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Thread not found")
		}
		return response.InternalServerError(c, "Failed to fetch thread")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = validation.SanitizeString(req.Title)
	}
	if req.Content != "" {
		updates["content"] = validation.SanitizeString(req.Content)
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.db.Model(&thread).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update thread")
	}

	return response.SuccessWithMessage(c, "Thread updated successfully", thread)
}

// DeleteThread handles DELETE /api/v1/forum/threads/:id, removing the thread
// with all its posts and votes. Admin only.
func (h *ForumHandler) DeleteThread(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid thread id")
	}

	var thread model.ForumThread
	if err := h.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Thread not found")
		}
		return response.InternalServerError(c, "Failed to fetch thread")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN (SELECT id FROM forum_posts WHERE thread_id = ?)", thread.ID).
			Delete(&model.ForumPostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", thread.ID).Delete(&model.ForumPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&thread).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete thread")
	}

	return response.SuccessWithMessage(c, "Thread deleted successfully", nil)
}
