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

type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1"`
	ParentID *uint  `json:"parent_id"`
}

type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type VoteRequest struct {
	Direction string `json:"direction" validate:"required"`
}

// threadForMember loads a thread and checks the caller's branch membership,
// returning the response error for the caller to pass back up.
func (h *ForumHandler) threadForMember(c *fiber.Ctx, user *model.User, threadID int) (*model.ForumThread, error) {
	var thread model.ForumThread
	if err := h.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "Thread not found")
		}
		return nil, response.InternalServerError(c, "Failed to fetch thread")
	}
	if err := services.CanAccessBranchForum(user, thread.BranchID); err != nil {
		return nil, response.Forbidden(c, err.Error())
	}
	return &thread, nil
}

// GetPostsForThread handles GET /api/v1/forum/threads/:id/posts, returning the
// thread's posts as a nested reply tree.
func (h *ForumHandler) GetPostsForThread(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid thread id")
	}

	thread, err := h.threadForMember(c, user, id)
	if err != nil {
		return err
	}

	tree, err := h.forumService.PostTreeForThread(thread.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch posts")
	}

	return response.Success(c, tree)
}

// CreatePost handles POST /api/v1/forum/threads/:id/posts. A parent id, when
// given, must name a post in the same thread.
func (h *ForumHandler) CreatePost(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid thread id")
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	thread, err := h.threadForMember(c, user, id)
	if err != nil {
		return err
	}

	if req.ParentID != nil {
		var count int64
		h.db.Model(&model.ForumPost{}).
			Where("id = ? AND thread_id = ?", *req.ParentID, thread.ID).
			Count(&count)
		if count == 0 {
			return response.BadRequest(c, "Parent post does not belong to this thread")
		}
	}

	post := model.ForumPost{
		ThreadID: thread.ID,
		Content:  validation.SanitizeString(req.Content),
		AuthorID: user.ID,
		ParentID: req.ParentID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to create post")
	}

	return response.Created(c, post)
}

// UpdatePost handles PUT /api/v1/forum/posts/:id. Only the author or an admin
// may edit.
func (h *ForumHandler) UpdatePost(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid post id")
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var post model.ForumPost
	if err := h.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	if post.AuthorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You can only edit your own posts")
	}

	if err := h.db.Model(&post).Update("content", validation.SanitizeString(req.Content)).Error; err != nil {
		return response.InternalServerError(c, "Failed to update post")
	}

	return response.SuccessWithMessage(c, "Post updated successfully", post)
}

// DeletePost handles DELETE /api/v1/forum/posts/:id, removing the post, its
// direct replies and all their votes. Only the author or an admin may delete.
func (h *ForumHandler) DeletePost(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid post id")
	}

	var post model.ForumPost
	if err := h.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	if post.AuthorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You can only delete your own posts")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ? OR post_id IN (SELECT id FROM forum_posts WHERE parent_id = ?)", post.ID, post.ID).
			Delete(&model.ForumPostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", post.ID).Delete(&model.ForumPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete post")
	}

	return response.SuccessWithMessage(c, "Post deleted successfully", nil)
}

// VotePost handles POST /api/v1/forum/posts/:id/vote
func (h *ForumHandler) VotePost(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid post id")
	}

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var post model.ForumPost
	if err := h.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	var thread model.ForumThread
	if err := h.db.First(&thread, post.ThreadID).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch thread")
	}
	if err := services.CanAccessBranchForum(user, thread.BranchID); err != nil {
		return response.Forbidden(c, err.Error())
	}

	voted, err := h.forumService.Vote(post.ID, user.ID, req.Direction)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrAlreadyVoted):
			return response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrPostNotFound):
			return response.NotFound(c, "Post not found")
		default:
			return response.InternalServerError(c, "Failed to record vote")
		}
	}

	return response.SuccessWithMessage(c, "Vote recorded", fiber.Map{
		"id":           voted.ID,
		"upvotes":      voted.Upvotes,
		"downvotes":    voted.Downvotes,
		"upvoted_by":   voted.VotersFor(model.VoteUp),
		"downvoted_by": voted.VotersFor(model.VoteDown),
	})
}
