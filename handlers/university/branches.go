package university

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type CreateBranchRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=255"`
	Location        string   `json:"location" validate:"required,min=2,max=255"`
	Contact         string   `json:"contact"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Website         string   `json:"website" validate:"omitempty,url"`
	Description     string   `json:"description"`
	ProgramsOffered []string `json:"programs_offered"`
	ImageGallery    []string `json:"image_gallery"`
}

type UpdateBranchRequest struct {
	Name            string   `json:"name" validate:"omitempty,min=2,max=255"`
	Location        string   `json:"location" validate:"omitempty,min=2,max=255"`
	Contact         string   `json:"contact"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Website         string   `json:"website" validate:"omitempty,url"`
	Description     string   `json:"description"`
	ProgramsOffered []string `json:"programs_offered"`
}

type AddBranchImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

func branchFromRequest(req *CreateBranchRequest) model.Branch {
	return model.Branch{
		Name:            validation.SanitizeString(req.Name),
		Location:        validation.SanitizeString(req.Location),
		Contact:         validation.SanitizeString(req.Contact),
		Email:           validation.SanitizeString(req.Email),
		Website:         validation.SanitizeString(req.Website),
		Description:     validation.SanitizeString(req.Description),
		ProgramsOffered: pq.StringArray(req.ProgramsOffered),
		ImageGallery:    pq.StringArray(req.ImageGallery),
	}
}

// ListBranchesByUniversity handles GET /api/v1/universities/:id/branches
func (h *UniversityHandler) ListBranchesByUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var count int64
	h.db.Model(&model.University{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NotFound(c, "University not found")
	}

	var branches []model.Branch
	if err := h.db.Where("university_id = ?", id).Order("name ASC").Find(&branches).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch branches")
	}

	return response.Success(c, branches)
}

// GetBranch handles GET /api/v1/branches/:id
func (h *UniversityHandler) GetBranch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid branch id")
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	return response.Success(c, branch)
}

// GetBranchPrograms handles GET /api/v1/branches/:id/programs
func (h *UniversityHandler) GetBranchPrograms(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid branch id")
	}

	var branch model.Branch
	if err := h.db.Select("id", "programs_offered").First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	programs := []string(branch.ProgramsOffered)
	if programs == nil {
		programs = []string{}
	}
	return response.Success(c, fiber.Map{"programs_offered": programs})
}

// AddBranch handles POST /api/v1/universities/:id/branches. Admin only.
func (h *UniversityHandler) AddBranch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var req CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var count int64
	h.db.Model(&model.University{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NotFound(c, "University not found")
	}

	branch := branchFromRequest(&req)
	branch.UniversityID = uint(id)

	if err := h.db.Create(&branch).Error; err != nil {
		return response.InternalServerError(c, "Failed to create branch")
	}

	return response.Created(c, branch)
}

// UpdateBranch handles PUT /api/v1/branches/:id. Admin only. Rating
// aggregates cannot be written here.
func (h *UniversityHandler) UpdateBranch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid branch id")
	}

	var req UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = validation.SanitizeString(req.Name)
	}
	if req.Location != "" {
		updates["location"] = validation.SanitizeString(req.Location)
	}
	if req.Contact != "" {
		updates["contact"] = validation.SanitizeString(req.Contact)
	}
	if req.Email != "" {
		updates["email"] = validation.SanitizeString(req.Email)
	}
	if req.Website != "" {
		updates["website"] = validation.SanitizeString(req.Website)
	}
	if req.Description != "" {
		updates["description"] = validation.SanitizeString(req.Description)
	}
	if req.ProgramsOffered != nil {
		updates["programs_offered"] = pq.StringArray(req.ProgramsOffered)
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.db.Model(&branch).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update branch")
	}

	return response.SuccessWithMessage(c, "Branch updated successfully", branch)
}

// AddBranchImage handles POST /api/v1/branches/:id/images, appending one URL
// to the branch gallery. Admin only.
func (h *UniversityHandler) AddBranchImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid branch id")
	}

	var req AddBranchImageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	branch.ImageGallery = append(branch.ImageGallery, req.ImageURL)
	if err := h.db.Model(&branch).Update("image_gallery", branch.ImageGallery).Error; err != nil {
		return response.InternalServerError(c, "Failed to update branch")
	}

	return response.SuccessWithMessage(c, "Image added to gallery", branch)
}
