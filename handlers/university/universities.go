package university

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/response"
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

type CreateUniversityRequest struct {
	Name        string                `json:"name" validate:"required,min=2,max=255"`
	Description string                `json:"description"`
	Website     string                `json:"website" validate:"omitempty,url"`
	EmailDomain string                `json:"email_domain"`
	Branches    []CreateBranchRequest `json:"branches" validate:"omitempty,dive"`
}

type UpdateUniversityRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Description string `json:"description"`
	Website     string `json:"website" validate:"omitempty,url"`
	EmailDomain string `json:"email_domain"`
}

// sortColumns whitelists client-supplied sort keys.
var sortColumns = map[string]string{
	"name":           "name",
	"overall_rating": "overall_rating",
	"created_at":     "created_at",
}

// ListUniversities handles GET /api/v1/universities with optional name search,
// sorting and pagination.
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.University{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	sortBy := "overall_rating"
	if col, ok := sortColumns[c.Query("sort_by")]; ok {
		sortBy = col
	}
	order := "DESC"
	if strings.EqualFold(c.Query("order"), "asc") {
		order = "ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count universities")
	}

	pagination := response.CalculatePagination(page, limit, total)

	var universities []model.University
	if err := query.Order(sortBy + " " + order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.Paginated(c, universities, pagination)
}

// ListUniversityNames handles GET /api/v1/universities/names, an id and name
// listing for dropdowns.
func (h *UniversityHandler) ListUniversityNames(c *fiber.Ctx) error {
	type entry struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	var entries []entry
	if err := h.db.Model(&model.University{}).Order("name ASC").Find(&entries).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}
	return response.Success(c, entries)
}

// GetUniversity handles GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var university model.University
	if err := h.db.Preload("Branches").Preload("Reviews.User").Preload("Reviews.Responses").First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	return response.Success(c, university)
}

// CreateUniversity handles POST /api/v1/universities. Admin only. Branches may
// be supplied inline.
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	name := validation.SanitizeString(req.Name)
	var count int64
	h.db.Model(&model.University{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return response.Conflict(c, "University with this name already exists")
	}

	university := model.University{
		Name:        name,
		Description: validation.SanitizeString(req.Description),
		Website:     validation.SanitizeString(req.Website),
		EmailDomain: strings.ToLower(validation.SanitizeString(req.EmailDomain)),
	}
	for i := range req.Branches {
		university.Branches = append(university.Branches, branchFromRequest(&req.Branches[i]))
	}

	if err := h.db.Create(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to create university")
	}

	return response.Created(c, university)
}

// UpdateUniversity handles PUT /api/v1/universities/:id. Admin only. Rating
// aggregates are owned by the review pipeline and cannot be written here.
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		name := validation.SanitizeString(req.Name)
		var count int64
		h.db.Model(&model.University{}).Where("name = ? AND id <> ?", name, university.ID).Count(&count)
		if count > 0 {
			return response.Conflict(c, "University with this name already exists")
		}
		updates["name"] = name
	}
	if req.Description != "" {
		updates["description"] = validation.SanitizeString(req.Description)
	}
	if req.Website != "" {
		updates["website"] = validation.SanitizeString(req.Website)
	}
	if req.EmailDomain != "" {
		updates["email_domain"] = strings.ToLower(validation.SanitizeString(req.EmailDomain))
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.db.Model(&university).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update university")
	}

	return response.SuccessWithMessage(c, "University updated successfully", university)
}

// GetStudentsByUniversity handles GET /api/v1/universities/:id/students,
// listing users holding a verified affiliation to any branch of the
// university. Admin only.
func (h *UniversityHandler) GetStudentsByUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid university id")
	}

	var count int64
	h.db.Model(&model.University{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NotFound(c, "University not found")
	}

	var students []model.User
	if err := h.db.
		Joins("JOIN university_affiliations ON university_affiliations.user_id = users.id").
		Where("university_affiliations.university_id = ? AND university_affiliations.is_verified = ?", id, true).
		Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	return response.Success(c, students)
}
