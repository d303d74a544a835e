package university

import (
	"github.com/varsityrank/api/utils/validation"
	"gorm.io/gorm"
)

// UniversityHandler serves the university and branch catalog
type UniversityHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB) *UniversityHandler {
	return &UniversityHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}
