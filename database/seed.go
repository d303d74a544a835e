package database

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"
	"github.com/varsityrank/api/model"
	"github.com/varsityrank/api/utils/auth"
	"gorm.io/gorm"
)

// RunSeeds populates an empty database with an admin account and a small
// university catalog. Seeding is idempotent; existing rows are left alone.
func RunSeeds(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}
	return seedUniversities(db)
}

// seedAdminUser creates the admin account from ADMIN_EMAIL and ADMIN_PASSWORD.
// Skipped when either variable is unset.
func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username:        "admin",
		Email:           email,
		PasswordHash:    hash,
		Role:            model.RoleAdmin,
		IsEmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Created admin user %s", email)
	return nil
}

func seedUniversities(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Universities already seeded (%d found), skipping", count)
		return nil
	}

	universities := []model.University{
		{
			Name:        "Northfield University",
			Description: "A research university with strong engineering and science programs.",
			Website:     "https://northfield.example.edu",
			EmailDomain: "northfield.example.edu",
			Branches: []model.Branch{
				{
					Name:            "Main Campus",
					Location:        "Northfield",
					ProgramsOffered: pq.StringArray{"Computer Science", "Mechanical Engineering", "Physics"},
				},
				{
					Name:            "Downtown Campus",
					Location:        "Northfield City Center",
					ProgramsOffered: pq.StringArray{"Business Administration", "Economics"},
				},
			},
		},
		{
			Name:        "Lakeview College",
			Description: "A liberal arts college known for small classes and student life.",
			Website:     "https://lakeview.example.edu",
			EmailDomain: "lakeview.example.edu",
			Branches: []model.Branch{
				{
					Name:            "Lakeside Campus",
					Location:        "Lakeview",
					ProgramsOffered: pq.StringArray{"Literature", "History", "Psychology"},
				},
			},
		},
	}

	for i := range universities {
		if err := db.Create(&universities[i]).Error; err != nil {
			return fmt.Errorf("failed to seed university %s: %w", universities[i].Name, err)
		}
		log.Printf("Seeded university %s with %d branches", universities[i].Name, len(universities[i].Branches))
	}

	return nil
}
