package review

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/varsityrank/api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sslMode := os.Getenv("DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.University{},
		&model.Branch{},
		&model.Review{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func TestUpsertReviewIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	db := openTestDB(t)

	user := model.User{Username: "review-it-user", Email: "review-it-user@example.edu", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	university := model.University{Name: "Upsert Review University"}
	if err := db.Create(&university).Error; err != nil {
		t.Fatalf("failed to create university: %v", err)
	}
	branch := model.Branch{UniversityID: university.ID, Name: "Main", Location: "Testville"}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("failed to create branch: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&model.Review{})
		db.Unscoped().Delete(&branch)
		db.Unscoped().Delete(&university)
		db.Unscoped().Delete(&user)
	})

	countRows := func() int64 {
		var n int64
		db.Model(&model.Review{}).
			Where("user_id = ? AND university_id = ? AND branch_id = ?", user.ID, university.ID, branch.ID).
			Count(&n)
		return n
	}

	first := model.Review{
		UserID: user.ID, UniversityID: university.ID, BranchID: branch.ID,
		AcademicRating: 8, FacilitiesRating: 7, SocialLifeRating: 9, CareerProspectsRating: 6,
		CostOfLiving: 1200, Comment: "first impression", Date: time.Now(),
	}
	first.OverallRating = first.ComputeOverall()

	t.Run("first submission inserts", func(t *testing.T) {
		if err := upsertReview(db, &first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.ID == 0 {
			t.Error("expected the stored row's id after upsert")
		}
		if n := countRows(); n != 1 {
			t.Fatalf("expected 1 review row, got %d", n)
		}
	})

	t.Run("resubmission updates the same row", func(t *testing.T) {
		second := model.Review{
			UserID: user.ID, UniversityID: university.ID, BranchID: branch.ID,
			AcademicRating: 4, FacilitiesRating: 5, SocialLifeRating: 6, CareerProspectsRating: 5,
			CostOfLiving: 1500, Comment: "revised after a year", Date: time.Now(),
		}
		second.OverallRating = second.ComputeOverall()

		if err := upsertReview(db, &second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := countRows(); n != 1 {
			t.Fatalf("expected the unique key to hold 1 row, got %d", n)
		}
		if second.ID != first.ID {
			t.Errorf("expected the existing row (%d) to be updated, got %d", first.ID, second.ID)
		}

		var stored model.Review
		if err := db.First(&stored, first.ID).Error; err != nil {
			t.Fatalf("failed to reload review: %v", err)
		}
		if stored.AcademicRating != 4 || stored.Comment != "revised after a year" {
			t.Errorf("row not updated in place: %+v", stored)
		}
		if stored.OverallRating != 5.0 {
			t.Errorf("expected overall 5.0, got %f", stored.OverallRating)
		}
	})
}
