package services

import (
	"errors"
	"testing"

	"github.com/varsityrank/api/model"
)

func verifiedStudent(universityID, branchID uint) *model.User {
	return &model.User{
		ID:              1,
		Role:            model.RoleVerifiedStudent,
		IsEmailVerified: true,
		Affiliations: []model.UniversityAffiliation{
			{UserID: 1, UniversityID: universityID, BranchID: branchID, IsVerified: true},
		},
	}
}

func TestCanSubmitReview(t *testing.T) {
	t.Run("verified student with verified affiliation passes", func(t *testing.T) {
		if err := CanSubmitReview(verifiedStudent(10, 20), 10); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("unverified account email fails first", func(t *testing.T) {
		user := verifiedStudent(10, 20)
		user.IsEmailVerified = false
		if err := CanSubmitReview(user, 10); !errors.Is(err, ErrEmailNotVerified) {
			t.Errorf("expected ErrEmailNotVerified, got %v", err)
		}
	})

	t.Run("admins cannot review", func(t *testing.T) {
		user := verifiedStudent(10, 20)
		user.Role = model.RoleAdmin
		if err := CanSubmitReview(user, 10); !errors.Is(err, ErrAdminCannotReview) {
			t.Errorf("expected ErrAdminCannotReview, got %v", err)
		}
	})

	t.Run("no affiliation to the university fails", func(t *testing.T) {
		if err := CanSubmitReview(verifiedStudent(10, 20), 99); !errors.Is(err, ErrNoVerifiedAffiliation) {
			t.Errorf("expected ErrNoVerifiedAffiliation, got %v", err)
		}
	})

	t.Run("unverified affiliation fails", func(t *testing.T) {
		user := verifiedStudent(10, 20)
		user.Affiliations[0].IsVerified = false
		if err := CanSubmitReview(user, 10); !errors.Is(err, ErrNoVerifiedAffiliation) {
			t.Errorf("expected ErrNoVerifiedAffiliation, got %v", err)
		}
	})
}

func TestCanAccessBranchForum(t *testing.T) {
	t.Run("verified member of the branch passes", func(t *testing.T) {
		if err := CanAccessBranchForum(verifiedStudent(10, 20), 20); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non member is rejected", func(t *testing.T) {
		if err := CanAccessBranchForum(verifiedStudent(10, 20), 21); !errors.Is(err, ErrNoBranchAccess) {
			t.Errorf("expected ErrNoBranchAccess, got %v", err)
		}
	})

	t.Run("unverified affiliation does not grant access", func(t *testing.T) {
		user := verifiedStudent(10, 20)
		user.Affiliations[0].IsVerified = false
		if err := CanAccessBranchForum(user, 20); !errors.Is(err, ErrNoBranchAccess) {
			t.Errorf("expected ErrNoBranchAccess, got %v", err)
		}
	})

	t.Run("access appears once the affiliation is verified", func(t *testing.T) {
		user := verifiedStudent(10, 20)
		user.Affiliations[0].IsVerified = false
		if err := CanAccessBranchForum(user, 20); err == nil {
			t.Fatal("expected rejection before verification")
		}
		user.Affiliations[0].IsVerified = true
		if err := CanAccessBranchForum(user, 20); err != nil {
			t.Errorf("expected access after verification, got %v", err)
		}
	})

	t.Run("admins bypass membership", func(t *testing.T) {
		admin := &model.User{ID: 2, Role: model.RoleAdmin, IsEmailVerified: true}
		if err := CanAccessBranchForum(admin, 20); err != nil {
			t.Errorf("expected admin bypass, got %v", err)
		}
	})
}
