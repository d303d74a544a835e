package model

import (
	"testing"
	"time"
)

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	t.Run("nil expiry counts as expired", func(t *testing.T) {
		if !TokenExpired(nil, now) {
			t.Error("expected nil expiry to be expired")
		}
	})

	t.Run("future expiry is valid", func(t *testing.T) {
		expires := now.Add(time.Second)
		if TokenExpired(&expires, now) {
			t.Error("expected future expiry to be valid")
		}
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		expires := now.Add(-time.Second)
		if !TokenExpired(&expires, now) {
			t.Error("expected past expiry to be expired")
		}
	})

	t.Run("one hour window boundaries", func(t *testing.T) {
		issued := now
		expires := issued.Add(VerificationTokenTTL)
		if TokenExpired(&expires, issued.Add(59*time.Minute+59*time.Second)) {
			t.Error("token should still be valid just inside the window")
		}
		if !TokenExpired(&expires, issued.Add(time.Hour+time.Second)) {
			t.Error("token should be expired just past the window")
		}
	})
}

func TestEmailVerificationTokenLifecycle(t *testing.T) {
	var user User

	token := user.GenerateEmailVerificationToken()
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.EmailVerificationToken != token {
		t.Error("token not stored on the user")
	}
	if user.EmailVerificationExpires == nil {
		t.Fatal("expected expiry to be set")
	}
	if TokenExpired(user.EmailVerificationExpires, time.Now()) {
		t.Error("fresh token should not be expired")
	}

	second := user.GenerateEmailVerificationToken()
	if second == token {
		t.Error("regenerating must replace the token")
	}

	user.ClearEmailVerificationToken()
	if user.EmailVerificationToken != "" || user.EmailVerificationExpires != nil {
		t.Error("cleared token must not linger")
	}
	if !TokenExpired(user.EmailVerificationExpires, time.Now()) {
		t.Error("cleared token must count as expired")
	}
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	var user User

	token := user.GeneratePasswordResetToken()
	if token == "" || user.PasswordResetToken != token {
		t.Fatal("expected reset token to be issued and stored")
	}

	user.ClearPasswordResetToken()
	if user.PasswordResetToken != "" || user.PasswordResetExpires != nil {
		t.Error("cleared reset token must not linger")
	}
}

func TestVerifiedBranchHelpers(t *testing.T) {
	user := User{
		Affiliations: []UniversityAffiliation{
			{UniversityID: 1, BranchID: 10, IsVerified: true},
			{UniversityID: 2, BranchID: 20, IsVerified: false},
			{UniversityID: 3, BranchID: 30, IsVerified: true},
		},
	}

	t.Run("VerifiedBranchIDs skips unverified", func(t *testing.T) {
		ids := user.VerifiedBranchIDs()
		if len(ids) != 2 || ids[0] != 10 || ids[1] != 30 {
			t.Errorf("unexpected branch ids: %v", ids)
		}
	})

	t.Run("HasVerifiedBranch", func(t *testing.T) {
		if !user.HasVerifiedBranch(10) {
			t.Error("expected verified branch 10")
		}
		if user.HasVerifiedBranch(20) {
			t.Error("branch 20 is not verified")
		}
		if user.HasVerifiedBranch(99) {
			t.Error("branch 99 does not exist")
		}
	})

	t.Run("AffiliationFor", func(t *testing.T) {
		if aff := user.AffiliationFor(2); aff == nil || aff.BranchID != 20 {
			t.Error("expected affiliation for university 2")
		}
		if aff := user.AffiliationFor(99); aff != nil {
			t.Error("expected nil for unknown university")
		}
	})
}
