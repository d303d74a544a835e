package services

import (
	"errors"

	"github.com/varsityrank/api/model"
)

// Gate failures carry distinct reasons so callers can tell them apart.
var (
	ErrEmailNotVerified      = errors.New("please verify your email before leaving a review")
	ErrAdminCannotReview     = errors.New("admins cannot review universities")
	ErrNoVerifiedAffiliation = errors.New("please verify your school email for this university before leaving a review")
	ErrNoBranchAccess        = errors.New("you do not have access to this thread")
)

// CanSubmitReview gates review submission: the caller needs a verified account
// email, must not be an admin, and must hold a verified affiliation to the
// university being reviewed. Affiliations must be preloaded on the user.
func CanSubmitReview(user *model.User, universityID uint) error {
	if !user.IsEmailVerified {
		return ErrEmailNotVerified
	}
	if user.Role == model.RoleAdmin {
		return ErrAdminCannotReview
	}
	aff := user.AffiliationFor(universityID)
	if aff == nil || !aff.IsVerified {
		return ErrNoVerifiedAffiliation
	}
	return nil
}

// CanAccessBranchForum gates forum reads and posts: the thread's owning branch
// must appear among the caller's verified affiliations. Admins bypass the
// membership check so they can moderate the threads they create.
func CanAccessBranchForum(user *model.User, branchID uint) error {
	if user.Role == model.RoleAdmin {
		return nil
	}
	if !user.HasVerifiedBranch(branchID) {
		return ErrNoBranchAccess
	}
	return nil
}
