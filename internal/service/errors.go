package service

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the services wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrAuthentication    = errors.New("authentication failed")
	ErrPermission        = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
	ErrExportUnavailable = errors.New("plan export is not available")
)

// --- Error Definitions ---
var (
	ErrMissingFields       = fmt.Errorf("%w: all fields are required", ErrValidation)
	ErrPasswordMismatch    = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password is too long", ErrValidation)
	ErrEmptyContent        = fmt.Errorf("%w: content cannot be empty", ErrValidation)
	ErrInvalidReactionType = fmt.Errorf("%w: invalid reaction type", ErrValidation)
	ErrInvalidPlan         = fmt.Errorf("%w: plan must be a JSON document", ErrValidation)
	ErrUsernameTaken       = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid username or password", ErrAuthentication)
	ErrLoginRequired       = fmt.Errorf("%w: login required", ErrAuthentication)
	ErrNotPostOwner        = fmt.Errorf("%w: post is not yours", ErrPermission)
	ErrNotCommentOwner     = fmt.Errorf("%w: comment is not yours", ErrPermission)
	ErrPostNotFound        = fmt.Errorf("%w: post not found", ErrNotFound)
	ErrPlanNotFound        = fmt.Errorf("%w: plan not found", ErrNotFound)
)

var categories = []error{
	ErrValidation,
	ErrConflict,
	ErrAuthentication,
	ErrPermission,
	ErrNotFound,
	ErrStorage,
	ErrExportUnavailable,
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// classify leaves categorized errors alone and treats anything else, such as
// a failed commit, as a storage failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, category := range categories {
		if errors.Is(err, category) {
			return err
		}
	}
	return storageError(op, err)
}
