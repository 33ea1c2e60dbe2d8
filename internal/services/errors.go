package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

// Error kinds. Every error returned by a service matches exactly one of
// these with errors.Is, so callers can map them to response codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPartialFailure   = errors.New("partial failure")
)

var errorKinds = []error{
	ErrNotFound,
	ErrConflict,
	ErrValidationFailed,
	ErrForbidden,
	ErrUnauthorized,
	ErrPartialFailure,
}

// ServiceError carries a kind, a stable code and, when wrapped, the
// operation and underlying cause
type ServiceError struct {
	Kind    error
	Code    string
	Message string
	Op      string
	Cause   error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Is matches another ServiceError by code so wrapped copies of a sentinel
// still compare equal to it
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// Wrap returns a copy annotated with the failing operation and cause
func (e *ServiceError) Wrap(op string, cause error) *ServiceError {
	return &ServiceError{Kind: e.Kind, Code: e.Code, Message: e.Message, Op: op, Cause: cause}
}

func newServiceError(kind error, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

// Domain errors
var (
	ErrInvalidCredentials = newServiceError(ErrUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")

	ErrUserNotFound     = newServiceError(ErrNotFound, "USER_NOT_FOUND", "user not found")
	ErrTreeNotFound     = newServiceError(ErrNotFound, "TREE_NOT_FOUND", "skill tree not found")
	ErrNodeNotFound     = newServiceError(ErrNotFound, "NODE_NOT_FOUND", "skill node not found")
	ErrProgressNotFound = newServiceError(ErrNotFound, "PROGRESS_NOT_FOUND", "progress record not found")
	ErrRequestNotFound  = newServiceError(ErrNotFound, "REQUEST_NOT_FOUND", "no pending promotion request with that id")

	ErrInvalidRole         = newServiceError(ErrValidationFailed, "INVALID_ROLE", "role must be student, instructor or admin")
	ErrInvalidSubmission   = newServiceError(ErrValidationFailed, "INVALID_SUBMISSION", "submission requires a link or notes")
	ErrMissingReviewNotes  = newServiceError(ErrValidationFailed, "MISSING_REVIEW_NOTES", "review notes are required")
	ErrInvalidReviewStatus = newServiceError(ErrValidationFailed, "INVALID_REVIEW_STATUS", "review status must be reviewed, completed or in_progress")

	ErrSelfRoleChange                 = newServiceError(ErrForbidden, "SELF_ROLE_CHANGE", "cannot change your own role")
	ErrAdminPromotionRequiresWorkflow = newServiceError(ErrForbidden, "ADMIN_PROMOTION_REQUIRES_WORKFLOW", "admin role can only be granted through a promotion request")
	ErrSelfApprovalForbidden          = newServiceError(ErrForbidden, "SELF_APPROVAL_FORBIDDEN", "a promotion must be resolved by a different admin")
	ErrSelfReview                     = newServiceError(ErrForbidden, "SELF_REVIEW", "cannot review your own submission")
	ErrAdminRequired                  = newServiceError(ErrForbidden, "ADMIN_REQUIRED", "admin role required")
	ErrReviewerRequired               = newServiceError(ErrForbidden, "REVIEWER_REQUIRED", "instructor or admin role required")

	ErrAlreadyAdmin            = newServiceError(ErrConflict, "ALREADY_ADMIN", "user is already an admin")
	ErrDuplicatePendingRequest = newServiceError(ErrConflict, "DUPLICATE_PENDING_REQUEST", "a pending promotion already exists for this user")
	ErrDuplicateUser           = newServiceError(ErrConflict, "DUPLICATE_USER", "username or email already in use")
	ErrDuplicateTree           = newServiceError(ErrConflict, "DUPLICATE_TREE", "a skill tree with that name already exists")

	ErrPromotionRoleUpdate = newServiceError(ErrPartialFailure, "PROMOTION_ROLE_UPDATE_FAILED", "promotion was not applied because the role update failed")
)

// KindOf returns the kind sentinel matched by err, or nil for unclassified errors
func KindOf(err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ValidationError wraps field errors from the request validator
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), e.Errors.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func newValidationError(errs validator.ValidationErrors) error {
	return &ValidationError{Errors: errs}
}

// isRecordNotFound and isDuplicateKey classify repository errors
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
