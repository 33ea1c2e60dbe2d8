package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validator runs struct tags plus the domain rules registered below
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerBusinessRules()
	return v
}

// Validate validates struct tags on s
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates a registration request
func (v *Validator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	errs := v.Validate(req)

	if req.HackerName != nil && strings.TrimSpace(*req.HackerName) == "" {
		errs = append(errs, ValidationError{
			Field:   "hacker_name",
			Message: "must not be blank when provided",
			Value:   *req.HackerName,
			Rule:    "business_logic",
		})
	}

	return errs
}

// ValidateSubmission validates the bundle fields. The link-or-notes rule is
// enforced by the ledger itself.
func (v *Validator) ValidateSubmission(req *SubmitRequest) ValidationErrors {
	errs := v.Validate(req)

	if req.FileName != "" && req.FileRef == "" {
		errs = append(errs, ValidationError{
			Field:   "file_ref",
			Message: "is required when a file name is given",
			Value:   req.FileName,
			Rule:    "business_logic",
		})
	}

	return errs
}

// ValidateNodeCreate validates a catalog node
func (v *Validator) ValidateNodeCreate(req *CreateNodeRequest) ValidationErrors {
	return v.Validate(req)
}

// ValidateTreeCreate validates a catalog tree
func (v *Validator) ValidateTreeCreate(req *CreateTreeRequest) ValidationErrors {
	errs := v.Validate(req)

	if strings.TrimSpace(req.Name) != req.Name {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "must not have leading or trailing spaces",
			Value:   req.Name,
			Rule:    "business_logic",
		})
	}

	return errs
}

// registerBusinessRules registers custom business rule validators
func (v *Validator) registerBusinessRules() {
	_ = v.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	// empty is allowed and means "reviewed"
	_ = v.validate.RegisterValidation("review_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		return status == "" || models.ProgressStatus(status).IsReviewTarget()
	})
}
