package validator

type RegisterRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=100,username"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	HackerName *string `json:"hacker_name" validate:"omitempty,max=100"`
}

// UpdateProfileRequest only touches the fields that are set
type UpdateProfileRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	HackerName *string `json:"hacker_name" validate:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type CreateTreeRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	Category     string `json:"category" validate:"required,max=100"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

type CreateNodeRequest struct {
	TreeID                 uint   `json:"tree_id" validate:"required"`
	Level                  int    `json:"level" validate:"required,min=1"`
	Title                  string `json:"title" validate:"required,min=1,max=200"`
	Description            string `json:"description" validate:"max=2000"`
	SubmissionRequirements string `json:"submission_requirements" validate:"max=2000"`
	Points                 int    `json:"points" validate:"min=0,max=1000"`
}

type SubmitRequest struct {
	Link     string `json:"link" validate:"omitempty,max=2048"`
	FileRef  string `json:"file_ref" validate:"omitempty,max=512"`
	FileName string `json:"file_name" validate:"omitempty,max=255"`
	Notes    string `json:"notes" validate:"max=5000"`
}

type ReviewRequest struct {
	Notes        string `json:"notes" validate:"max=5000"`
	TargetStatus string `json:"target_status" validate:"review_status"`
}
