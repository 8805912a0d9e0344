package tasks

import (
	"strings"
	"unicode/utf8"

	domain "github.com/example/todo-api-demo/domain/task"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 1000
)

// validateTitle checks a title after trimming surrounding whitespace and
// returns the trimmed value alongside any violations.
func validateTitle(title string) (string, []FieldViolation) {
	trimmed := strings.TrimSpace(title)

	var violations []FieldViolation
	if trimmed == "" {
		violations = append(violations, FieldViolation{
			Field:   "title",
			Message: "Title cannot be empty or whitespace only",
		})
	} else if utf8.RuneCountInString(trimmed) > maxTitleLength {
		violations = append(violations, FieldViolation{
			Field:   "title",
			Message: "Title must be between 1 and 255 characters",
		})
	}

	return trimmed, violations
}

// validateDescription checks an optional description.
func validateDescription(description *string) []FieldViolation {
	if description == nil {
		return nil
	}
	if utf8.RuneCountInString(*description) > maxDescriptionLength {
		return []FieldViolation{{
			Field:   "description",
			Message: "Description must be less than 1000 characters",
		}}
	}
	return nil
}

// validateCreate checks a creation payload, collecting every violation
// rather than stopping at the first. The returned title is trimmed and is
// the value to persist.
func validateCreate(req *CreateTaskRequest) (string, []FieldViolation) {
	title, violations := validateTitle(req.Title)
	violations = append(violations, validateDescription(req.Description)...)
	return title, violations
}

// validateUpdate checks an update payload. Only supplied fields are
// considered. The returned title (if non-nil) is the trimmed replacement.
func validateUpdate(req *UpdateTaskRequest) (*string, []FieldViolation) {
	var violations []FieldViolation
	var title *string

	if req.Title != nil {
		trimmed, titleViolations := validateTitle(*req.Title)
		violations = append(violations, titleViolations...)
		title = &trimmed
	}

	violations = append(violations, validateDescription(req.Description)...)

	if req.Status != nil && !domain.Status(*req.Status).IsValid() {
		violations = append(violations, FieldViolation{
			Field:   "status",
			Message: "Status must be either 'pending' or 'completed'",
		})
	}

	return title, violations
}
