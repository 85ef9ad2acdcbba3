package transport

import (
	"net/mail"
	"strings"
	"time"
)

const minPasswordLength = 6

// FieldError describes a single invalid request field. Validation runs once
// at the boundary; the core never sees malformed input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Accepted due-date layouts: date-only values and full RFC 3339 timestamps.
var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDueDate parses a due-date string in any accepted layout.
func ParseDueDate(value string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ValidateCreateUser checks the registration payload.
func ValidateCreateUser(req CreateUserRequest) []FieldError {
	var errs []FieldError
	if !validEmail(req.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, FieldError{Field: "fullname", Message: "must not be empty"})
	}
	if len(req.Password) < minPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	return errs
}

// ValidateLogin checks the sign-in payload.
func ValidateLogin(req LoginRequest) []FieldError {
	var errs []FieldError
	if !validEmail(req.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "must not be empty"})
	}
	return errs
}

// ValidateCreateTask checks the task creation payload.
func ValidateCreateTask(req CreateTaskRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.DueDate != "" {
		if _, ok := ParseDueDate(req.DueDate); !ok {
			errs = append(errs, FieldError{Field: "due_date", Message: "must be a valid date"})
		}
	}
	return errs
}

// ValidateUpdateTask checks a partial task update. Absent fields are valid
// by definition; present fields must hold well-formed values, so an empty
// due_date string is rejected rather than ignored.
func ValidateUpdateTask(req UpdateTaskRequest) []FieldError {
	var errs []FieldError
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.DueDate != nil {
		if _, ok := ParseDueDate(*req.DueDate); !ok {
			errs = append(errs, FieldError{Field: "due_date", Message: "must be a valid date"})
		}
	}
	return errs
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
