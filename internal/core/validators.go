package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/profileform/internal/backend/database"
	"github.com/jo-hoe/profileform/internal/common"
)

// ValidationError is a rejected submission field together with the message shown to the user
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var acceptedDateLayouts = []string{"2006-01-02", time.RFC3339}

// fieldMessages maps <struct field>.<validator tag> to user-facing messages
var fieldMessages = map[string]*ValidationError{
	"Name.required":     {"name", "Name is required"},
	"Name.min":          {"name", "Name must be at least 2 characters long"},
	"Name.max":          {"name", "Name cannot exceed 50 characters"},
	"Age.min":           {"age", "Age must be at least 1"},
	"Age.max":           {"age", "Age cannot exceed 120"},
	"Email.required":    {"email", "Email is required"},
	"Email.simpleemail": {"email", "Please provide a valid email address"},
	"Date.required":     {"date", "Date is required"},
}

// newSubmission parses and normalizes the text fields of a form
func newSubmission(form SubmissionForm) (*database.Submission, error) {
	ageText := strings.TrimSpace(form.Age)
	if ageText == "" {
		return nil, &ValidationError{"age", "Age is required"}
	}
	age, err := strconv.Atoi(ageText)
	if err != nil {
		return nil, &ValidationError{"age", "Age must be a number"}
	}

	dateText := strings.TrimSpace(form.Date)
	if dateText == "" {
		return nil, &ValidationError{"date", "Date is required"}
	}
	date, ok := parseDate(dateText)
	if !ok {
		return nil, &ValidationError{"date", "Date must be a valid date"}
	}

	return &database.Submission{
		Name:  strings.TrimSpace(form.Name),
		Age:   age,
		Email: database.NormalizeEmail(form.Email),
		Date:  date,
	}, nil
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validateSubmission reports the first failing field of a submission
func validateSubmission(v *validator.Validate, submission *database.Submission) error {
	err := v.Struct(submission)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	first := fieldErrors[0]
	if known, ok := fieldMessages[first.StructField()+"."+first.Tag()]; ok {
		return &ValidationError{Field: known.Field, Message: known.Message}
	}
	return &ValidationError{
		Field:   strings.ToLower(first.Field()),
		Message: fmt.Sprintf("%s is invalid", first.StructField()),
	}
}

func newSubmissionValidator() *validator.Validate {
	return common.NewValidator()
}
