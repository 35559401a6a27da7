package common

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

// SimpleEmailTag validates loosely shaped addresses: something@something.something without whitespace
const SimpleEmailTag = "simpleemail"

var simpleEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NewValidator returns a validator with the project's custom tags registered
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(SimpleEmailTag, isSimpleEmail); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", SimpleEmailTag, err))
	}
	return v
}

func isSimpleEmail(fl validator.FieldLevel) bool {
	return simpleEmailPattern.MatchString(fl.Field().String())
}
