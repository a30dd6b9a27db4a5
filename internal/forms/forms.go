// Package forms validates sign-in and sign-up input before any identity provider call.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/worlder/internal/shared"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength matches the identity provider's own policy.
const MinPasswordLength = 6

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterAlias("pwd", fmt.Sprintf("min=%d", MinPasswordLength))
	})
	return validate
}

// LoginForm is the email/password sign-in input.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (f LoginForm) Validate() error { return Validate(f) }

// RegisterForm is the account creation input.
type RegisterForm struct {
	DisplayName string `form:"name" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required,pwd"`
}

func (f RegisterForm) Validate() error { return Validate(f) }

// ValidationError maps form field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return fmt.Sprintf("%v: %s", shared.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

// Validate checks form against its validate tags, trimming nothing.
func Validate(form any) error {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = formatFieldError(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "pwd":
		return fmt.Sprintf("must be at least %d characters long", MinPasswordLength)
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}
