package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// Length rules shared by registration and password change.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 64
	MinPasswordLen = 6
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLen = 72
)

type credentialsInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type passwordInput struct {
	Password string `json:"newPassword" validate:"required,min=6,max=72"`
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// check runs struct validation and converts failures into *apperr.ValidationError.
func check(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			fields[field] = fmt.Sprintf("%s failed validation for %s", field, fe.Tag())
		}
	}
	return &apperr.ValidationError{Fields: fields}
}
