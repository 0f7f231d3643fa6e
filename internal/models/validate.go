package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// FieldError names the first field that failed validation.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "notblank":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "max":
		return fmt.Sprintf("%s must be between 0 and 100", e.Field)
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
	}
}

func check(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: verrs[0].Field(), Rule: verrs[0].Tag()}
	}
	return err
}

// Validate reports the first invalid field of the profile.
func (p UserProfile) Validate() error { return check(p) }

// Validate reports the first invalid field of the CV.
func (cv CV) Validate() error { return check(cv) }

// Validate reports the first invalid field of the review.
func (r CVReview) Validate() error { return check(r) }

// Validate reports the first invalid field of the job match.
func (m JobMatch) Validate() error { return check(m) }

// Validate reports the first invalid field of the cover letter.
func (l CoverLetter) Validate() error { return check(l) }
