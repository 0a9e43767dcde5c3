package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	registerOnce sync.Once
)

func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// RegisterValidators adds the custom binding rules to gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsValidSlug(fl.Field().String())
		}); err != nil {
			ErrorLogger.Errorf("register slug validator: %v", err)
		}
	})
}

// BindingError converts a gin binding failure into a validation AppError.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("Invalid request body", err.Error())
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describeFieldError(fe))
	}
	return Validation("One or more validation errors occurred", details...)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "slug":
		return fmt.Sprintf("%s may only contain lowercase letters, digits and hyphens", field)
	default:
		return strings.TrimSpace(fmt.Sprintf("%s failed on %s %s", field, fe.Tag(), fe.Param()))
	}
}

// ValidateStruct runs the binding rules outside of a request, so services
// reject bad input the same way handlers do.
func ValidateStruct(obj interface{}) error {
	RegisterValidators()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return BindingError(err)
	}
	return nil
}
