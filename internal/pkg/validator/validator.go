package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	sirenRe  = regexp.MustCompile(`^\d{9}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names so clients can map errors back to their fields
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// blank values pass: optional pointer fields are sent as "" by forms
	_ = validate.RegisterValidation("siren", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || sirenRe.MatchString(s)
	})
	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})
}

// Validate returns a field -> failed rule map, or nil when v is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		errors[fe.Field()] = fe.Tag()
	}
	return errors
}

// Var validates a single value against a tag list such as "required,email".
func Var(v any, tag string) bool {
	return validate.Var(v, tag) == nil
}
