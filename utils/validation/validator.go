package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sahilchouksey/practice-tracker/model"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	roleTag     = "role"
	dateTag     = "date"
	statusTag   = "assignment_status"
)

// Validator wraps the go-playground validator with english messages
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(roleTag, validRole)
	_ = validate.RegisterValidation(dateTag, validDate)
	_ = validate.RegisterValidation(statusTag, validStatus)

	// The default translation is already registered, so a noop loader is enough.
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, roleTag, dateTag, statusTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}

	return &Validator{validate: validate, translator: translator}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Translate converts validation errors to a field -> message map. Errors that
// are not validation errors yield nil.
func (v *Validator) Translate(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = e.Translate(v.translator)
	}
	return fields
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case roleTag:
		return fe.Field() + " must be one of student, teacher, staff"
	case dateTag:
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case statusTag:
		return fe.Field() + " must be one of assigned, in_progress, completed"
	default:
		return fe.Field() + " is invalid"
	}
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func validRole(fl validator.FieldLevel) bool {
	_, err := model.ParseRole(fl.Field().String())
	return err == nil
}

func validStatus(fl validator.FieldLevel) bool {
	_, err := model.ParseAssignmentStatus(fl.Field().String())
	return err == nil
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
