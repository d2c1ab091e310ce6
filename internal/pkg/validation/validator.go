// internal/pkg/validation/validator.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardValidator = validator.New()
)

// Error carries one message per invalid field, keyed by JSON field name
type Error struct {
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with the storefront's rules
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports JSON field names and knows the
// card_number and card_expiry rules.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		return ValidCardNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return &Validator{validate: v}
}

// Struct validates s and returns *Error for field failures
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "card_number":
		return "is not a valid card number"
	case "card_expiry":
		return "must be formatted MM/YY"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// DigitsOnly strips spaces and dashes from a card number
func DigitsOnly(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// ValidCardNumber checks the digits of s against the credit_card rule
// (12 to 19 digits with a valid Luhn checksum).
func ValidCardNumber(s string) bool {
	return cardValidator.Var(DigitsOnly(s), "credit_card") == nil
}
