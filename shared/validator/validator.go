// Package validator wraps go-playground/validator with the custom tags and
// English translations shared by the services.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Validator validates structs and single values and renders failures as
// human readable English messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

type customTag struct {
	tag     string
	fn      validator.Func
	message string
}

var customTags = []customTag{
	{tag: "phone", fn: validatePhone, message: "{0} must be a valid phone number"},
	{tag: "email_domain", fn: validateEmailDomain, message: "{0} must be a valid email address"},
}

// New creates a Validator with the English translator and the custom tags registered.
func New() (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)

	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("english translator not found")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the request payload.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for _, ct := range customTags {
		if err := validate.RegisterValidation(ct.tag, ct.fn); err != nil {
			return nil, err
		}

		if err := validate.RegisterTranslation(ct.tag, trans, registerMessage(ct.tag, ct.message), translateField); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates the exported fields of s according to their validate tags.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// Var validates a single value against the given tag expression.
func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}

// Messages translates a validation error into one message per failed field.
// Errors that did not come from the validator are returned as-is.
func (v *Validator) Messages(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fe.Translate(v.trans))
	}

	return messages
}

func registerMessage(tag, message string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, message, true)
	}
}

func translateField(trans ut.Translator, fe validator.FieldError) string {
	message, err := trans.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return message
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validateEmailDomain requires a dotted domain and rejects control characters,
// both of which the stock email tag lets through.
func validateEmailDomain(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	for _, r := range value {
		if unicode.IsControl(r) {
			return false
		}
	}

	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}

	domain := value[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
