// Package validation wraps go-playground/validator with French messages and JSON field names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"labelstartup-backend/internal/domain"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	phoneTag    = "phone"
	notBlankTag = "notblank"

	phonePattern = regexp.MustCompile(`^[0-9\s+()\-]*$`)
)

// DefaultMessage is the top-level error of a failed validation without a field override.
const DefaultMessage = "Données invalides"

func init() {
	Validate = validator.New()

	_fr := fr.New()
	uni := ut.New(_fr, _fr)
	Translator, _ = uni.GetTranslator("fr")
	_ = fr_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(phoneTag, phoneValidation)
	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{phoneTag, notBlankTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case phoneTag:
		return "Numéro de téléphone invalide"
	case notBlankTag:
		return "ce champ ne peut pas être vide"
	}
	return ""
}

func phoneValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && phonePattern.MatchString(s)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && strings.TrimSpace(s) != ""
}

// Struct validates v and returns a *domain.ValidationError keyed by JSON field name.
// When messages has an entry for a failing field, that text replaces the translated one,
// and the first failing field's message becomes the top-level error.
func Struct(v any, messages map[string]string) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Message: DefaultMessage, Fields: make(map[string]string, len(verrs))}
	for i, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field]
		if !ok {
			msg = fe.Translate(Translator)
		}
		if _, seen := out.Fields[field]; !seen {
			out.Fields[field] = msg
		}
		if i == 0 && ok {
			out.Message = msg
		}
	}
	return out
}

// Var validates a single value against a tag, for query parameters and path segments.
func Var(field string, value any, tag string) error {
	if err := Validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewValidationError(field, field+": "+verrs[0].Translate(Translator))
		}
		return err
	}
	return nil
}
