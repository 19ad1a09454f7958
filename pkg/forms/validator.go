package forms

import (
	"errors"
	"reflect"
	"strings"

	"newsdesk/pkg/content"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldErrors maps a form field name to a human readable message.
type FieldErrors map[string]string

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, msg := range e {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	if err := v.RegisterValidation("richtext", hasText); err != nil {
		return nil, err
	}
	err := v.RegisterTranslation("richtext", trans,
		func(ut ut.Translator) error {
			return ut.Add("richtext", "{0} must contain some text", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("richtext", fe.Field())
			return msg
		},
	)
	if err != nil {
		return nil, err
	}

	return &Validator{validate: v, trans: trans}, nil
}

// Check validates a form struct (pointer) and returns nil when it is valid.
func (v *Validator) Check(form any) FieldErrors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fe.StructField()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if name := strings.Split(sf.Tag.Get("form"), ",")[0]; name != "" {
				key = name
			}
		}
		if _, seen := out[key]; !seen {
			out[key] = fe.Translate(v.trans)
		}
	}
	return out
}

func hasText(fl validator.FieldLevel) bool {
	return content.PlainText(fl.Field().String()) != ""
}
