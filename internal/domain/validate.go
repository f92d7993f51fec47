package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator создает валидатор с дополнительными тегами:
// notblank, nowhitespace, cinemadate (не раньше FirstFilmDate) и notfuture
// (не позже текущего дня по now). Date проверяется как time.Time,
// пустая дата не проходит ни один тег дат.
func NewValidator(now func() time.Time) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time()
	}, Date{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "nowhitespace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})
	mustRegister(v, "cinemadate", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.Before(FirstFilmDate.Time())
	})
	mustRegister(v, "notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !DateOf(t).After(DateOf(now()))
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// ValidateStruct проверяет s и превращает первую ошибку в *ValidationError.
func ValidateStruct(ctx context.Context, v *validator.Validate, s any) error {
	err := v.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("", "%v", err)
	}
	fe := verrs[0]
	return NewValidationError(fieldPath(fe.Namespace()), "%s", describe(fe))
}

// fieldPath убирает имя структуры из namespace валидатора.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "nowhitespace":
		return "must not contain whitespace"
	case "contains":
		return fmt.Sprintf("must contain %q", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "cinemadate":
		return fmt.Sprintf("must be on or after %s", FirstFilmDate)
	case "notfuture":
		return "must not be in the future"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
