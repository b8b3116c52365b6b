package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
)

const dateRangeField = "dateRangeValid"

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(jsonName)
		instance.RegisterStructValidation(taskFilterRange, model.TaskFilter{})
	})
	return instance
}

// Struct checks v against its validate tags. Field failures come back as an
// *errs.Classified validation error keyed by JSON field name, in struct
// field order, so they render exactly like validation errors from the API.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]errs.FieldMessage, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, errs.FieldMessage{Field: fe.Field(), Message: message(fe)})
	}
	return errs.NewValidation(fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "datetime":
		return "must be a date in yyyy-MM-dd format"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("length must be at most %s", fe.Param())
	case dateRangeField:
		return "dueDateFrom must be before dueDateTo"
	default:
		return fe.Error()
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func taskFilterRange(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(model.TaskFilter)
	if !ok || f.DueDateFrom == "" || f.DueDateTo == "" {
		return
	}

	from, errFrom := time.Parse(model.DateLayout, f.DueDateFrom)
	to, errTo := time.Parse(model.DateLayout, f.DueDateTo)
	if errFrom != nil || errTo != nil {
		return
	}

	if !from.Before(to) {
		sl.ReportError(f.DueDateTo, dateRangeField, "DueDateTo", dateRangeField, "")
	}
}
