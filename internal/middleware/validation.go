package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "ratecli/internal/errors"
)

// QueryValidator decodes query parameters into tagged structs and validates
// them. Fields are bound by their `query` tag; string and int fields are
// supported.
//
//	type rangeQuery struct {
//		Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
//	}
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a validator reporting field names by query tag.
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	if logger == nil {
		logger = slog.Default()
	}
	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// DecodeQuery fills dst, a pointer to a struct, from r's query string and
// validates it. Failures are *errors.APIError values with status 400.
func (q *QueryValidator) DecodeQuery(r *http.Request, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode query: want pointer to struct, got %T", dst)
	}

	values := r.URL.Query()
	elem := rv.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Type().Field(i)
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" || !values.Has(name) {
			continue
		}

		raw := values.Get(name)
		switch fv := elem.Field(i); fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int64, reflect.Int32:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				q.logger.DebugContext(r.Context(), "invalid query parameter",
					slog.String("param", name),
					slog.String("value", raw))
				return apierrors.ErrValidation(name, name+" must be a valid integer")
			}
			fv.SetInt(n)
		default:
			return fmt.Errorf("decode query: unsupported field kind %s for %s", fv.Kind(), name)
		}
	}

	return q.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (q *QueryValidator) ValidateStruct(v interface{}) error {
	err := q.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "required_with":
		return fmt.Sprintf("%s is required together with %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
