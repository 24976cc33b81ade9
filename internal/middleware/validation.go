package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var productCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("productcode", validateProductCode)
	validate.RegisterValidation("notfuture", validateNotFuture)
}

func validateProductCode(fl validator.FieldLevel) bool {
	return productCodePattern.MatchString(fl.Field().String())
}

func validateNotFuture(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return false
	}
	return !parsed.After(time.Now())
}

// ValidateRequest validates a struct against its validation tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// Bind populates v from the request, merging URL path parameters, query
// string parameters and the JSON body. The body takes precedence over the
// query string, which takes precedence over path parameters. A syntactically
// malformed JSON body is reported as an error; a value of the wrong type for
// its field comes back as a violation against that field.
func Bind(r *http.Request, v interface{}) ([]ValidationError, error) {
	bodyValues := map[string]json.RawMessage{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&bodyValues); err != nil {
			return nil, fmt.Errorf("malformed request body: %w", err)
		}
	}

	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind target must be a pointer to struct, got %T", v)
	}
	target = target.Elem()
	targetType := target.Type()

	var violations []ValidationError
	query := r.URL.Query()
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}

		if raw, ok := bodyValues[name]; ok {
			if err := json.Unmarshal(raw, target.Field(i).Addr().Interface()); err != nil {
				violations = append(violations, ValidationError{
					Field:   name,
					Message: typeMismatchMessage(field.Type),
				})
			}
			continue
		}
		value := query.Get(name)
		if value == "" {
			value = chi.URLParam(r, name)
		}
		if value == "" {
			continue
		}
		if err := setFromString(target.Field(i), value); err != nil {
			violations = append(violations, ValidationError{
				Field:   name,
				Message: typeMismatchMessage(field.Type),
			})
		}
	}
	return violations, nil
}

func typeMismatchMessage(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "Value must be an integer"
	case reflect.Bool:
		return "Value must be a boolean"
	case reflect.String:
		return "Value must be a string"
	default:
		return "Invalid value"
	}
}

func setFromString(field reflect.Value, value string) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	default:
		return fmt.Errorf("unsupported parameter type %s", field.Kind())
	}
	return nil
}

// DecodeAndValidate binds the request onto v and validates it. The returned
// error reports an unreadable request; validation violations come back as
// the slice and map to a 422 response. Type-mismatched fields surface as
// violations without running the tag rules, since those would fire against
// the unbound zero values.
func DecodeAndValidate(r *http.Request, v interface{}) ([]ValidationError, error) {
	violations, err := Bind(r, v)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return violations, nil
	}
	if err := ValidateRequest(v); err != nil {
		return FormatValidationErrors(err), nil
	}
	return nil, nil
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "oneof":
		return "Value must be one of: " + e.Param()
	case "productcode":
		return "Value must contain only uppercase letters and digits"
	case "datetime":
		return "Invalid date format, expected RFC 3339"
	case "notfuture":
		return "Date must not be in the future"
	default:
		return "Invalid value"
	}
}
