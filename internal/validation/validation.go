// Package validation checks keyword research requests before they reach the
// Keyword Planner. Struct rules use go-playground/validator tags; query
// parameters that arrive as strings have their own parsers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	// ErrInvalidLocations is returned when the locations parameter is not a
	// JSON array of positive geo target ids.
	ErrInvalidLocations = errors.New("locations must be a JSON array of location ids")

	// ErrInvalidLimit is returned when limit is not a positive integer.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string
	Tag   string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s failed %q validation", e.Field, e.Tag)
}

// RequestError collects every field that failed validation.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct runs the validate tags on v.
func ValidateStruct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &RequestError{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{Field: fe.Namespace(), Tag: fe.Tag()}
	}
	return out
}

// ParseLocations decodes the locations query parameter. An empty value
// yields nil so the caller can apply its default.
func ParseLocations(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, ErrInvalidLocations
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, ErrInvalidLocations
		}
	}
	return ids, nil
}

// ParseLimit parses a positive integer, returning def when raw is empty.
func ParseLimit(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

// NormalizeKeyword trims and lowercases a keyword so lookups are counted
// case-insensitively.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
