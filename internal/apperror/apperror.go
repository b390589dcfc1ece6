// Package apperror defines the error taxonomy shared by every layer.
//
// Repositories and services return *AppError values that wrap one of the
// sentinel errors below. Callers check the category with errors.Is and read
// the human-readable details with errors.As:
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
//
// Only the HTTP layer knows how a category maps to a status code.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

type AppError struct {
	Err     error             // sentinel category
	Message string            // Human-readable error message
	Field   string            // Optional: first field causing the error
	Fields  map[string]string // Optional: every invalid field and its message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Fields:  map[string]string{field: message},
	}
}

// Invalid reports several field errors at once. The message lists the
// fields in sorted order so it is stable across runs.
func Invalid(fields map[string]string) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var first string
	if len(names) > 0 {
		first = names[0]
	}
	if len(names) == 1 {
		return &AppError{
			Err:     ErrValidation,
			Message: fields[first],
			Field:   first,
			Fields:  fields,
		}
	}
	return &AppError{
		Err:     ErrValidation,
		Message: "invalid fields: " + strings.Join(names, ", "),
		Field:   first,
		Fields:  fields,
	}
}

// InvalidReference is the referential-integrity error: field names a
// resource id that does not exist. It is a validation error, not a 404,
// because the request itself is what is wrong.
func InvalidReference(field, resource, id string) *AppError {
	return ValidationFailed(field,
		fmt.Sprintf("invalid %s: %s with id %s does not exist", field, resource, id))
}
