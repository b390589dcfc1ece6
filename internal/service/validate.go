// Package service holds the business rules between the HTTP handlers and
// the repositories: field validation, partial updates, parent-reference
// parsing and the derived read queries.
//
// Services accept plain Go values and return apperror values. They know
// nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/apperror"
)

// fieldErrors collects every invalid field of one request so they can be
// reported together.
type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperror.Invalid(f)
}

// text validates an optional string field. A nil value is only an error
// when required. Present values are trimmed, must not be blank and must
// fit in maxLen characters (0 means unlimited).
func (f fieldErrors) text(field string, value *string, maxLen int, required bool) (string, bool) {
	if value == nil {
		if required {
			f[field] = fmt.Sprintf("%s is required", field)
		}
		return "", false
	}

	v := strings.TrimSpace(*value)
	if v == "" {
		f[field] = fmt.Sprintf("%s may not be blank", field)
		return "", false
	}
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		f[field] = fmt.Sprintf("%s must be %d characters or less", field, maxLen)
		return "", false
	}
	return v, true
}

// ref validates a parent identifier such as topic_id. It only checks the
// format; whether the parent exists is decided by the repository write.
func (f fieldErrors) ref(field string, value *string, required bool) (uuid.UUID, bool) {
	if value == nil {
		if required {
			f[field] = fmt.Sprintf("%s is required", field)
		}
		return uuid.Nil, false
	}

	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		f[field] = fmt.Sprintf("%s must be a valid UUID", field)
		return uuid.Nil, false
	}
	return id, true
}

// tags validates a tag list. Order is kept; each tag is trimmed and must
// not be blank.
func (f fieldErrors) tags(field string, value *[]string) ([]string, bool) {
	if value == nil {
		return nil, false
	}

	out := make([]string, 0, len(*value))
	for _, tag := range *value {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			f[field] = fmt.Sprintf("%s may not contain blank values", field)
			return nil, false
		}
		out = append(out, tag)
	}
	return out, true
}

// logFailure logs unexpected storage errors. Not-found and validation
// outcomes are ordinary responses and are not logged.
func logFailure(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
