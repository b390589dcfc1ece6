package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError so the API has one
// success shape per resource and one error shape overall:
//
//	{"error": "validation_error", "message": "name is required", "fields": {"name": "name is required"}}
//
// "fields" is only present for validation errors.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/apperror"
)

// maxBodyBytes bounds request bodies. Blog bodies are free text, so the
// limit is generous.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string            `json:"error"`            // Machine-readable error type (e.g., "not_found")
	Message string            `json:"message"`          // Human-readable description
	Fields  map[string]string `json:"fields,omitempty"` // Per-field messages for validation errors
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; anything set after is ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it. Only *apperror.AppError values reach the client verbatim;
// anything else becomes a generic 500 so storage details never leak.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		resp := ErrorResponse{Error: errorType, Message: appErr.Message}
		if status == http.StatusBadRequest {
			resp.Fields = appErr.Fields
		}
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON object from the request body into dst.
// Syntax errors, trailing data and wrong value types are reported as
// validation errors; a type error names the offending field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		// Exactly one JSON value: anything after it is rejected.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			return apperror.ValidationFailed("body", "request body is not valid JSON")
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("body", "request body must not be empty")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperror.ValidationFailed(typeErr.Field,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
	case errors.As(err, &typeErr):
		return apperror.ValidationFailed("body", "request body must be a JSON object")
	case errors.As(err, &maxErr):
		return apperror.ValidationFailed("body",
			fmt.Sprintf("request body must be %d bytes or less", maxErr.Limit))
	}
	return apperror.ValidationFailed("body", "request body is not valid JSON")
}

// jsonKind names a Go kind the way a JSON client would think of it.
func jsonKind(kind string) string {
	switch kind {
	case "slice", "array":
		return "array"
	case "map", "struct":
		return "object"
	}
	return kind
}

// pathID parses the {id} URL parameter. A value that is not a UUID cannot
// name any row, so it is a 404 rather than a 400.
func pathID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource, raw)
	}
	return id, nil
}
