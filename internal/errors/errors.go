package errors

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying the HTTP status and a stable code.
// Every failure crossing the service boundary is one of these; raw
// collaborator errors (GORM, JWT, MinIO) never leak past the services.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying collaborator error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation reports malformed or missing input.
func NewValidation(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message}
}

// NewConflict reports a uniqueness violation.
func NewConflict(message string) *Error {
	return &Error{StatusCode: http.StatusConflict, Code: "CONFLICT", Message: message}
}

// NewNotFound reports a missing entity.
func NewNotFound(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// NewUnauthorized reports bad credentials or an invalid, expired, reused
// or wrong-class token.
func NewUnauthorized(message string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// NewUpload reports a media store failure.
func NewUpload(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Code: "UPLOAD_FAILED", Message: message}
}

// NewInternal reports a store or signer inconsistency, wrapping the cause.
func NewInternal(message string, cause error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message, Err: cause}
}

// ErrorResponse is the JSON envelope returned for every failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ToErrorResponse converts an Error to its JSON envelope.
func (e *Error) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP classifies err as a domain *Error, falling back to a
// generic internal error for anything unrecognized.
func MapErrorToHTTP(err error) *Error {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternal("internal server error", err)
}
