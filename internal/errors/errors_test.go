package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "validation", err: NewValidation("bad input"), expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "conflict", err: NewConflict("exists"), expectedStatus: http.StatusConflict, expectedCode: "CONFLICT"},
		{name: "not found", err: NewNotFound("missing"), expectedStatus: http.StatusNotFound, expectedCode: "NOT_FOUND"},
		{name: "unauthorized", err: NewUnauthorized("nope"), expectedStatus: http.StatusUnauthorized, expectedCode: "UNAUTHORIZED"},
		{name: "upload", err: NewUpload("store down"), expectedStatus: http.StatusInternalServerError, expectedCode: "UPLOAD_FAILED"},
		{name: "wrapped domain error", err: fmt.Errorf("handler: %w", NewConflict("exists")), expectedStatus: http.StatusConflict, expectedCode: "CONFLICT"},
		{name: "unknown error", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)

			resp := httpErr.ToErrorResponse()
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternal("create user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create user", err.Error())
}
