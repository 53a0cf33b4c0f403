package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, AppErrorToHTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, AppErrorToHTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, AppErrorToHTTPStatus(ErrAlreadyFlagged))
	assert.Equal(t, http.StatusUnauthorized, AppErrorToHTTPStatus(ErrUnauthenticated))
	assert.Equal(t, http.StatusUnauthorized, AppErrorToHTTPStatus(ErrInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, AppErrorToHTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusForbidden, AppErrorToHTTPStatus(ErrInvalidToken))
	assert.Equal(t, http.StatusConflict, AppErrorToHTTPStatus(ErrDuplicate))
	assert.Equal(t, http.StatusTooManyRequests, AppErrorToHTTPStatus(ErrTooManyRequests))
	assert.Equal(t, http.StatusInternalServerError, AppErrorToHTTPStatus(ErrDatabase))
	assert.Equal(t, http.StatusInternalServerError, AppErrorToHTTPStatus(ErrActorTimeout))
	assert.Equal(t, http.StatusInternalServerError, AppErrorToHTTPStatus("SOMETHING_ELSE"))
}

func TestIsErrorCode(t *testing.T) {
	appErr := NewNotFoundError("Post")
	assert.True(t, IsErrorCode(appErr, ErrNotFound))
	assert.False(t, IsErrorCode(appErr, ErrForbidden))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrNotFound))
	assert.False(t, IsErrorCode(nil, ErrNotFound))
}

func TestAppErrorMessage(t *testing.T) {
	wrapped := errors.New("connection reset")
	appErr := NewAppError(ErrDatabase, "query failed", wrapped)
	assert.Contains(t, appErr.Error(), "query failed")
	assert.Equal(t, wrapped, appErr.Origin)
}
