package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	appErr := NewAppError(CodeInternal, "wrapped", http.StatusInternalServerError, cause)
	require.ErrorIs(t, appErr, cause)
	require.Equal(t, "boom", appErr.Error())
	require.True(t, IsAppError(appErr))
}

func TestAppErrorMessageWithoutCause(t *testing.T) {
	appErr := RejectedError(CodeInsufficientStock, "not enough stock")
	require.Equal(t, "not enough stock", appErr.Error())
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
}

func TestWriteErrorRendersAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, NotFoundError("order not found"))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "NOT_FOUND")
	require.Contains(t, rr.Body.String(), "order not found")
}

func TestWriteErrorMasksUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("connection reset by peer"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "INTERNAL")
	require.NotContains(t, rr.Body.String(), "connection reset")
}

func TestConflictErrorIsRetryableStatus(t *testing.T) {
	appErr := ConflictError("stock moved", errors.New("serialization failure"))
	require.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	require.Equal(t, CodeTxConflict, appErr.Code)
}
