package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesDerivedErrors(t *testing.T) {
	cause := fmt.Errorf("duplicate key")
	err := fmt.Errorf("insert: %w", ErrPersistenceFailure.WithCause(cause))

	assert.True(t, stderrors.Is(err, ErrPersistenceFailure))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrMalformedInput))
	assert.True(t, IsPersistenceFailure(err))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "malformed input", err: ErrMalformedInput.WithMessage("message is required"), want: http.StatusBadRequest},
		{name: "persistence", err: ErrPersistenceFailure, want: http.StatusInternalServerError},
		{name: "plain error", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(ErrMalformedInput.WithMessage("message is required").WithDetail("field", "message"))

	assert.Equal(t, "MALFORMED_INPUT", resp.ErrorCode)
	assert.Equal(t, "message is required", resp.Error)
	assert.Equal(t, map[string]interface{}{"field": "message"}, resp.Details)

	resp = ToErrorResponse(fmt.Errorf("boom"))
	assert.Equal(t, "INTERNAL_ERROR", resp.ErrorCode)
	assert.Nil(t, resp.Details)
}

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	_ = ErrConflict.WithDetail("id", "abc")
	assert.NotContains(t, ErrConflict.Details, "id")
}

func TestRecoverPanic(t *testing.T) {
	assert.Nil(t, RecoverPanic(nil))

	err := RecoverPanic("exploded")
	assert.True(t, stderrors.Is(err, ErrInternal))
	assert.Contains(t, err.Error(), "panic: exploded")
}

func TestCapture(t *testing.T) {
	assert.NoError(t, Capture(func() error { return nil }))

	plain := stderrors.New("boom")
	assert.Equal(t, plain, Capture(func() error { return plain }))

	err := Capture(func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrInternal))

	var appErr *Error
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, true, appErr.Details["panic"])
}
