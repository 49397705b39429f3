package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "type and message only",
			err:      &AppError{Type: ErrTypeValidation, Message: "bad pattern"},
			contains: []string{"validation", "bad pattern"},
		},
		{
			name:     "with code",
			err:      ValidationError("bad pattern").WithCode("E100"),
			contains: []string{"validation", "bad pattern", "code=E100"},
		},
		{
			name:     "with cause",
			err:      UnavailableError("l2", errors.New("connection refused")),
			contains: []string{"unavailable", "l2 tier unavailable", "cause=connection refused"},
		},
		{
			name:     "with context",
			err:      CorruptPayloadError("dashboard:1", errors.New("bad json")).WithContext("tier", "l2"),
			contains: []string{"corrupt", `dashboard:1`, "tier=l2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := SerializationError("cannot encode value", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(UnavailableError("l2", nil), ErrTypeUnavailable))
	assert.False(t, IsType(UnavailableError("l2", nil), ErrTypeCorrupt))
	assert.False(t, IsType(nil, ErrTypeUnavailable))
	assert.False(t, IsType(errors.New("plain"), ErrTypeUnavailable))
}

func TestIsType_Wrapped(t *testing.T) {
	inner := CorruptPayloadError("k", errors.New("bad bytes"))
	wrapped := fmt.Errorf("decode: %w", inner)

	assert.True(t, IsType(wrapped, ErrTypeCorrupt))
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrTypeTimeout, GetType(TimeoutError("l2 get")))
	assert.Equal(t, ErrTypeInternal, GetType(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetType(nil))
}
