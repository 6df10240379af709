package kcentererrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInvalidArgument, "k must be positive"),
			expected: "[INVALID_ARGUMENT] k must be positive",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeIO, "reading query file", errors.New("short read")),
			expected: "[IO_ERROR] reading query file: short read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeFileFormat, "bad header", underlying)

	assert.Equal(t, underlying, err.Unwrap())
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeIO, "error 1")
	err2 := New(CodeIO, "error 2")
	err3 := New(CodeFileFormat, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 0, ExitCode(ErrAllLevelsInfeasible))
	assert.Equal(t, 1, ExitCode(ErrInvalidArgument))
	assert.Equal(t, 1, ExitCode(ErrIO))
}

func TestIsAllLevelsInfeasible(t *testing.T) {
	assert.True(t, IsAllLevelsInfeasible(ErrAllLevelsInfeasible))
	assert.False(t, IsAllLevelsInfeasible(ErrIO))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeFileFormat, GetErrorCode(New(CodeFileFormat, "x")))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
}
