package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      EmptyBody(),
			expected: "structure: no outline elements in the body",
		},
		{
			name:     "error with cause and context",
			err:      Write("a/b.html", fmt.Errorf("permission denied")),
			expected: "write: cannot write page [path=a/b.html]: permission denied",
		},
		{
			name:     "context keys are sorted",
			err:      Config("slug", "unknown strategy"),
			expected: "config: invalid configuration [field=slug reason=unknown strategy]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_IsMatchesCategory(t *testing.T) {
	err := fmt.Errorf("build: %w", Collision("x.html"))

	assert.True(t, stdErrors.Is(err, ErrWrite))
	assert.False(t, stdErrors.Is(err, ErrInput))
	assert.True(t, IsCategory(err, CategoryWrite))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategoryWrite))
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Write("p.html", cause)

	assert.ErrorIs(t, err, cause)

	var target *Error
	assert.True(t, stdErrors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, "p.html", target.Context["path"])
}
