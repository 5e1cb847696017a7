package errors

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsConfigError(nil))
	assert.False(t, IsBackendError(nil))
}

func TestConfigErrors(t *testing.T) {
	t.Run("formatted", func(t *testing.T) {
		err := NewConfigError("corpus %q is not a directory", "otel")
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), `corpus "otel" is not a directory`)
	})

	t.Run("wrapped keeps cause", func(t *testing.T) {
		_, statErr := os.Stat("/definitely/not/here")
		require.Error(t, statErr)

		err := WrapConfig(statErr, "corpus root")
		assert.True(t, IsConfigError(err))
		assert.True(t, Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "corpus root")
	})
}

func TestIsBackendError(t *testing.T) {
	assert.True(t, IsBackendError(Wrap(ErrUnauthorized, "no key")))
	assert.True(t, IsBackendError(Wrap(ErrForbidden, "missing queries access")))
	assert.True(t, IsBackendError(Wrap(ErrServiceUnavailable, "dial tcp")))
	assert.False(t, IsBackendError(Wrap(ErrNotFound, "dataset")))
}

func ExampleWrap() {
	baseErr := New("connection failed")
	err := Wrap(baseErr, "failed to list datasets")
	fmt.Println(err)
	// Output: failed to list datasets: connection failed
}
