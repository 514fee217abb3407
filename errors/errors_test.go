package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("k=%d exceeds %d", 200, 120)
	require.NotNil(t, err)
	assert.Equal(t, "k=200 exceeds 120", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("split.train_ratio must be in (0, 1), got %v", 1.0)

	assert.Equal(t, "split.train_ratio must be in (0, 1), got 1", err.Error())
	assert.True(t, IsConfigError(err))
	assert.False(t, IsEnvironmentError(err))
	assert.False(t, IsInvalidRequestError(err))
}

func TestConfigErrorSurvivesWrapping(t *testing.T) {
	err := NewConfigError("model.k must be >= 1, got %d", 0)
	err = WithHint(err, "set model.k to a positive value")
	err = Wrap(err, "fit classifier")

	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "fit classifier")
	assert.Contains(t, err.Error(), "model.k must be >= 1")
	assert.Equal(t, []string{"set model.k to a positive value"}, GetAllHints(err))
}

func TestWrapEnvironment(t *testing.T) {
	base := New("unexpected EOF")
	err := WrapEnvironment(base, "parse bundled dataset")

	assert.True(t, IsEnvironmentError(err))
	assert.True(t, Is(err, base))
	assert.Equal(t, "parse bundled dataset: unexpected EOF", err.Error())
}

func TestWrapInvalidRequest(t *testing.T) {
	err := WrapInvalidRequest(New("3 values"), "expected 4 features")
	assert.True(t, IsInvalidRequestError(err))
	assert.False(t, IsConfigError(err))
}

func TestNotFound(t *testing.T) {
	err := NewNotFoundError("configuration key %q", "model.q")
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(New("other")))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidConfig, ErrEnvironment, ErrInvalidRequest, ErrNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, Is(a, b), "Is(%v, %v)", a, b)
		}
	}
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsConfigError(nil))
	assert.False(t, IsEnvironmentError(nil))
}

func ExampleNewConfigError() {
	err := NewConfigError("model.k=%d exceeds training set size %d", 121, 120)
	fmt.Println(err, IsConfigError(err))
	// Output: model.k=121 exceeds training set size 120 true
}

func ExampleWithHint() {
	err := New("ratio out of range")
	err = WithHint(err, "use a value such as 0.8")

	fmt.Println(GetAllHints(err)[0])
	// Output: use a value such as 0.8
}
