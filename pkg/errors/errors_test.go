package errors

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "Infeasible",
			code:    Infeasible,
			message: "composition outside constraint space",
		},
		{
			name:    "PredictionFailed",
			code:    PredictionFailed,
			message: "hardness model returned NaN",
		},
		{
			name:    "InvalidComposition",
			code:    InvalidComposition,
			message: "binder fractions sum to zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())

			// Test nil original error for new errors
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

// TestWrapError tests error wrapping functionality.
func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("model file missing")

	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		wrapMsg    string
		expectNil  bool
		expectCode ErrorCode
	}{
		{
			name:       "Wrap normal error",
			err:        originalErr,
			code:       PredictionFailed,
			wrapMsg:    "hardness prediction",
			expectNil:  false,
			expectCode: PredictionFailed,
		},
		{
			name:      "Wrap nil error",
			err:       nil,
			code:      PredictionFailed,
			wrapMsg:   "hardness prediction",
			expectNil: true,
		},
		{
			name:       "Wrap custom error",
			err:        New(ResourceNotFound, "not found"),
			code:       ContractViolation,
			wrapMsg:    "constraint space",
			expectNil:  false,
			expectCode: ContractViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, tt.wrapMsg)

			if tt.expectNil {
				assert.Nil(t, wrapped)
				return
			}

			assert.NotNil(t, wrapped)

			ourErr := wrapped.(*Error)
			assert.Equal(t, tt.expectCode, ourErr.Code())
			assert.Contains(t, ourErr.Error(), tt.wrapMsg)

			unwrapped := ourErr.Unwrap()
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), unwrapped.Error())
			}
		})
	}
}

// TestErrorInterfaces tests compliance with Go error interfaces.
func TestErrorInterfaces(t *testing.T) {
	t.Run("errors.Is support", func(t *testing.T) {
		err1 := New(Infeasible, "first")
		err2 := New(Infeasible, "second")
		err3 := New(PredictionFailed, "third")

		assert.True(t, stderrors.Is(err1, err2),
			"Errors with same code should match with Is")
		assert.False(t, stderrors.Is(err1, err3),
			"Errors with different codes should not match with Is")
	})

	t.Run("errors.As support", func(t *testing.T) {
		originalErr := New(PredictionFailed, "original")
		wrappedErr := Wrap(originalErr, Timeout, "wrapped")

		var customErr *Error
		assert.True(t, stderrors.As(wrappedErr, &customErr),
			"Should be able to extract custom error type")
		assert.Equal(t, Timeout, customErr.Code())
	})

	t.Run("error unwrapping", func(t *testing.T) {
		baseErr := stderrors.New("base error")
		wrapped := Wrap(baseErr, PredictionFailed, "wrapped error")

		unwrapped := stderrors.Unwrap(wrapped)
		assert.Equal(t, baseErr.Error(), unwrapped.Error())
	})
}

func TestErrorFields(t *testing.T) {
	t.Run("Empty fields", func(t *testing.T) {
		err := New(Infeasible, "error")
		customErr := err.(*Error)
		assert.Empty(t, customErr.Fields())
	})

	t.Run("Add fields", func(t *testing.T) {
		fields := Fields{
			"element":  "Fe",
			"fraction": 0.42,
			"trial":    7,
		}
		err := WithFields(New(Infeasible, "error"), fields)
		customErr := err.(*Error)
		assert.Equal(t, fields, customErr.Fields())
	})

	t.Run("Merge fields", func(t *testing.T) {
		err := WithFields(New(Infeasible, "error"), Fields{"a": 1})
		err = WithFields(err, Fields{"b": 2})
		customErr := err.(*Error)
		assert.Len(t, customErr.Fields(), 2)
		assert.Equal(t, 1, customErr.Fields()["a"])
		assert.Equal(t, 2, customErr.Fields()["b"])
	})

	t.Run("Fields method returns copy not reference", func(t *testing.T) {
		err := WithFields(New(Infeasible, "error"), Fields{"key": "original"})
		customErr := err.(*Error)

		returned := customErr.Fields()
		returned["key"] = "modified"

		assert.Equal(t, "original", customErr.Fields()["key"])
	})

	t.Run("WithFields on non-Error type", func(t *testing.T) {
		baseErr := stderrors.New("base error")
		result := WithFields(baseErr, Fields{"context": "test"})

		customErr, ok := result.(*Error)
		require.True(t, ok)
		assert.Equal(t, Unknown, customErr.Code())
		assert.Equal(t, "test", customErr.Fields()["context"])
	})

	t.Run("WithFields on nil error", func(t *testing.T) {
		assert.Nil(t, WithFields(nil, Fields{"key": "value"}))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Infeasible, CodeOf(New(Infeasible, "x")))
	assert.Equal(t, Timeout, CodeOf(Wrap(stderrors.New("deadline"), Timeout, "predict")))
	assert.Equal(t, Unknown, CodeOf(stderrors.New("plain")))
	assert.Equal(t, Unknown, CodeOf(nil))
}

func TestHelpers(t *testing.T) {
	t.Run("IsInfeasible", func(t *testing.T) {
		assert.True(t, IsInfeasible(New(Infeasible, "out of bounds")))
		assert.False(t, IsInfeasible(New(PredictionFailed, "nan feature")))
	})

	t.Run("IsPredictionFailure", func(t *testing.T) {
		assert.True(t, IsPredictionFailure(New(PredictionFailed, "nan feature")))
		assert.True(t, IsPredictionFailure(New(Timeout, "predict timed out")))
		assert.False(t, IsPredictionFailure(New(Infeasible, "out of bounds")))
	})

	t.Run("CheckContext live context", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "evaluate"))
	})

	t.Run("CheckContext canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "evaluate")
		require.Error(t, err)
		assert.Equal(t, Canceled, CodeOf(err))
	})

	t.Run("CheckContext deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		err := CheckContext(ctx, "evaluate")
		require.Error(t, err)
		assert.Equal(t, Timeout, CodeOf(err))
	})
}

// TestErrorChainIntegration tests complex error chains.
func TestErrorChainIntegration(t *testing.T) {
	baseErr := stderrors.New("feature table lookup failed")

	level1 := Wrap(baseErr, ResourceNotFound, "element properties missing")
	level1 = WithFields(level1, Fields{"element": "Re"})

	level2 := Wrap(level1, PredictionFailed, "feature extraction failed")
	level2 = WithFields(level2, Fields{"trial": 31})

	finalErr := level2.(*Error)
	assert.Equal(t, PredictionFailed, finalErr.Code())
	assert.Contains(t, finalErr.Error(), "feature extraction failed")
	assert.Contains(t, finalErr.Error(), "element properties missing")
	assert.Contains(t, finalErr.Error(), "feature table lookup failed")
	assert.Contains(t, finalErr.Error(), "trial=31")

	unwrapped := finalErr.Unwrap().(*Error)
	assert.Equal(t, ResourceNotFound, unwrapped.Code())
	assert.Contains(t, unwrapped.Error(), "element=Re")
}
