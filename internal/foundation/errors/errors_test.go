package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", ".dokumentor.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, ".dokumentor.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, HasSeverity(err, SeverityFatal))
		assert.False(t, err.CanRetry())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := DocumentError("unbalanced").Build()
		wrapped := fmt.Errorf("sync README.md: %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Same(t, inner, classified)
		assert.Equal(t, CategoryDocument, GetCategory(wrapped))
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
		assert.Equal(t, SeverityError, GetSeverity(errors.New("plain")))
	})

	t.Run("WithContext does not mutate the receiver", func(t *testing.T) {
		base := FileSystemError("write failed").Build()
		derived := base.WithContext("path", "README.md")

		_, exists := base.Context().Get("path")
		assert.False(t, exists)
		path, _ := derived.Context().GetString("path")
		assert.Equal(t, "README.md", path)
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryGit, "open repository").
			WithSeverity(SeverityError).
			Retryable().
			WithContext("dir", "/work").
			Build()

		assert.Equal(t, CategoryGit, err.Category())
		assert.Equal(t, SeverityError, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		assert.True(t, err.CanRetry())
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryNever},
			{"DocumentError", DocumentError("test"), CategoryDocument, SeverityFatal, RetryUserAction},
			{"ManifestError", ManifestError("test"), CategoryManifest, SeverityFatal, RetryNever},
			{"MigrationError", MigrationError("test"), CategoryMigration, SeverityFatal, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
			{"GitError", GitError("test"), CategoryGit, SeverityError, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", 42).Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v1, _ := merged.GetString("key1")
	assert.Equal(t, "value1", v1)
	v2, ok := merged.Get("key2")
	require.True(t, ok)
	assert.Equal(t, 42, v2)
	shared, _ := merged.GetString("shared")
	assert.Equal(t, "overridden", shared)

	_, ok = merged.GetString("key2")
	assert.False(t, ok, "non-string values are not returned as strings")
}
