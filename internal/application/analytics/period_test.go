package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	t.Run("derives equal-length previous window", func(t *testing.T) {
		w, err := ResolveWindow("2025-03-01", "2025-03-31")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), w.PrevEnd)
		assert.Equal(t, time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC), w.PrevStart)
		assert.Equal(t, w.Days(), int(w.PrevEnd.Sub(w.PrevStart).Hours()/24)+1)
	})

	t.Run("single-day window", func(t *testing.T) {
		w, err := ResolveWindow("2025-06-15", "2025-06-15")
		require.NoError(t, err)

		assert.Equal(t, 1, w.Days())
		assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), w.PrevStart)
		assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), w.PrevEnd)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := ResolveWindow("2025-04-01", "2025-03-01")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_RANGE", domainErr.Code)
	})

	t.Run("unparseable bound", func(t *testing.T) {
		_, err := ResolveWindow("not-a-date", "2025-03-01")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_RANGE", domainErr.Code)
	})
}

func TestResolveWindowOrDefault(t *testing.T) {
	now := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

	t.Run("defaults to trailing 30-day window ending today", func(t *testing.T) {
		w, err := ResolveWindowOrDefault("", "", now)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, 30, w.Days())
	})

	t.Run("explicit bounds win", func(t *testing.T) {
		w, err := ResolveWindowOrDefault("2025-01-01", "2025-01-31", now)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("one missing bound is invalid", func(t *testing.T) {
		_, err := ResolveWindowOrDefault("2025-01-01", "", now)
		require.Error(t, err)
	})
}
