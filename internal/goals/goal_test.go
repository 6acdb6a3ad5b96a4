package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/internal/apperr"
)

func TestNewGoal(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	t.Run("valid goal", func(t *testing.T) {
		g, err := NewGoal(Goal{
			Title:        "Lower cholesterol",
			Category:     CategoryCholesterol,
			TargetValue:  200,
			CurrentValue: 50,
			Unit:         "mg/dL",
		}, now)

		require.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, StatusActive, g.Status)
		assert.Equal(t, now, g.CreatedAt)
		assert.InDelta(t, 25.0, g.Progress, 1e-9)
	})

	t.Run("defaults category", func(t *testing.T) {
		g, err := NewGoal(Goal{Title: "Walk", TargetValue: 10}, now)
		require.NoError(t, err)
		assert.Equal(t, CategoryOther, g.Category)
	})

	t.Run("missing title and target", func(t *testing.T) {
		_, err := NewGoal(Goal{Category: CategoryWeight}, now)

		var appErr *apperr.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Details, "title")
		assert.Contains(t, appErr.Details, "target_value")
	})

	t.Run("non-positive target", func(t *testing.T) {
		for _, target := range []float64{0, -50} {
			_, err := NewGoal(Goal{Title: "x", TargetValue: target}, now)

			var appErr *apperr.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Details, "target_value")
		}
	})

	t.Run("negative current value", func(t *testing.T) {
		_, err := NewGoal(Goal{Title: "x", TargetValue: 10, CurrentValue: -1}, now)

		var appErr *apperr.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Details, "current_value")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := NewGoal(Goal{Title: "x", TargetValue: 1, Category: "sleep"}, now)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 50.0, Progress(65, 130), 1e-9)
	assert.Equal(t, 100.0, Progress(240, 200), "capped at 100")
	assert.Equal(t, 0.0, Progress(10, 0))
}

func TestGoal_WithProgress(t *testing.T) {
	g, err := NewGoal(Goal{Title: "Walk", Category: CategoryExercise, TargetValue: 200}, time.Now())
	require.NoError(t, err)

	t.Run("partial", func(t *testing.T) {
		got, err := g.WithProgress(50)
		require.NoError(t, err)
		assert.Equal(t, 50.0, got.CurrentValue)
		assert.InDelta(t, 25.0, got.Progress, 1e-9)
		assert.Equal(t, StatusActive, got.Status)
		assert.Equal(t, 0.0, g.CurrentValue, "receiver is unchanged")
	})

	t.Run("reaching the target completes", func(t *testing.T) {
		got, err := g.WithProgress(200)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Progress)
		assert.Equal(t, StatusCompleted, got.Status)
	})

	t.Run("overshoot is capped", func(t *testing.T) {
		got, err := g.WithProgress(350)
		require.NoError(t, err)
		assert.Equal(t, 350.0, got.CurrentValue)
		assert.Equal(t, 100.0, got.Progress)
		assert.Equal(t, StatusCompleted, got.Status)
	})

	t.Run("completed stays completed", func(t *testing.T) {
		done, err := g.WithProgress(200)
		require.NoError(t, err)

		got, err := done.WithProgress(20)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, got.Progress, 1e-9)
		assert.Equal(t, StatusCompleted, got.Status)
	})

	t.Run("paused goal completes", func(t *testing.T) {
		paused := g
		paused.Status = StatusPaused

		got, err := paused.WithProgress(120)
		require.NoError(t, err)
		assert.Equal(t, StatusPaused, got.Status)

		got, err = paused.WithProgress(200)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, got.Status)
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := g.WithProgress(-1)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
