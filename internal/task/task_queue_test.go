package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue(t *testing.T) {
	t.Parallel()

	t.Run("enqueued tasks are readable from the channel", func(t *testing.T) {
		t.Parallel()

		q := NewTaskQueue(2, testLogger())
		task := newFuncTask(TaskTypeTodoAnalysis, nil)

		require.NoError(t, q.Enqueue(task))

		got := <-q.GetChannel()
		assert.Equal(t, task.ID(), got.ID())
	})

	t.Run("full queue rejects submissions", func(t *testing.T) {
		t.Parallel()

		q := NewTaskQueue(1, testLogger())
		require.NoError(t, q.Enqueue(newFuncTask(TaskTypeTodoAnalysis, nil)))

		err := q.Enqueue(newFuncTask(TaskTypeTodoAnalysis, nil))
		assert.ErrorIs(t, err, ErrQueueFull)
	})

	t.Run("closed queue rejects submissions", func(t *testing.T) {
		t.Parallel()

		q := NewTaskQueue(1, testLogger())
		q.Close()

		err := q.Enqueue(newFuncTask(TaskTypeTodoAnalysis, nil))
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		q := NewTaskQueue(1, testLogger())
		q.Close()
		assert.NotPanics(t, q.Close)
	})

	t.Run("closing drains the channel", func(t *testing.T) {
		t.Parallel()

		q := NewTaskQueue(1, testLogger())
		require.NoError(t, q.Enqueue(newFuncTask(TaskTypeTodoAnalysis, func(ctx context.Context) error { return nil })))
		q.Close()

		_, ok := <-q.GetChannel()
		assert.True(t, ok, "buffered task still readable")

		_, ok = <-q.GetChannel()
		assert.False(t, ok, "channel closed after drain")
	})
}
