package tasks

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRun(t *testing.T) {
	bgTasks := New(discardLog, 3, 10)
	bgTasks.Run()
	var runned atomic.Int32
	for range 5 {
		require.True(t, bgTasks.Add(func() { runned.Add(1) }))
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.EqualValues(t, 5, runned.Load())
	assert.False(t, bgTasks.Add(func() {}), "closed queue must reject tasks")
}

func TestPanicKeepsWorkerAlive(t *testing.T) {
	bgTasks := New(discardLog, 1, 10)
	bgTasks.Run()
	taskRunned := false
	bgTasks.Add(func() { panic("boom") })
	bgTasks.Add(func() { taskRunned = true })
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, taskRunned)
}

func TestAddAfterShutdown(t *testing.T) {
	bgTasks := New(discardLog, 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.False(t, bgTasks.Add(func() {}))
	assert.NoError(t, bgTasks.Shutdown(context.Background()))
}

func TestAddQueueFull(t *testing.T) {
	// workers are not started, so the queue only fills up
	bgTasks := New(discardLog, 1, 1)
	assert.True(t, bgTasks.Add(func() {}))
	assert.False(t, bgTasks.Add(func() {}))
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(discardLog, 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	bgTasks.Add(func() { <-release })
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
}
