package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingServer struct {
	err error
}

func (s failingServer) Shutdown(context.Context) error { return s.err }

func TestShutdownDrainsTasksWhenServerFails(t *testing.T) {
	app := NewTestApplication(t, nil)
	var ran atomic.Bool
	require.True(t, app.bgTasks.Add(func() { ran.Store(true) }))

	srvErr := errors.New("listener stuck")
	err := app.shutdown(context.Background(), failingServer{err: srvErr})
	assert.ErrorIs(t, err, srvErr)
	assert.True(t, ran.Load(), "queued task must run before shutdown returns")
	assert.False(t, app.bgTasks.Add(func() {}), "queue must be closed after shutdown")
}

func TestShutdownClean(t *testing.T) {
	app := NewTestApplication(t, nil)
	var ran atomic.Bool
	require.True(t, app.bgTasks.Add(func() { ran.Store(true) }))

	require.NoError(t, app.shutdown(context.Background(), failingServer{}))
	assert.True(t, ran.Load())
}
