package server

import (
	"context"
	"net/http"
	"syscall"
	"testing"
	"time"

	"user-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{HTTPHost: "127.0.0.1", HTTPPort: "0"}}
	srv := New(cfg, zaptest.NewLogger(t), http.NotFoundHandler())

	assert.Equal(t, "127.0.0.1:0", srv.HTTP.Addr)
	assert.Equal(t, 10*time.Second, srv.HTTP.WriteTimeout)

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	// give Serve a moment to start; Shutdown before Serve is also handled
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWithSignal_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := WithSignal(parent)
	defer stop()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled")
	}
}

func TestWithSignal_StopCancels(t *testing.T) {
	ctx, stop := WithSignal(context.Background())
	require.NoError(t, ctx.Err())

	stop()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the context")
	}
}

func TestWithSignal_SIGTERM(t *testing.T) {
	ctx, stop := WithSignal(context.Background())
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("SIGTERM did not cancel the context")
	}
}
