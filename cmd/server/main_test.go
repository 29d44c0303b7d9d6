package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAwaitShutdown_ListenerFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sig := make(chan os.Signal, 1)
	serverErr := make(chan error, 1)
	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	serverErr <- bindErr

	err := awaitShutdown(sig, serverErr, logger)
	assert.ErrorIs(t, err, bindErr)
}

func TestAwaitShutdown_Signal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sig := make(chan os.Signal, 1)
	serverErr := make(chan error, 1)
	sig <- syscall.SIGTERM

	assert.NoError(t, awaitShutdown(sig, serverErr, logger))
}
