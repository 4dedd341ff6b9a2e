package toolgate

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/toolgate/settings"
)

// failingCloser is a settings store whose Close always fails.
type failingCloser struct {
	settings.Store
	closeErr   error
	closeCalls int
}

func (f *failingCloser) Close() error {
	f.closeCalls++
	return f.closeErr
}

func TestCloseWithLog_NilCloser(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	CloseWithLog(nil, logger, "settings store")

	assert.Empty(t, logBuf.String(), "should not log for nil closer")
}

func TestCloseWithLog_Gate(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	g, err := New(nil)
	require.NoError(t, err)

	CloseWithLog(g, logger, "tool gate")

	assert.Empty(t, logBuf.String(), "should not log on successful close")
}

func TestCloseWithLog_CloseError(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	store := &failingCloser{
		Store:    settings.NewMemoryStore(nil),
		closeErr: errors.New("connection reset"),
	}

	func() {
		defer CloseWithLog(store, logger, "settings store")
	}()

	assert.Equal(t, 1, store.closeCalls, "should call Close once")

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "failed to close resource")
	assert.Contains(t, logOutput, "settings store")
	assert.Contains(t, logOutput, "connection reset")
	assert.Contains(t, logOutput, "level=WARN")
}

func TestCloseWithLog_NilLogger(t *testing.T) {
	store := &failingCloser{closeErr: errors.New("test error")}

	require.NotPanics(t, func() {
		CloseWithLog(store, nil, "settings store")
	})

	assert.Equal(t, 1, store.closeCalls, "should call Close once")
}
