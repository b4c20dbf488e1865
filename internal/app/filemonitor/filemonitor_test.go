package filemonitor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiki/internal/app/errors"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

func newTestMonitor() Monitor {
	cfg := config.DefaultConfig()
	return NewMonitor(logger.NewLoggerWithOutput(cfg, io.Discard))
}

func Test_Wait_FileAlreadyExists(t *testing.T) {
	m := newTestMonitor()

	path := filepath.Join(t.TempDir(), "ready")
	require.NoError(t, os.WriteFile(path, []byte("ok"), 0644))

	err := m.Wait(context.Background(), path, time.Second)

	assert.NoError(t, err)
}

func Test_Wait_FileAppears(t *testing.T) {
	m := newTestMonitor()

	path := filepath.Join(t.TempDir(), "ready")

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(path, []byte("ok"), 0644)
	}()

	err := m.Wait(context.Background(), path, 5*time.Second)

	assert.NoError(t, err)
}

func Test_Wait_Timeout(t *testing.T) {
	m := newTestMonitor()

	path := filepath.Join(t.TempDir(), "never")

	err := m.Wait(context.Background(), path, 200*time.Millisecond)

	assert.ErrorIs(t, err, errors.ErrFileMonitorTimeout)
}

func Test_Wait_ContextCancelled(t *testing.T) {
	m := newTestMonitor()

	path := filepath.Join(t.TempDir(), "never")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := m.Wait(ctx, path, 10*time.Second)

	assert.ErrorIs(t, err, context.Canceled)
}
