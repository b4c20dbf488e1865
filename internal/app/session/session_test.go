package session

import (
	"encoding/json"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiki/internal/app/errors"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

func testSession(t *testing.T) Session {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })

	cfg := config.DefaultConfig()

	return NewSession(logger.NewLoggerWithOutput(cfg, io.Discard))
}

func Test_AcquireAndRelease(t *testing.T) {
	s := testSession(t)

	require.NoError(t, s.Acquire(config.ActionStart))

	data, err := os.ReadFile(config.SessionPath)
	require.NoError(t, err)

	var state State
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, os.Getpid(), state.PID)
	assert.Equal(t, config.ActionStart, state.Action)

	require.NoError(t, s.Release())

	_, err = os.Stat(config.SessionPath)
	assert.True(t, os.IsNotExist(err))
}

func Test_Acquire_RefusesLiveLock(t *testing.T) {
	s := testSession(t)

	require.NoError(t, s.Acquire(config.ActionStart))

	// The lock names this test process, which is definitely alive
	err := s.Acquire(config.ActionStop)

	assert.ErrorIs(t, err, errors.ErrWorkflowAlreadyRunning)
}

func Test_Acquire_ReplacesStaleLock(t *testing.T) {
	s := testSession(t)

	stale := State{PID: 1 << 22, Action: config.ActionStart, StartedAt: time.Now()}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config.SessionPath, data, 0o600))

	assert.NoError(t, s.Acquire(config.ActionStop))
}

func Test_Acquire_ReplacesCorruptedLock(t *testing.T) {
	s := testSession(t)

	require.NoError(t, os.WriteFile(config.SessionPath, []byte("{not json"), 0o600))

	assert.NoError(t, s.Acquire(config.ActionStart))
}

func Test_Acquire_PIDReuseDetected(t *testing.T) {
	s := testSession(t)

	// Live pid, but a start time from long before this process existed:
	// the lock must be treated as stale
	reused := State{PID: os.Getpid(), Action: config.ActionStart, StartedAt: time.Now().Add(-24 * time.Hour)}
	data, err := json.Marshal(reused)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config.SessionPath, data, 0o600))

	assert.NoError(t, s.Acquire(config.ActionStop))
}

func Test_Release_WithoutAcquire(t *testing.T) {
	s := testSession(t)

	assert.NoError(t, s.Release())
}
