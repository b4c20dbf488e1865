package terminator

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiki/internal/app/errors"
	"shiki/internal/app/worker"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

func newTestTerminator(t *testing.T, scan scanFunc, kill killFunc) *terminator {
	t.Helper()

	cfg := config.DefaultConfig()
	log := logger.NewLoggerWithOutput(cfg, io.Discard)

	return &terminator{
		scan: scan,
		kill: kill,
		pool: worker.NewPool(cfg),
		log:  log.WithComponent("TERMINATOR"),
	}
}

func fixedScan(procs ...ProcessInfo) scanFunc {
	return func() ([]ProcessInfo, error) {
		return procs, nil
	}
}

func Test_NewTerminator(t *testing.T) {
	cfg := config.DefaultConfig()
	log := logger.NewLoggerWithOutput(cfg, io.Discard)

	term := NewTerminator(worker.NewPool(cfg), log)

	assert.NotNil(t, term)
}

func Test_ListMatching(t *testing.T) {
	term := newTestTerminator(t, fixedScan(
		ProcessInfo{PID: 100, Command: "java -DCOMPONENT=kafka -jar broker.jar", User: "kafka"},
		ProcessInfo{PID: 101, Command: "java -DCOMPONENT=indexer -jar indexer.jar", User: "indexer"},
		ProcessInfo{PID: 102, Command: "sshd: root", User: "root"},
	), nil)

	matches, err := term.ListMatching("COMPONENT=kafka")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int32(100), matches[0].PID)
	assert.Equal(t, "kafka", matches[0].User)
}

func Test_ListMatching_ExplicitWildcards(t *testing.T) {
	term := newTestTerminator(t, fixedScan(
		ProcessInfo{PID: 100, Command: "java -DCOMPONENT=kafka -jar broker.jar"},
		ProcessInfo{PID: 101, Command: "java -DCOMPONENT=kafka-mirror -jar mirror.jar"},
	), nil)

	matches, err := term.ListMatching("*COMPONENT=kafka -jar*")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int32(100), matches[0].PID)
}

func Test_ListMatching_InvalidPattern(t *testing.T) {
	term := newTestTerminator(t, fixedScan(), nil)

	_, err := term.ListMatching("[")

	assert.ErrorIs(t, err, errors.ErrInvalidGlobPattern)
}

func Test_KillMatching(t *testing.T) {
	var (
		mu     sync.Mutex
		killed []int32
	)

	term := newTestTerminator(t, fixedScan(
		ProcessInfo{PID: 100, Command: "java -DCOMPONENT=kafka"},
		ProcessInfo{PID: 101, Command: "java -DCOMPONENT=kafka"},
		ProcessInfo{PID: 102, Command: "unrelated"},
	), func(pid int32) error {
		mu.Lock()
		defer mu.Unlock()

		killed = append(killed, pid)

		return nil
	})

	count, err := term.KillMatching(context.Background(), "COMPONENT=kafka")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []int32{100, 101}, killed)
}

func Test_KillMatching_NoMatches(t *testing.T) {
	killCalls := 0

	term := newTestTerminator(t, fixedScan(
		ProcessInfo{PID: 102, Command: "unrelated"},
	), func(pid int32) error {
		killCalls++
		return nil
	})

	count, err := term.KillMatching(context.Background(), "COMPONENT=kafka")

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, killCalls)
}

func Test_KillMatching_KillErrorIsNonFatal(t *testing.T) {
	term := newTestTerminator(t, fixedScan(
		ProcessInfo{PID: 100, Command: "java -DCOMPONENT=kafka"},
	), func(pid int32) error {
		return errors.New("operation not permitted")
	})

	count, err := term.KillMatching(context.Background(), "COMPONENT=kafka")

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
