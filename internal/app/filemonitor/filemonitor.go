//go:generate mockgen -source=filemonitor.go -destination=filemonitor_mock.go -package=filemonitor
package filemonitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"shiki/internal/app/errors"
	"shiki/internal/config/logger"
)

// pollInterval guards against missed inotify events on network filesystems
const pollInterval = time.Second

// Monitor waits for a service's readiness file to appear
type Monitor interface {
	Wait(ctx context.Context, path string, timeout time.Duration) error
}

// monitor implements the Monitor interface
type monitor struct {
	log logger.Logger
}

// NewMonitor creates a new file monitor instance
func NewMonitor(log logger.Logger) Monitor {
	return &monitor{log: log.WithComponent("FILEMONITOR")}
}

// Wait blocks until path exists, the timeout elapses, or ctx is cancelled.
// A timeout is reported as ErrFileMonitorTimeout.
func (m *monitor) Wait(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent: the file itself does not exist yet
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	// The file may have appeared between the stat and the watch
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	m.log.Debug().Msgf("Waiting up to %s for '%s'", timeout, path)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: %s after %s", errors.ErrFileMonitorTimeout, path, timeout)
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.ErrFileMonitorTimeout
			}

			if event.Name == path && event.Op.Has(fsnotify.Create|fsnotify.Write) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if ok && err != nil {
				m.log.Warn().Err(err).Msg("Watcher error, relying on polling")
			}
		case <-ticker.C:
			if _, err := os.Stat(path); err == nil {
				return nil
			}
		}
	}
}
