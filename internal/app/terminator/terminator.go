//go:generate mockgen -source=terminator.go -destination=terminator_mock.go -package=terminator
package terminator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/gobwas/glob"
	"github.com/shirou/gopsutil/v4/process"

	"shiki/internal/app/errors"
	"shiki/internal/app/worker"
	"shiki/internal/config/logger"
)

// ProcessInfo describes one process matched by a pattern
type ProcessInfo struct {
	PID     int32
	Command string
	User    string
}

// Terminator matches processes by command-line pattern and signals them
type Terminator interface {
	ListMatching(pattern string) ([]ProcessInfo, error)
	KillMatching(ctx context.Context, pattern string) (int, error)
}

type scanFunc func() ([]ProcessInfo, error)
type killFunc func(pid int32) error

// terminator implements the Terminator interface
type terminator struct {
	scan scanFunc
	kill killFunc
	pool worker.Pool
	log  logger.Logger
}

// NewTerminator creates a new Terminator instance
func NewTerminator(pool worker.Pool, log logger.Logger) Terminator {
	return &terminator{
		scan: scan,
		kill: kill,
		pool: pool,
		log:  log.WithComponent("TERMINATOR"),
	}
}

// ListMatching returns the processes whose command line matches the pattern.
// Used to capture an audit listing before a force kill.
func (t *terminator) ListMatching(pattern string) ([]ProcessInfo, error) {
	matcher, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	processes, err := t.scan()
	if err != nil {
		return nil, err
	}

	ownPID := int32(os.Getpid()) // #nosec G115 -- PID fits in int32
	matches := make([]ProcessInfo, 0)

	for _, proc := range processes {
		if proc.PID == ownPID {
			continue
		}

		if matcher.Match(proc.Command) {
			matches = append(matches, proc)
		}
	}

	return matches, nil
}

// KillMatching sends SIGKILL to every process matching the pattern and
// returns the number of matched processes.
func (t *terminator) KillMatching(ctx context.Context, pattern string) (int, error) {
	matches, err := t.ListMatching(pattern)
	if err != nil {
		return 0, err
	}

	if len(matches) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup

	for _, m := range matches {
		if err := t.pool.Acquire(ctx); err != nil {
			t.log.Warn().Err(err).Msg("Context cancelled, stopping kills")

			break
		}

		wg.Add(1)

		go func(m ProcessInfo) {
			defer wg.Done()
			defer t.pool.Release()

			t.log.Info().Msgf("Killing process %d (%s)", m.PID, m.Command)

			if err := t.kill(m.PID); err != nil {
				t.log.Warn().Err(err).Msgf("Failed to kill process %d", m.PID)
			}
		}(m)
	}

	wg.Wait()

	return len(matches), nil
}

// compile turns a process pattern into a substring-style glob matcher.
// A plain pattern matches anywhere in the command line; explicit wildcards
// are passed through.
func compile(pattern string) (glob.Glob, error) {
	expanded := pattern
	if !strings.ContainsAny(pattern, "*?[") {
		expanded = "*" + pattern + "*"
	}

	g, err := glob.Compile(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidGlobPattern, pattern)
	}

	return g, nil
}

// scan lists all visible processes with their command line and owner
func scan() ([]ProcessInfo, error) {
	processes, err := process.Processes()
	if err != nil {
		return nil, err
	}

	results := make([]ProcessInfo, 0, len(processes))

	for _, p := range processes {
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}

		user, _ := p.Username()
		results = append(results, ProcessInfo{
			PID:     p.Pid,
			Command: cmdline,
			User:    user,
		})
	}

	return results, nil
}

// kill delivers SIGKILL to the process group first, then the pid itself
func kill(pid int32) error {
	if err := syscall.Kill(-int(pid), syscall.SIGKILL); err == nil {
		return nil
	}

	return syscall.Kill(int(pid), syscall.SIGKILL)
}
