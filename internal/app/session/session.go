package session

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"shiki/internal/app/errors"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

const pidTimeTolerance = 2 * time.Second

// State represents the in-flight run recorded in the lock file
type State struct {
	PID       int       `json:"pid"`
	Action    string    `json:"action"`
	StartedAt time.Time `json:"started_at"`
}

// Session is the run lock: it refuses a second workflow while another live
// shiki process holds the lock
type Session interface {
	Acquire(action string) error
	Release() error
}

type session struct {
	mu   sync.Mutex
	path string
	log  logger.Logger
}

// NewSession creates a new session lock
func NewSession(log logger.Logger) Session {
	return &session{
		path: config.SessionPath,
		log:  log.WithComponent("SESSION"),
	}
}

// Acquire takes the run lock. A lock file naming a live process fails with
// ErrWorkflowAlreadyRunning; a stale or unreadable lock file is replaced.
func (s *session) Acquire(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state := s.load(); state != nil {
		if verifyPID(state) {
			return fmt.Errorf("%w: pid %d (%s since %s)",
				errors.ErrWorkflowAlreadyRunning, state.PID, state.Action, state.StartedAt.Format(time.RFC3339))
		}

		s.log.Debug().Msgf("Replacing stale session lock (pid %d)", state.PID)
	}

	return s.save(&State{
		PID:       os.Getpid(),
		Action:    action,
		StartedAt: processStart(os.Getpid()),
	})
}

// Release removes the run lock. Releasing an already-released lock is a no-op.
func (s *session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (s *session) save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// load returns nil for a missing or corrupted lock file; both mean the lock
// is free to take
func (s *session) load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn().Msgf("Corrupted session lock at %s, ignoring", s.path)

		return nil
	}

	return &state
}

// verifyPID checks that the recorded pid is alive and was started when the
// lock says it was, guarding against pid reuse
func verifyPID(state *State) bool {
	proc, err := process.NewProcess(int32(state.PID)) //nolint:gosec // PID values are always within int32 range
	if err != nil {
		return false
	}

	createTime, err := proc.CreateTime()
	if err != nil {
		return false
	}

	procStart := time.UnixMilli(createTime)
	diff := math.Abs(float64(procStart.Sub(state.StartedAt).Milliseconds()))

	return diff <= float64(pidTimeTolerance.Milliseconds())
}

// processStart returns the kernel-reported start time of a pid, falling back
// to now when it cannot be read
func processStart(pid int) time.Time {
	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // PID values are always within int32 range
	if err != nil {
		return time.Now()
	}

	createTime, err := proc.CreateTime()
	if err != nil {
		return time.Now()
	}

	return time.UnixMilli(createTime)
}
