package lifecycle

import (
	"context"

	"github.com/looplab/fsm"

	"shiki/internal/config/logger"
)

// Run states for one service action invocation
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// Run events
const (
	EventBegin   = "begin"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// newRunFSM creates the per-invocation state machine. Each action runs the
// machine idle → running → {succeeded, failed} exactly once; there is no
// persisted cross-invocation state.
func newRunFSM(service, action string, log logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventBegin, Src: []string{StateIdle}, Dst: StateRunning},
			{Name: EventSucceed, Src: []string{StateRunning}, Dst: StateSucceeded},
			{Name: EventFail, Src: []string{StateRunning}, Dst: StateFailed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				log.Debug().Msgf("STATE %s/%s: %s → %s (trigger: %s)", service, action, e.Src, e.Dst, e.Event)
			},
		},
	)
}
