//go:generate mockgen -source=lifecycle.go -destination=lifecycle_mock.go -package=lifecycle
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"shiki/internal/app/errors"
	"shiki/internal/app/executor"
	"shiki/internal/app/filemonitor"
	"shiki/internal/app/recorder"
	"shiki/internal/app/terminator"
	"shiki/internal/app/validate"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

// StopOutcome reports which branch resolved a stop operation
type StopOutcome string

const (
	StopGraceful    StopOutcome = "graceful"
	StopForceKilled StopOutcome = "force_killed"
	StopFailed      StopOutcome = "failed"
)

// StatusReport is the informational result of a status query
type StatusReport struct {
	Running    bool
	Stopped    bool
	Output     string
	ReturnCode int
}

// Controller executes start, stop and status flows for a single service.
// Stop escalates from graceful shutdown to force kill when allowed.
type Controller interface {
	Start(ctx context.Context, name string, svc *config.Service) error
	Stop(ctx context.Context, name string, svc *config.Service) (StopOutcome, error)
	Status(ctx context.Context, name string, svc *config.Service) (StatusReport, error)
}

// controller implements the Controller interface
type controller struct {
	exec    executor.Executor
	term    terminator.Terminator
	monitor filemonitor.Monitor
	rec     recorder.Recorder
	log     logger.Logger
}

// NewController creates a new lifecycle controller
func NewController(
	exec executor.Executor,
	term terminator.Terminator,
	monitor filemonitor.Monitor,
	rec recorder.Recorder,
	log logger.Logger,
) Controller {
	return &controller{
		exec:    exec,
		term:    term,
		monitor: monitor,
		rec:     rec,
		log:     log.WithComponent("LIFECYCLE"),
	}
}

// Start brings a service to the running state. Already-running services
// short-circuit after the initial status query.
func (c *controller) Start(ctx context.Context, name string, svc *config.Service) error {
	m := newRunFSM(name, config.ActionStart, c.log)
	_ = m.Event(ctx, EventBegin)

	started := time.Now()

	c.rec.Record(recorder.TaskStart(name, config.ActionStart))

	status, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStatus))
	if err == nil && matches(status, checks(svc).Running, svc.Action(config.ActionStatus).ExpectRC) {
		c.log.Info().Msgf("Service '%s' already running, skipping start", name)

		_ = m.Event(ctx, EventSucceed)
		c.rec.Record(recorder.TaskEnd(name, config.ActionStart, true, true, time.Since(started)))

		return nil
	}

	action := svc.Action(config.ActionStart)

	result, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStart))
	if err != nil {
		return c.fail(ctx, m, name, config.ActionStart, err)
	}

	if result.TimedOut {
		return c.fail(ctx, m, name, config.ActionStart, fmt.Errorf("%w: start after %s", errors.ErrCommandTimedOut, svc.Timeout))
	}

	if !matches(result, checks(svc).Start, action.ExpectRC) {
		return c.fail(ctx, m, name, config.ActionStart, startValidationError(result, checks(svc).Start, action.ExpectRC))
	}

	if !c.pollStatus(ctx, svc, checks(svc).Running, action.Attempts, action.Delay) {
		if ctx.Err() != nil {
			return c.fail(ctx, m, name, config.ActionStart, ctx.Err())
		}

		return c.fail(ctx, m, name, config.ActionStart,
			fmt.Errorf("%w: after %d attempts", errors.ErrStartVerificationFailed, action.Attempts))
	}

	if svc.Monitor != nil {
		if err := c.monitor.Wait(ctx, svc.Monitor.Path, svc.Monitor.Timeout); err != nil {
			if errors.Is(err, errors.ErrFileMonitorTimeout) {
				c.rec.Record(recorder.FileMonitorTimeout(name, svc.Monitor.Path, svc.Monitor.Timeout))
			}

			return c.fail(ctx, m, name, config.ActionStart, err)
		}
	}

	_ = m.Event(ctx, EventSucceed)
	c.rec.Record(recorder.TaskEnd(name, config.ActionStart, true, false, time.Since(started)))
	c.log.Info().Msgf("Service '%s' started in %s", name, time.Since(started).Truncate(time.Millisecond))

	return nil
}

// Stop brings a service to the stopped state, escalating to force kill when
// the graceful path fails and the service allows it.
func (c *controller) Stop(ctx context.Context, name string, svc *config.Service) (StopOutcome, error) {
	m := newRunFSM(name, config.ActionStop, c.log)
	_ = m.Event(ctx, EventBegin)

	started := time.Now()

	c.rec.Record(recorder.TaskStart(name, config.ActionStop))

	status, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStatus))
	if err == nil && matches(status, checks(svc).Stopped, svc.Action(config.ActionStatus).ExpectRC) {
		c.log.Info().Msgf("Service '%s' already stopped, skipping stop", name)

		_ = m.Event(ctx, EventSucceed)
		c.rec.Record(recorder.TaskEnd(name, config.ActionStop, true, true, time.Since(started)))

		return StopGraceful, nil
	}

	gracefulErr := c.stopGracefully(ctx, name, svc)
	if gracefulErr == nil {
		_ = m.Event(ctx, EventSucceed)

		end := recorder.TaskEnd(name, config.ActionStop, true, false, time.Since(started))
		end.Outcome = recorder.OutcomeGraceful
		c.rec.Record(end)

		return StopGraceful, nil
	}

	if ctx.Err() != nil {
		return StopFailed, c.fail(ctx, m, name, config.ActionStop, ctx.Err())
	}

	c.log.Warn().Err(gracefulErr).Msgf("Graceful stop of '%s' failed, evaluating force kill", name)

	// Rescue branch: any graceful failure is recoverable via force kill,
	// never fatal on its own.
	if !svc.ForceKillAllowed() {
		return StopFailed, c.fail(ctx, m, name, config.ActionStop,
			fmt.Errorf("%w: %v", errors.ErrForceKillDisabled, gracefulErr))
	}

	// The pattern is re-checked here even though the validation layer ran
	// first: a reconfiguration between validation and escalation must not
	// widen the kill radius.
	if err := validate.Pattern(svc.Pattern); err != nil {
		return StopFailed, c.fail(ctx, m, name, config.ActionStop, err)
	}

	if err := c.forceKill(ctx, name, svc); err != nil {
		return StopFailed, c.fail(ctx, m, name, config.ActionStop, err)
	}

	_ = m.Event(ctx, EventSucceed)

	end := recorder.TaskEnd(name, config.ActionStop, true, false, time.Since(started))
	end.Outcome = recorder.OutcomeForceKilled
	c.rec.Record(end)

	c.log.Info().Msgf("Service '%s' stopped by force kill", name)

	return StopForceKilled, nil
}

// Status queries the service state once. Status never mutates anything and
// never fails a workflow; executor problems surface as an error for logging.
func (c *controller) Status(ctx context.Context, name string, svc *config.Service) (StatusReport, error) {
	c.rec.Record(recorder.TaskStart(name, config.ActionStatus))

	result, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStatus))
	if err != nil {
		c.rec.Record(recorder.TaskEnd(name, config.ActionStatus, false, false, result.Duration))

		return StatusReport{}, err
	}

	report := StatusReport{
		Running:    matches(result, checks(svc).Running, svc.Action(config.ActionStatus).ExpectRC),
		Stopped:    matches(result, checks(svc).Stopped, svc.Action(config.ActionStatus).ExpectRC),
		Output:     result.Stdout,
		ReturnCode: result.ReturnCode,
	}

	c.rec.Record(recorder.TaskEnd(name, config.ActionStatus, true, false, result.Duration))

	return report, nil
}

// stopGracefully performs the single graceful stop invocation and waits for
// the stopped state within the retry budget
func (c *controller) stopGracefully(ctx context.Context, name string, svc *config.Service) error {
	action := svc.Action(config.ActionStop)

	result, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStop))
	if err != nil {
		return err
	}

	if result.TimedOut {
		return fmt.Errorf("%w: stop after %s", errors.ErrCommandTimedOut, svc.Timeout)
	}

	if !matches(result, checks(svc).Stop, action.ExpectRC) {
		return fmt.Errorf("%w: stop output or return code mismatch (rc=%d)", errors.ErrUnexpectedOutput, result.ReturnCode)
	}

	if !c.pollStatus(ctx, svc, checks(svc).Stopped, action.Attempts, action.Delay) {
		return fmt.Errorf("%w: after %d attempts", errors.ErrStopVerificationFailed, action.Attempts)
	}

	return nil
}

// forceKill captures an audit listing, kills matching processes and verifies
// the service reached the stopped state
func (c *controller) forceKill(ctx context.Context, name string, svc *config.Service) error {
	listing, err := c.term.ListMatching(svc.Pattern)
	if err != nil {
		// Audit capture is best-effort; killing proceeds without it
		c.log.Warn().Err(err).Msgf("Failed to capture process listing for '%s'", name)
		listing = nil
	}

	c.rec.Record(recorder.ForceKill(name, svc.Pattern, listing))
	c.log.Warn().Msgf("Force killing '%s' (pattern '%s', %d processes)", name, svc.Pattern, len(listing))

	if _, err := c.term.KillMatching(ctx, svc.Pattern); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(svc.PostKillWait):
	}

	if !c.pollStatus(ctx, svc, checks(svc).Stopped, svc.KillAttempts, svc.Action(config.ActionStop).Delay) {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("%w: after %d attempts", errors.ErrKillVerificationFailed, svc.KillAttempts)
	}

	return nil
}

// pollStatus queries the service status up to attempts times until the check
// string (and configured return code) matches. attempts counts the first
// query; the delay is applied only between attempts.
func (c *controller) pollStatus(ctx context.Context, svc *config.Service, check string, attempts int, delay time.Duration) bool {
	expectRC := svc.Action(config.ActionStatus).ExpectRC

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(delay):
			}
		}

		result, err := c.exec.Execute(ctx, commandSpec(svc, config.ActionStatus))
		if err != nil {
			continue
		}

		if matches(result, check, expectRC) {
			return true
		}
	}

	return false
}

// fail records the failure event, drives the state machine to failed and
// returns the error
func (c *controller) fail(ctx context.Context, m *fsm.FSM, name, action string, err error) error {
	_ = m.Event(ctx, EventFail)

	c.rec.Record(recorder.Failure(name, action, err))
	c.log.Error().Err(err).Msgf("Service '%s' %s failed", name, action)

	return err
}

// startValidationError distinguishes a return-code mismatch from missing
// output so the report names the actual cause
func startValidationError(result executor.Result, check string, expectRC *int) error {
	if expectRC != nil && result.ReturnCode != *expectRC {
		return fmt.Errorf("%w: got %d, expected %d", errors.ErrUnexpectedReturnCode, result.ReturnCode, *expectRC)
	}

	return fmt.Errorf("%w: start output missing '%s'", errors.ErrUnexpectedOutput, check)
}
