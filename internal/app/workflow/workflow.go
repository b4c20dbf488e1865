//go:generate mockgen -source=workflow.go -destination=workflow_mock.go -package=workflow
package workflow

import (
	"context"
	"fmt"
	"time"

	"shiki/internal/app/errors"
	"shiki/internal/app/lifecycle"
	"shiki/internal/app/recorder"
	"shiki/internal/app/tracker"
	"shiki/internal/app/validate"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

// Workflow defines the interface for running one action across an ordered
// set of services
type Workflow interface {
	Run(ctx context.Context, services []string, action string) (*Metadata, []recorder.Event)
}

// workflow implements the Workflow interface
type workflow struct {
	cfg   *config.Config
	ctrl  lifecycle.Controller
	rec   recorder.Recorder
	track tracker.Tracker
	log   logger.Logger
}

// NewWorkflow creates a new workflow runner
func NewWorkflow(
	cfg *config.Config,
	ctrl lifecycle.Controller,
	rec recorder.Recorder,
	track tracker.Tracker,
	log logger.Logger,
) Workflow {
	return &workflow{
		cfg:   cfg,
		ctrl:  ctrl,
		rec:   rec,
		track: track,
		log:   log.WithComponent("WORKFLOW"),
	}
}

// Run executes one action over the services strictly in the given order: each
// service is fully resolved, including retries and any force-kill escalation,
// before the next one begins. Run always returns metadata with a terminal
// status plus the recorded event snapshot; it never panics outward.
func (w *workflow) Run(ctx context.Context, services []string, action string) (*Metadata, []recorder.Event) {
	meta := newMetadata(action)

	w.log.Info().Msgf("Workflow %s: %s %v", meta.ID, action, services)

	failed := false

	if err := validate.Action(action); err != nil {
		w.rec.Record(recorder.Failure("", action, err))
		meta.finish(true)

		return meta, w.rec.Snapshot()
	}

	for _, name := range services {
		if ctx.Err() != nil {
			w.log.Warn().Msgf("Workflow %s canceled before service '%s'", meta.ID, name)

			failed = true

			break
		}

		if err := w.runService(ctx, name, action); err != nil {
			failed = true

			if !w.cfg.Workflow.ContinueOnError {
				w.log.Warn().Msgf("Aborting workflow %s after failure of '%s'", meta.ID, name)

				break
			}
		}
	}

	meta.finish(failed)
	w.log.Info().Msgf("Workflow %s finished: %s in %s", meta.ID, meta.Status, meta.Duration().Truncate(time.Millisecond))

	return meta, w.rec.Snapshot()
}

// runService resolves one action for one service and tracks its result
func (w *workflow) runService(ctx context.Context, name, action string) error {
	result := w.track.Add(name)
	result.SetStatus(tracker.StatusRunning)

	svc, exists := w.cfg.Services[name]
	if !exists {
		err := fmt.Errorf("%w: '%s'", errors.ErrServiceNotFound, name)
		w.rec.Record(recorder.Failure(name, action, err))
		w.failResult(result, err)

		return err
	}

	if err := validate.Service(action, name, svc); err != nil {
		w.rec.Record(recorder.Failure(name, action, err))
		w.failResult(result, err)

		return err
	}

	var err error

	switch action {
	case config.ActionStart:
		err = w.ctrl.Start(ctx, name, svc)
	case config.ActionStop:
		_, err = w.ctrl.Stop(ctx, name, svc)
	case config.ActionStatus:
		err = w.runStatus(ctx, name, svc)
	}

	if err != nil {
		w.failResult(result, err)

		return err
	}

	result.SetStatus(tracker.StatusSucceeded)
	result.SetSkipped(w.lastTaskSkipped(name, action))

	return nil
}

// runStatus queries and logs the service state. Status is informational: an
// unclear or failed query is reported but never fails the workflow.
func (w *workflow) runStatus(ctx context.Context, name string, svc *config.Service) error {
	report, err := w.ctrl.Status(ctx, name, svc)
	if err != nil {
		w.log.Warn().Err(err).Msgf("Status query for '%s' failed", name)

		return nil
	}

	switch {
	case report.Running:
		w.log.Info().Msgf("Service '%s' is running", name)
	case report.Stopped:
		w.log.Info().Msgf("Service '%s' is stopped", name)
	default:
		w.log.Warn().Msgf("Service '%s' state is unclear (rc=%d)", name, report.ReturnCode)
	}

	return nil
}

// failResult marks a tracked result as failed
func (w *workflow) failResult(result tracker.Result, err error) {
	result.SetStatus(tracker.StatusFailed)
	result.SetErr(err)
}

// lastTaskSkipped reports whether the most recent TaskEnd for the service and
// action was an idempotency short-circuit
func (w *workflow) lastTaskSkipped(name, action string) bool {
	events := w.rec.Snapshot()

	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Kind == recorder.KindTaskEnd && e.Service == name && e.Action == action {
			return e.Skipped
		}
	}

	return false
}
