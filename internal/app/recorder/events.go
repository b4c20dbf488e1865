package recorder

import (
	"time"

	"shiki/internal/app/terminator"
)

// Kind represents the kind of workflow event
type Kind string

// Event kinds
const (
	KindTaskStart          Kind = "task_start"
	KindTaskEnd            Kind = "task_end"
	KindForceKill          Kind = "force_kill"
	KindFileMonitorTimeout Kind = "file_monitor_timeout"
	KindFailure            Kind = "failure"
)

// Outcome values carried by stop TaskEnd events
const (
	OutcomeGraceful    = "graceful"
	OutcomeForceKilled = "force_killed"
)

// Event is one audit record. Events are immutable once created and owned by
// the Recorder for the duration of a workflow run.
type Event struct {
	Kind      Kind          `yaml:"kind"`
	Service   string        `yaml:"service"`
	Action    string        `yaml:"action,omitempty"`
	Timestamp time.Time     `yaml:"timestamp"`
	Duration  time.Duration `yaml:"duration,omitempty"`

	Success bool   `yaml:"success,omitempty"`
	Skipped bool   `yaml:"skipped,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`
	Error   string `yaml:"error,omitempty"`

	Pattern   string                   `yaml:"pattern,omitempty"`
	Processes []terminator.ProcessInfo `yaml:"processes,omitempty"`
}

// TaskStart builds the event emitted when an action begins for a service
func TaskStart(service, action string) Event {
	return Event{
		Kind:      KindTaskStart,
		Service:   service,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// TaskEnd builds the terminal event for one service action
func TaskEnd(service, action string, success, skipped bool, duration time.Duration) Event {
	return Event{
		Kind:      KindTaskEnd,
		Service:   service,
		Action:    action,
		Timestamp: time.Now(),
		Duration:  duration,
		Success:   success,
		Skipped:   skipped,
	}
}

// ForceKill builds the audit event emitted before processes are terminated
func ForceKill(service, pattern string, processes []terminator.ProcessInfo) Event {
	return Event{
		Kind:      KindForceKill,
		Service:   service,
		Timestamp: time.Now(),
		Pattern:   pattern,
		Processes: processes,
	}
}

// FileMonitorTimeout builds the event emitted when a monitored file never appeared
func FileMonitorTimeout(service, path string, waited time.Duration) Event {
	return Event{
		Kind:      KindFileMonitorTimeout,
		Service:   service,
		Timestamp: time.Now(),
		Duration:  waited,
		Error:     path,
	}
}

// Failure builds the event recorded when a service action fails
func Failure(service, action string, err error) Event {
	e := Event{
		Kind:      KindFailure,
		Service:   service,
		Action:    action,
		Timestamp: time.Now(),
	}

	if err != nil {
		e.Error = err.Error()
	}

	return e
}
