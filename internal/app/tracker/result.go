package tracker

import "sync"

// Status represents the current state of a service within a workflow run
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

// String returns the human-readable form used in the run summary
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Result defines the interface for per-service result management
type Result interface {
	Name() string
	Status() Status
	SetStatus(status Status)
	Err() error
	SetErr(err error)
	Skipped() bool
	SetSkipped(skipped bool)
}

// serviceResult holds the status and error information for one service
type serviceResult struct {
	name    string
	status  Status
	err     error
	skipped bool
	mu      sync.RWMutex
}

// NewResult creates a new service result with pending status
func NewResult(name string) Result {
	return &serviceResult{
		name:   name,
		status: StatusPending,
	}
}

// Name returns the service name
func (sr *serviceResult) Name() string {
	return sr.name
}

// Status returns the current status
func (sr *serviceResult) Status() Status {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	return sr.status
}

// SetStatus safely updates the service status
func (sr *serviceResult) SetStatus(status Status) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.status = status
}

// Err returns the recorded failure, nil while the service is healthy
func (sr *serviceResult) Err() error {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	return sr.err
}

// SetErr safely sets the failure for the service
func (sr *serviceResult) SetErr(err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.err = err
}

// Skipped reports whether the action was an idempotency short-circuit
func (sr *serviceResult) Skipped() bool {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	return sr.skipped
}

// SetSkipped marks the action as skipped
func (sr *serviceResult) SetSkipped(skipped bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.skipped = skipped
}
