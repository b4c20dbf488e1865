package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the overall state of one workflow run
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Metadata describes one workflow run. Status transitions from Running to
// exactly one of Success or Failed when the run finishes.
type Metadata struct {
	ID        string    `yaml:"id"`
	Action    string    `yaml:"action"`
	StartTime time.Time `yaml:"start_time"`
	EndTime   time.Time `yaml:"end_time"`
	Status    Status    `yaml:"status"`
}

// newMetadata creates the metadata for a run that is starting now
func newMetadata(action string) *Metadata {
	return &Metadata{
		ID:        uuid.NewString(),
		Action:    action,
		StartTime: time.Now(),
		Status:    StatusRunning,
	}
}

// finish seals the run with its terminal status. A finished run is never
// reopened.
func (m *Metadata) finish(failed bool) {
	if m.Status != StatusRunning {
		return
	}

	m.EndTime = time.Now()

	if failed {
		m.Status = StatusFailed
	} else {
		m.Status = StatusSuccess
	}
}

// Duration returns the wall-clock duration of the run
func (m *Metadata) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}
