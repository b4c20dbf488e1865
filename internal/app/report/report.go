package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"shiki/internal/app/errors"
	"shiki/internal/app/recorder"
	"shiki/internal/app/workflow"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

// Report is the serialized form of one workflow run
type Report struct {
	Workflow *workflow.Metadata `yaml:"workflow"`
	Events   []recorder.Event   `yaml:"events"`
}

// Reporter renders and persists workflow run reports
type Reporter interface {
	Render(meta *workflow.Metadata, events []recorder.Event) string
	Write(meta *workflow.Metadata, events []recorder.Event) error
}

// reporter implements the Reporter interface
type reporter struct {
	cfg *config.Config
	log logger.Logger
}

// NewReporter creates a new workflow reporter
func NewReporter(cfg *config.Config, log logger.Logger) Reporter {
	return &reporter{
		cfg: cfg,
		log: log.WithComponent("REPORT"),
	}
}

// Render produces the plain-text run report
func (r *reporter) Render(meta *workflow.Metadata, events []recorder.Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Workflow %s\n", meta.ID)
	fmt.Fprintf(&b, "Action:   %s\n", meta.Action)
	fmt.Fprintf(&b, "Status:   %s\n", meta.Status)
	fmt.Fprintf(&b, "Started:  %s\n", meta.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", meta.Duration().Truncate(time.Millisecond))
	fmt.Fprintf(&b, "\nEvents (%d):\n", len(events))

	for _, e := range events {
		fmt.Fprintf(&b, "  %s  %-20s %s", e.Timestamp.Format("15:04:05.000"), e.Kind, e.Service)

		switch e.Kind {
		case recorder.KindTaskEnd:
			fmt.Fprintf(&b, " %s %s", e.Action, taskEndSuffix(e))
		case recorder.KindForceKill:
			fmt.Fprintf(&b, " pattern '%s' (%d processes)", e.Pattern, len(e.Processes))
		case recorder.KindFailure:
			fmt.Fprintf(&b, " %s: %s", e.Action, e.Error)
		case recorder.KindFileMonitorTimeout:
			fmt.Fprintf(&b, " %s", e.Error)
		default:
			fmt.Fprintf(&b, " %s", e.Action)
		}

		b.WriteString("\n")
	}

	return b.String()
}

// Write persists the YAML event dump to the configured report path. Without
// a configured path this is a no-op.
func (r *reporter) Write(meta *workflow.Metadata, events []recorder.Event) error {
	if r.cfg.Workflow.Report == "" {
		return nil
	}

	f, err := os.Create(r.cfg.Workflow.Report)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, meta, events); err != nil {
		return err
	}

	r.log.Info().Msgf("Report written to %s", r.cfg.Workflow.Report)

	return nil
}

// Encode writes the YAML form of one run to w
func Encode(w io.Writer, meta *workflow.Metadata, events []recorder.Event) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	if err := enc.Encode(&Report{Workflow: meta, Events: events}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}

// Decode reads a YAML run report back
func Decode(r io.Reader) (*Report, error) {
	var report Report

	if err := yaml.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrFailedToParseConfig, err)
	}

	return &report, nil
}

// taskEndSuffix summarizes the terminal task state for the text report
func taskEndSuffix(e recorder.Event) string {
	switch {
	case e.Skipped:
		return "skipped (already in desired state)"
	case e.Outcome == recorder.OutcomeForceKilled:
		return fmt.Sprintf("force killed in %s", e.Duration.Truncate(time.Millisecond))
	case e.Success:
		return fmt.Sprintf("ok in %s", e.Duration.Truncate(time.Millisecond))
	default:
		return "failed"
	}
}
