package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"shiki/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	Services map[string]*Service `yaml:"services"`
	Defaults *Operation          `yaml:"defaults"`
	Logging  struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}
	Concurrency struct {
		Workers int `yaml:"workers"`
	}
	Workflow struct {
		ContinueOnError bool   `yaml:"continue_on_error" mapstructure:"continue_on_error"`
		Report          string `yaml:"report"`
	}
	Version int
}

// Order holds the declaration order of services in the config file.
// The file order is the workflow order.
type Order struct {
	Services []string
}

// Service represents a single controllable service
type Service struct {
	Control string `yaml:"control"`
	Script  string `yaml:"script"`
	Unit    string `yaml:"unit"`
	Pattern string `yaml:"pattern"`
	RunAs   string `yaml:"run_as" mapstructure:"run_as"`

	Monitor *Monitor `yaml:"monitor"`

	Start  *Action `yaml:"start"`
	Stop   *Action `yaml:"stop"`
	Status *Action `yaml:"status"`

	Checks *Checks `yaml:"checks"`

	AllowForceKill *bool         `yaml:"allow_force_kill" mapstructure:"allow_force_kill"`
	PostKillWait   time.Duration `yaml:"post_kill_wait" mapstructure:"post_kill_wait"`
	KillAttempts   int           `yaml:"kill_attempts" mapstructure:"kill_attempts"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Action represents per-action tunables for one service operation
type Action struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
	ExpectRC *int          `yaml:"expect_rc" mapstructure:"expect_rc"`
}

// Checks represents the substrings expected in control output per state
type Checks struct {
	Start   string `yaml:"start"`
	Stop    string `yaml:"stop"`
	Running string `yaml:"running"`
	Stopped string `yaml:"stopped"`
}

// Monitor represents an optional post-start file monitor
type Monitor struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// Operation represents the default operation tunables applied to all services
type Operation struct {
	Attempts       int           `yaml:"attempts"`
	Delay          time.Duration `yaml:"delay"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowForceKill bool          `yaml:"allow_force_kill" mapstructure:"allow_force_kill"`
	PostKillWait   time.Duration `yaml:"post_kill_wait" mapstructure:"post_kill_wait"`
	KillAttempts   int           `yaml:"kill_attempts" mapstructure:"kill_attempts"`
	Checks         *Checks       `yaml:"checks"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Services: make(map[string]*Service),
		Version:  1,
	}

	cfg.Logging.Level = LogLevel
	cfg.Logging.Format = LogFormat

	cfg.Concurrency.Workers = MaxWorkers

	cfg.Workflow.ContinueOnError = true

	cfg.Defaults = &Operation{
		Attempts:     RetryAttempts,
		Delay:        RetryDelay,
		Timeout:      CommandTimeout,
		PostKillWait: PostKillWait,
		KillAttempts: KillRetryAttempts,
		Checks:       DefaultChecks(),
	}

	return cfg
}

// DefaultChecks returns the default output check strings
func DefaultChecks() *Checks {
	return &Checks{
		Start:   CheckStart,
		Stop:    CheckStop,
		Running: CheckRunning,
		Stopped: CheckStopped,
	}
}

// DefaultOrder returns an empty service order
func DefaultOrder() *Order {
	return &Order{Services: []string{}}
}

// Load loads the configuration from file and returns read-only config with
// the derived service order
func Load() (*Config, *Order, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(FileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, DefaultOrder(), nil
		}

		return nil, nil, errors.ErrFailedToReadConfig
	}

	order, err := parseServiceOrder(data)
	if err != nil {
		return nil, nil, errors.ErrFailedToParseConfig
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, nil, errors.ErrFailedToReadConfig
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, errors.ErrFailedToParseConfig
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, order, nil
}

// ApplyDefaults fills unset per-service fields from the configured defaults
func (c *Config) ApplyDefaults() {
	if c.Defaults == nil {
		c.Defaults = DefaultConfig().Defaults
	}

	d := c.Defaults

	if d.Attempts == 0 {
		d.Attempts = RetryAttempts
	}

	if d.Timeout == 0 {
		d.Timeout = CommandTimeout
	}

	if d.KillAttempts == 0 {
		d.KillAttempts = KillRetryAttempts
	}

	if d.Checks == nil {
		d.Checks = DefaultChecks()
	}

	for _, service := range c.Services {
		if service.Control == "" {
			service.Control = ControlScript
		}

		service.Control = strings.ToLower(strings.TrimSpace(service.Control))

		if service.Checks == nil {
			service.Checks = d.Checks
		}

		if service.AllowForceKill == nil {
			allow := d.AllowForceKill
			service.AllowForceKill = &allow
		}

		if service.PostKillWait == 0 {
			service.PostKillWait = d.PostKillWait
		}

		if service.KillAttempts == 0 {
			service.KillAttempts = d.KillAttempts
		}

		if service.Timeout == 0 {
			service.Timeout = d.Timeout
		}

		service.Start = mergeAction(service.Start, d)
		service.Stop = mergeAction(service.Stop, d)
		service.Status = mergeAction(service.Status, d)

		if service.Monitor != nil && service.Monitor.Timeout == 0 {
			service.Monitor.Timeout = MonitorTimeout
		}
	}
}

// mergeAction fills unset action fields from the operation defaults
func mergeAction(a *Action, d *Operation) *Action {
	if a == nil {
		a = &Action{}
	}

	if a.Attempts == 0 {
		a.Attempts = d.Attempts
	}

	if a.Delay == 0 {
		a.Delay = d.Delay
	}

	return a
}

// parseServiceOrder reads the raw yaml and extracts the declaration order of
// services. Viper's map-based unmarshal loses key order, but the order in the
// file encodes real start/stop dependencies.
func parseServiceOrder(data []byte) (*Order, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	order := DefaultOrder()

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return order, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return order, nil
	}

	for i := 0; i < len(doc.Content); i += 2 {
		key := doc.Content[i]
		value := doc.Content[i+1]

		if key.Value != "services" || value.Kind != yaml.MappingNode {
			continue
		}

		for j := 0; j < len(value.Content); j += 2 {
			order.Services = append(order.Services, value.Content[j].Value)
		}
	}

	return order, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateConcurrency(); err != nil {
		return err
	}

	if err := c.validateDefaults(); err != nil {
		return err
	}

	for name, service := range c.Services {
		if err := service.validate(); err != nil {
			return fmt.Errorf("service %s: %w", name, err)
		}
	}

	return nil
}

// validateConcurrency validates concurrency settings
func (c *Config) validateConcurrency() error {
	if c.Concurrency.Workers <= 0 {
		return errors.ErrInvalidConcurrencyWorkers
	}

	return nil
}

// validateDefaults validates the operation defaults
func (c *Config) validateDefaults() error {
	if c.Defaults.Attempts <= 0 {
		return errors.ErrInvalidRetryAttempts
	}

	if c.Defaults.Delay < 0 {
		return errors.ErrInvalidRetryDelay
	}

	if c.Defaults.Timeout <= 0 {
		return errors.ErrInvalidTimeout
	}

	return nil
}

// validate validates a single service entry
func (s *Service) validate() error {
	switch s.Control {
	case ControlScript:
		if s.Script == "" {
			return errors.ErrMissingScriptPath
		}
	case ControlInit:
		if s.Unit == "" {
			return errors.ErrMissingUnitName
		}
	default:
		return fmt.Errorf("%w: control mode '%s' (must be 'script' or 'init')", errors.ErrInvalidConfig, s.Control)
	}

	for _, a := range []*Action{s.Start, s.Stop, s.Status} {
		if a == nil {
			continue
		}

		if a.Attempts <= 0 {
			return errors.ErrInvalidRetryAttempts
		}

		if a.Delay < 0 {
			return errors.ErrInvalidRetryDelay
		}
	}

	if s.Timeout <= 0 {
		return errors.ErrInvalidTimeout
	}

	return nil
}

// Action returns the merged action tunables for the given action name
func (s *Service) Action(action string) *Action {
	switch action {
	case ActionStart:
		return s.Start
	case ActionStop:
		return s.Stop
	default:
		return s.Status
	}
}

// ForceKillAllowed reports whether force kill is enabled for the service
func (s *Service) ForceKillAllowed() bool {
	return s.AllowForceKill != nil && *s.AllowForceKill
}
