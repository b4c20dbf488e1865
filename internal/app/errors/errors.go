package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")

	ErrServiceNotFound      = errors.New("service not found")
	ErrNoServicesConfigured = errors.New("no services configured")

	ErrInvalidAction        = errors.New("invalid action")
	ErrScriptNotFound       = errors.New("control script not found")
	ErrScriptNotExecutable  = errors.New("control script is not executable")
	ErrPatternTooUnspecific = errors.New("process pattern too unspecific")
	ErrMissingScriptPath    = errors.New("control mode 'script' requires script field")
	ErrMissingUnitName      = errors.New("control mode 'init' requires unit field")

	ErrForceKillDisabled       = errors.New("graceful stop failed and force kill is disabled")
	ErrKillVerificationFailed  = errors.New("service still running after force kill")
	ErrStartVerificationFailed = errors.New("service did not reach running state")
	ErrStopVerificationFailed  = errors.New("service did not reach stopped state")
	ErrUnexpectedOutput        = errors.New("unexpected control output")
	ErrUnexpectedReturnCode    = errors.New("unexpected control return code")
	ErrCommandTimedOut         = errors.New("command timed out")

	ErrFileMonitorTimeout = errors.New("monitored file did not appear in time")
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")

	ErrInvalidRetryAttempts      = errors.New("retry attempts must be at least 1")
	ErrInvalidRetryDelay         = errors.New("retry delay must not be negative")
	ErrInvalidTimeout            = errors.New("timeout must be greater than zero")
	ErrInvalidConcurrencyWorkers = errors.New("concurrency workers must be greater than 0")

	ErrWorkflowAlreadyRunning = errors.New("another workflow run is already in progress")

	ErrUnknownCommand = errors.New("unknown command")
)

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
