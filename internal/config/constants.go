package config

import "time"

// app constants
const (
	LogLevel  = "info"
	LogFormat = "console"

	Version = "0.4.0"

	FileName = "shiki.yaml"
)

// action constants
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionStatus = "status"
)

// control mode constants
const (
	ControlScript = "script"
	ControlInit   = "init"
)

// operation defaults
const (
	MaxWorkers = 3

	RetryAttempts     = 5
	RetryDelay        = 2 * time.Second
	KillRetryAttempts = 5

	CommandTimeout = 60 * time.Second
	PostKillWait   = 5 * time.Second
	MonitorTimeout = 30 * time.Second

	MinPatternLength = 5
)

// default check strings expected in control output
const (
	CheckStart   = "starting"
	CheckStop    = "stopping"
	CheckRunning = "running"
	CheckStopped = "stopped"
)

// init system constants
const (
	SystemctlBin = "systemctl"

	InitRunning = "active (running)"
	InitStopped = "inactive"
)

// session constants
const (
	SessionPath = ".shiki.session"
)
