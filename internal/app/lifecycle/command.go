package lifecycle

import (
	"strings"

	"shiki/internal/app/executor"
	"shiki/internal/config"
)

// commandSpec builds the executor invocation for one action against a service.
// Script mode runs the control script with the action as its single argument;
// init mode drives systemctl. The action string has already passed the
// whitelist, it is never interpolated into a shell line.
func commandSpec(svc *config.Service, action string) executor.Spec {
	spec := executor.Spec{
		Timeout: svc.Timeout,
		RunAs:   svc.RunAs,
	}

	switch svc.Control {
	case config.ControlInit:
		spec.Command = config.SystemctlBin
		spec.Args = []string{action, svc.Unit}
	default:
		spec.Command = svc.Script
		spec.Args = []string{action}
	}

	return spec
}

// checks returns the output check strings for a service, substituting the
// init-system phrasing when systemctl is queried instead of a control script
func checks(svc *config.Service) *config.Checks {
	if svc.Control == config.ControlInit {
		return &config.Checks{
			Start:   "",
			Stop:    "",
			Running: config.InitRunning,
			Stopped: config.InitStopped,
		}
	}

	return svc.Checks
}

// matches applies the AND semantics of output and return-code validation:
// when both a check string and an expected return code are configured, the
// result must satisfy both. A timed-out result never matches.
func matches(result executor.Result, check string, expectRC *int) bool {
	if result.TimedOut {
		return false
	}

	if check != "" && !containsOutput(result, check) {
		return false
	}

	if expectRC != nil && result.ReturnCode != *expectRC {
		return false
	}

	return true
}

// containsOutput reports whether either output stream carries the substring
func containsOutput(result executor.Result, substr string) bool {
	return strings.Contains(result.Stdout, substr) || strings.Contains(result.Stderr, substr)
}
