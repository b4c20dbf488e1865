package validate

import (
	"fmt"
	"os"

	"shiki/internal/app/errors"
	"shiki/internal/config"
)

// Action checks that the requested action is one of the known operations.
// The action string must never be used to build a path or command without
// passing this whitelist first.
func Action(action string) error {
	switch action {
	case config.ActionStart, config.ActionStop, config.ActionStatus:
		return nil
	default:
		return fmt.Errorf("%w: '%s'", errors.ErrInvalidAction, action)
	}
}

// Service checks the preconditions for running any action against a service.
// Checks run in order and the first failure wins; no side effects.
func Service(action string, name string, svc *config.Service) error {
	if err := Action(action); err != nil {
		return err
	}

	if svc.Control == config.ControlScript {
		if err := script(svc.Script); err != nil {
			return fmt.Errorf("service %s: %w", name, err)
		}
	}

	if svc.ForceKillAllowed() {
		if err := Pattern(svc.Pattern); err != nil {
			return fmt.Errorf("service %s: %w", name, err)
		}
	}

	return nil
}

// Pattern checks that a process pattern is specific enough to be used for
// termination. A short pattern like a bare runtime name could match and kill
// unrelated processes system-wide.
func Pattern(pattern string) error {
	if len(pattern) < config.MinPatternLength {
		return fmt.Errorf("%w: '%s' (minimum %d characters)", errors.ErrPatternTooUnspecific, pattern, config.MinPatternLength)
	}

	return nil
}

// script checks that the control script exists and is executable
func script(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrScriptNotFound, path)
	}

	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s", errors.ErrScriptNotExecutable, path)
	}

	return nil
}
