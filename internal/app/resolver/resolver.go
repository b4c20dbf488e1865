package resolver

import (
	"fmt"

	"shiki/internal/app/errors"
	"shiki/internal/config"
)

// All selects every configured service
const All = "all"

// Resolver maps requested service names onto the configured workflow order
type Resolver interface {
	Resolve(requested []string) ([]string, error)
}

// resolver implements the Resolver interface
type resolver struct {
	cfg   *config.Config
	order *config.Order
}

// NewResolver creates a new service resolver
func NewResolver(cfg *config.Config, order *config.Order) Resolver {
	return &resolver{
		cfg:   cfg,
		order: order,
	}
}

// Resolve returns the services to act on, in the order they are declared in
// the configuration file. An empty request or the "all" keyword selects every
// configured service; unknown names fail before any service is touched.
func (r *resolver) Resolve(requested []string) ([]string, error) {
	if len(r.order.Services) == 0 {
		return nil, errors.ErrNoServicesConfigured
	}

	if len(requested) == 0 || (len(requested) == 1 && requested[0] == All) {
		result := make([]string, len(r.order.Services))
		copy(result, r.order.Services)

		return result, nil
	}

	selected := make(map[string]bool, len(requested))

	for _, name := range requested {
		if _, exists := r.cfg.Services[name]; !exists {
			return nil, fmt.Errorf("%w: '%s'", errors.ErrServiceNotFound, name)
		}

		selected[name] = true
	}

	result := make([]string, 0, len(requested))

	for _, name := range r.order.Services {
		if selected[name] {
			result = append(result, name)
		}
	}

	return result, nil
}
