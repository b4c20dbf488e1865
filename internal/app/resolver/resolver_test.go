package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shiki/internal/app/errors"
	"shiki/internal/config"
)

func Test_Resolve(t *testing.T) {
	type result struct {
		services []string
		err      error
	}

	cfg := &config.Config{
		Services: map[string]*config.Service{
			"database": {Script: "/opt/database/control.sh"},
			"broker":   {Script: "/opt/broker/control.sh"},
			"api":      {Script: "/opt/api/control.sh"},
		},
	}
	order := &config.Order{Services: []string{"database", "broker", "api"}}

	tests := []struct {
		name      string
		requested []string
		expected  result
	}{
		{
			name:      "Empty request selects all in declared order",
			requested: nil,
			expected:  result{services: []string{"database", "broker", "api"}},
		},
		{
			name:      "All keyword selects all in declared order",
			requested: []string{"all"},
			expected:  result{services: []string{"database", "broker", "api"}},
		},
		{
			name:      "Named subset keeps declared order, not request order",
			requested: []string{"api", "database"},
			expected:  result{services: []string{"database", "api"}},
		},
		{
			name:      "Single service",
			requested: []string{"broker"},
			expected:  result{services: []string{"broker"}},
		},
		{
			name:      "Duplicates collapse",
			requested: []string{"api", "api"},
			expected:  result{services: []string{"api"}},
		},
		{
			name:      "Unknown service fails fast",
			requested: []string{"database", "nonexistent"},
			expected:  result{err: errors.ErrServiceNotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(cfg, order)

			services, err := r.Resolve(tt.requested)

			if tt.expected.err != nil {
				assert.ErrorIs(t, err, tt.expected.err)
				assert.Nil(t, services)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected.services, services)
		})
	}
}

func Test_Resolve_NoServicesConfigured(t *testing.T) {
	r := NewResolver(&config.Config{Services: map[string]*config.Service{}}, &config.Order{})

	_, err := r.Resolve(nil)

	assert.ErrorIs(t, err, errors.ErrNoServicesConfigured)
}
