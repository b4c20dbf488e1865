package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiki/internal/config"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Options
	}{
		{
			name:     "No arguments shows help",
			args:     []string{},
			expected: Options{Type: CommandHelp},
		},
		{
			name:     "Start all",
			args:     []string{"start"},
			expected: Options{Type: CommandStart},
		},
		{
			name:     "Start named services",
			args:     []string{"start", "database", "api"},
			expected: Options{Type: CommandStart, Services: []string{"database", "api"}},
		},
		{
			name:     "Stop",
			args:     []string{"stop", "api"},
			expected: Options{Type: CommandStop, Services: []string{"api"}},
		},
		{
			name:     "Status",
			args:     []string{"status"},
			expected: Options{Type: CommandStatus},
		},
		{
			name:     "Init",
			args:     []string{"init"},
			expected: Options{Type: CommandInit},
		},
		{
			name:     "Init with force",
			args:     []string{"init", "--force"},
			expected: Options{Type: CommandInit, Force: true},
		},
		{
			name:     "Init with dry run",
			args:     []string{"init", "--dry-run"},
			expected: Options{Type: CommandInit, DryRun: true},
		},
		{
			name:     "Version",
			args:     []string{"version"},
			expected: Options{Type: CommandVersion},
		},
		{
			name:     "Help flag",
			args:     []string{"--help"},
			expected: Options{Type: CommandHelp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Parse(tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.expected.Type, opts.Type)
			assert.Equal(t, tt.expected.Services, opts.Services)
			assert.Equal(t, tt.expected.Force, opts.Force)
			assert.Equal(t, tt.expected.DryRun, opts.DryRun)
		})
	}
}

func Test_Parse_UnknownCommand(t *testing.T) {
	_, err := Parse([]string{"restart"})

	assert.Error(t, err)
}

func Test_Options_Action(t *testing.T) {
	assert.Equal(t, config.ActionStart, (&Options{Type: CommandStart}).Action())
	assert.Equal(t, config.ActionStop, (&Options{Type: CommandStop}).Action())
	assert.Equal(t, config.ActionStatus, (&Options{Type: CommandStatus}).Action())
	assert.Empty(t, (&Options{Type: CommandVersion}).Action())
}
