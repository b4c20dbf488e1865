package cli

import (
	"github.com/spf13/cobra"

	"shiki/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandHelp CommandType = iota
	CommandStart
	CommandStop
	CommandStatus
	CommandInit
	CommandVersion
)

// Options contains the parsed command-line arguments
type Options struct {
	Type     CommandType
	Services []string
	Force    bool
	DryRun   bool
}

// Action returns the lifecycle action for the parsed command
func (o *Options) Action() string {
	switch o.Type {
	case CommandStart:
		return config.ActionStart
	case CommandStop:
		return config.ActionStop
	case CommandStatus:
		return config.ActionStatus
	default:
		return ""
	}
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{
		Type: CommandHelp,
	}

	root := buildRootCommand()
	root.AddCommand(
		buildActionCommand(result, CommandStart, "start", "Start services in configured order"),
		buildActionCommand(result, CommandStop, "stop", "Stop services, escalating to force kill where allowed"),
		buildActionCommand(result, CommandStatus, "status", "Show the status of services"),
		buildInitCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shiki",
		Short: "A service lifecycle controller",
		Long: `Shiki starts, stops and checks the status of a configured, ordered
set of services, with graceful-shutdown to force-kill escalation and a
structured per-run report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// buildActionCommand creates one of the start/stop/status subcommands.
// Without service arguments the command covers every configured service.
func buildActionCommand(result *Options, commandType CommandType, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " [service...]",
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = commandType
			result.Services = args
		},
	}
}

// buildInitCommand creates the init subcommand
func buildInitCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a shiki.yaml template",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandInit
		},
	}

	cmd.Flags().BoolVarP(&result.Force, "force", "f", false, "Overwrite an existing shiki.yaml")
	cmd.Flags().BoolVar(&result.DryRun, "dry-run", false, "Print the template instead of writing it")

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
