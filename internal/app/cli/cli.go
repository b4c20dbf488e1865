//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiki/internal/app/colors"
	"shiki/internal/app/generator"
	"shiki/internal/app/report"
	"shiki/internal/app/resolver"
	"shiki/internal/app/session"
	"shiki/internal/app/tracker"
	"shiki/internal/app/workflow"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

const (
	appName = "shiki"
	appDesc = "service lifecycle controller with graceful-stop to force-kill escalation"
)

// CLI defines the interface for cli operations
type CLI interface {
	Execute() (int, error)
}

// cli represents the command-line interface for the application
type cli struct {
	cfg      *config.Config
	resolver resolver.Resolver
	workflow workflow.Workflow
	reporter report.Reporter
	session  session.Session
	gen      generator.Generator
	track    tracker.Tracker
	log      logger.Logger
}

// NewCLI creates a new cli instance
func NewCLI(
	cfg *config.Config,
	res resolver.Resolver,
	wf workflow.Workflow,
	rep report.Reporter,
	sess session.Session,
	gen generator.Generator,
	track tracker.Tracker,
	log logger.Logger,
) CLI {
	return &cli{
		cfg:      cfg,
		resolver: res,
		workflow: wf,
		reporter: rep,
		session:  sess,
		gen:      gen,
		track:    track,
		log:      log,
	}
}

// Execute parses the process arguments and runs the selected command,
// returning the process exit code
func (c *cli) Execute() (int, error) {
	opts, err := Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colors.Error("Error:"), err)

		return 1, err
	}

	return c.Run(opts)
}

// Run executes the parsed command
func (c *cli) Run(opts *Options) (int, error) {
	switch opts.Type {
	case CommandVersion:
		c.printVersion()

		return 0, nil
	case CommandInit:
		if err := c.gen.Generate(generator.DefaultOptions(), opts.Force, opts.DryRun); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", colors.Error("Error:"), err)

			return 1, err
		}

		return 0, nil
	case CommandStart, CommandStop, CommandStatus:
		return c.runAction(opts)
	default:
		// Help was already printed by cobra
		return 0, nil
	}
}

// runAction runs one workflow and maps its terminal status to the exit code
func (c *cli) runAction(opts *Options) (int, error) {
	action := opts.Action()

	if err := c.session.Acquire(action); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colors.Error("Error:"), err)

		return 1, err
	}

	defer func() {
		if err := c.session.Release(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to release session lock")
		}
	}()

	services, err := c.resolver.Resolve(opts.Services)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colors.Error("Error:"), err)

		return 1, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	meta, events := c.workflow.Run(ctx, services, action)

	c.printSummary(meta)

	if err := c.reporter.Write(meta, events); err != nil {
		c.log.Warn().Err(err).Msg("Failed to write report")
	}

	if meta.Status != workflow.StatusSuccess {
		return 1, nil
	}

	return 0, nil
}

// printSummary prints the per-service outcome table and the run verdict
func (c *cli) printSummary(meta *workflow.Metadata) {
	fmt.Println()

	for _, r := range c.track.All() {
		switch {
		case r.Status() == tracker.StatusFailed:
			fmt.Printf("%s %s  %s\n", colors.Error(colors.SymbolFailed), r.Name(), colors.Muted(r.Err().Error()))
		case r.Skipped():
			fmt.Printf("%s %s  %s\n", colors.Muted(colors.SymbolSkipped), r.Name(), colors.Muted("skipped"))
		default:
			fmt.Printf("%s %s\n", colors.Success(colors.SymbolSucceeded), r.Name())
		}
	}

	verdict := colors.Success(string(meta.Status))
	if meta.Status != workflow.StatusSuccess {
		verdict = colors.Error(string(meta.Status))
	}

	fmt.Printf("\n%s %s %s\n", colors.Title(meta.Action), verdict,
		colors.Muted(fmt.Sprintf("in %s", meta.Duration().Truncate(time.Millisecond))))
}

// printVersion displays version information
func (c *cli) printVersion() {
	fmt.Printf("\n%s %s\n", colors.Title(appName), colors.Success("v"+config.Version))
	fmt.Printf("%s\n\n", colors.Muted(appDesc))
}
