package main

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"shiki/internal/app"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

// main is the entry point for the application
func main() {
	runApp()
}

// runApp contains the main application logic
func runApp() {
	cfg, order, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	createApp(cfg, order).Run()
}

// loadConfig wraps config.Load for easier testing. Commands that do not need
// a config file (init, version, help) still work against the defaults.
func loadConfig() (*config.Config, *config.Order, error) {
	if needsConfig(os.Args[1:]) {
		return config.Load()
	}

	return config.DefaultConfig(), &config.Order{}, nil
}

// needsConfig reports whether the invoked command reads shiki.yaml
func needsConfig(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "init", "version", "help", "--help", "-h":
			return false
		}

		return true
	}

	return false
}

// createApp creates the FX application with the given config
func createApp(cfg *config.Config, order *config.Order) *fx.App {
	return fx.New(
		fx.WithLogger(createFxLogger(cfg)),
		fx.Supply(cfg, order),
		app.Module,
	)
}

// createFxLogger returns an FX logger based on the config
func createFxLogger(cfg *config.Config) func() fxevent.Logger {
	return func() fxevent.Logger {
		if cfg.Logging.Level == logger.DebugLevel {
			return &fxevent.ConsoleLogger{W: os.Stdout}
		}

		return fxevent.NopLogger
	}
}
