package generator

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	"shiki/internal/config"
	"shiki/internal/config/logger"
)

const templatePath = "templates/shiki.yaml.tmpl"

//go:embed templates/shiki.yaml.tmpl
var templateFS embed.FS

// Options contains the configuration for generating shiki.yaml
type Options struct {
	ServiceName string
}

// DefaultOptions returns sensible defaults for generation
func DefaultOptions() Options {
	return Options{
		ServiceName: "api",
	}
}

// Generator defines the interface for generating shiki.yaml
type Generator interface {
	Generate(opts Options, force bool, dryRun bool) error
}

type generator struct {
	log logger.Logger
}

// NewGenerator creates a new generator instance
func NewGenerator(log logger.Logger) Generator {
	return &generator{
		log: log,
	}
}

// Generate creates a shiki.yaml file from the template
func (g *generator) Generate(opts Options, force bool, dryRun bool) error {
	if !dryRun && !force {
		if _, err := os.Stat(config.FileName); err == nil {
			return fmt.Errorf("file %s already exists, use --force to overwrite", config.FileName)
		}
	}

	tmplContent, err := templateFS.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := template.New(config.FileName).Parse(string(tmplContent))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if dryRun {
		fmt.Print(buf.String())
		return nil
	}

	if err := os.WriteFile(config.FileName, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	g.log.Info().Msgf("Generated %s", config.FileName)

	return nil
}
