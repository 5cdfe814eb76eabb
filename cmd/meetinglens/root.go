package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/meetinglens"
	"github.com/hupe1980/meetinglens/artifact"
	"github.com/hupe1980/meetinglens/config"
	"github.com/hupe1980/meetinglens/logging"
)

// globalFlags are the persistent flags shared by all subcommands.
type globalFlags struct {
	configPath  string
	backendName string
	model       string
	outputDir   string
	quiet       bool
}

// loadConfig resolves the effective configuration: file (or MEETINGLENS_CONFIG
// env), then flag overrides on top.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = os.Getenv("MEETINGLENS_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g.backendName != "" {
		cfg.Backend = g.backendName
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.outputDir != "" {
		cfg.OutputDir = g.outputDir
	}
	return cfg, cfg.Validate()
}

func (g *globalFlags) logger() logging.Logger {
	if g.quiet {
		return logging.NoOpLogger{}
	}
	return logging.NewSlogLogger(logging.LogLevelInfo, "text", os.Stderr)
}

// buildApp wires a MeetingLens with a filesystem artifact store rooted at the
// configured output directory.
func (g *globalFlags) buildApp() (*meetinglens.MeetingLens, *config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	app, err := g.buildAppFrom(cfg)
	if err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

func (g *globalFlags) buildAppFrom(cfg *config.Config) (*meetinglens.MeetingLens, error) {
	store, err := artifact.NewFSStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return meetinglens.New(cfg, func(o *meetinglens.Options) {
		o.Store = store
		o.Logger = g.logger()
	})
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
