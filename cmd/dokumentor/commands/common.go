package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/dokumentor/internal/config"
	"git.home.luguber.info/inful/dokumentor/internal/pipeline"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to .dokumentor.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate README sections from a CI manifest"`
	Migrate  MigrateCmd  `cmd:"" help:"Rewrite markers left by another documentation tool"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate documentation whenever the manifest changes"`
	Sections SectionsCmd `cmd:"" help:"List section identifiers in default order"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newRunner loads the configuration, applies command line overrides through
// adjust and builds a runner from the result.
func newRunner(g *Global, root *CLI, adjust func(*config.Config)) (*pipeline.Runner, *config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	opts, err := pipeline.ConfigOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(append(opts, pipeline.WithLogger(g.logger()))...), cfg, nil
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// report prints the diff of a dry run or a one line status.
func report(out io.Writer, res pipeline.Result, dryRun bool) {
	switch {
	case dryRun && res.Changed:
		_, _ = fmt.Fprint(out, res.Diff)
	case res.Changed:
		_, _ = fmt.Fprintf(out, "Updated %s\n", res.Destination)
	default:
		_, _ = fmt.Fprintf(out, "%s is up to date\n", res.Destination)
	}
}
