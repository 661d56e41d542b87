package commands

import (
	"context"

	"git.home.luguber.info/inful/dokumentor/internal/config"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/pipeline"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Source        string   `short:"s" help:"Manifest to document (action.yml, reusable workflow or CI component). Defaults to the configured targets." type:"path"`
	Destination   string   `short:"d" help:"Document to update (defaults to README.md beside the manifest)" type:"path"`
	DryRun        bool     `name:"dry-run" help:"Print a unified diff instead of writing"`
	Include       []string `help:"Only generate these sections"`
	Exclude       []string `help:"Skip these sections"`
	RepositoryURL string   `name:"repository-url" help:"Repository URL used for usage snippets and badges (overrides git)"`
	Ref           string   `help:"Git ref used in usage snippets (overrides git)"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	rn, cfg, err := newRunner(global, root, g.override)
	if err != nil {
		return err
	}
	jobs, err := g.jobs(cfg)
	if err != nil {
		return err
	}
	results, err := rn.RunAll(context.Background(), jobs)
	for _, res := range results {
		if res.Destination != "" {
			report(global.out(), res, g.DryRun)
		}
	}
	return err
}

func (g *GenerateCmd) override(cfg *config.Config) {
	if len(g.Include) > 0 {
		cfg.Sections.Include = g.Include
	}
	if len(g.Exclude) > 0 {
		cfg.Sections.Exclude = g.Exclude
	}
	if g.RepositoryURL != "" {
		cfg.Repository.URL = g.RepositoryURL
	}
	if g.Ref != "" {
		cfg.Repository.Ref = g.Ref
	}
}

// jobs returns the single job named on the command line or one job per
// configured target.
func (g *GenerateCmd) jobs(cfg *config.Config) ([]pipeline.Job, error) {
	if g.Source != "" {
		return []pipeline.Job{{Source: g.Source, Destination: g.Destination, DryRun: g.DryRun}}, nil
	}
	if g.Destination != "" {
		return nil, ferrors.ValidationError("--destination requires --source").Build()
	}
	if len(cfg.Targets) == 0 {
		return nil, ferrors.ValidationError("no manifest to document: pass --source or configure targets").Build()
	}
	jobs := make([]pipeline.Job, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		jobs = append(jobs, pipeline.Job{Source: t.Source, Destination: t.Destination, DryRun: g.DryRun})
	}
	return jobs, nil
}
