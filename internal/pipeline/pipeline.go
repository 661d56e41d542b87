// Package pipeline drives documentation jobs: it loads a manifest, generates
// its sections and synchronizes them into the destination document.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/dokumentor/internal/config"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/generator"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/migration"
	"git.home.luguber.info/inful/dokumentor/internal/render"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
	"git.home.luguber.info/inful/dokumentor/internal/synchronizer"
)

const defaultConcurrency = 4

// Job describes one manifest and the document generated from it.
type Job struct {
	Source      string
	Destination string // defaults to README.md beside Source
	DryRun      bool
}

// Result reports the outcome of a job. Diff is only set for dry runs.
type Result struct {
	Destination string
	Changed     bool
	Diff        string
	Sections    int
	Duration    time.Duration
}

// Runner executes jobs. It holds no per-destination state and is safe for
// concurrent use.
type Runner struct {
	generators  *generator.Registry
	migrations  *migration.Registry
	formatter   format.Formatter
	selection   generator.Selection
	overrides   repository.Overrides
	concurrency int
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithGenerators replaces the default section generators.
func WithGenerators(r *generator.Registry) Option {
	return func(rn *Runner) { rn.generators = r }
}

// WithFormatter sets the output format.
func WithFormatter(f format.Formatter) Option {
	return func(rn *Runner) { rn.formatter = f }
}

// WithSelection sets which sections are generated and in what order.
func WithSelection(s generator.Selection) Option {
	return func(rn *Runner) { rn.selection = s }
}

// WithOverrides sets repository values that take precedence over git.
func WithOverrides(o repository.Overrides) Option {
	return func(rn *Runner) { rn.overrides = o }
}

// WithConcurrency bounds the number of destinations processed at once.
func WithConcurrency(n int) Option {
	return func(rn *Runner) {
		if n > 0 {
			rn.concurrency = n
		}
	}
}

// WithLogger sets the logger used for the runner and its renderers.
func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// New returns a runner with the default generators and markdown output.
func New(opts ...Option) *Runner {
	rn := &Runner{
		generators:  generator.Default(),
		formatter:   format.NewMarkdown(),
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(rn)
	}
	rn.migrations = migration.NewRegistry(rn.formatter)
	return rn
}

// ConfigOptions translates a project configuration into runner options.
// Options appended after these take precedence.
func ConfigOptions(cfg *config.Config) ([]Option, error) {
	f, err := format.Get(cfg.Format)
	if err != nil {
		return nil, ferrors.ConfigError("unsupported output format").WithCause(err).Build()
	}
	sel, err := selectionFrom(cfg.Sections)
	if err != nil {
		return nil, err
	}
	if !cfg.Generated.ShowFooter() {
		sel.Exclude = append(sel.Exclude, section.Generated)
	}
	return []Option{
		WithFormatter(f),
		WithSelection(sel),
		WithOverrides(repository.Overrides{URL: cfg.Repository.URL, Ref: cfg.Repository.Ref}),
		WithConcurrency(cfg.Concurrency),
	}, nil
}

func selectionFrom(sc config.SectionsConfig) (generator.Selection, error) {
	var (
		sel generator.Selection
		err error
	)
	if sel.Include, err = section.ParseList(sc.Include); err != nil {
		return sel, ferrors.ConfigError("invalid section include list").WithCause(err).Build()
	}
	if sel.Exclude, err = section.ParseList(sc.Exclude); err != nil {
		return sel, ferrors.ConfigError("invalid section exclude list").WithCause(err).Build()
	}
	if sel.Order, err = section.ParseList(sc.Order); err != nil {
		return sel, ferrors.ConfigError("invalid section order").WithCause(err).Build()
	}
	return sel, nil
}

// Logger returns the logger the runner reports through.
func (rn *Runner) Logger() *slog.Logger { return rn.logger }

// Run generates the sections for job.Source and synchronizes them into the
// destination. With DryRun set the destination is left untouched and the
// result carries a unified diff.
func (rn *Runner) Run(ctx context.Context, job Job) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	destination := job.Destination
	if destination == "" {
		destination = config.DefaultDestination(job.Source)
	}
	log := rn.logger.With(logfields.Manifest(job.Source), logfields.Destination(destination))

	m, err := manifest.Load(job.Source)
	if err != nil {
		return Result{}, err
	}
	repo, err := repository.Detect(filepath.Dir(m.Path), rn.overrides)
	if err != nil {
		return Result{}, err
	}
	log.Debug("Loaded manifest",
		logfields.Platform(string(m.Platform)),
		logfields.Repository(repo.Slug()))

	entries, err := rn.generators.Generate(m, rn.formatter, repo, rn.selection)
	if err != nil {
		return Result{}, err
	}
	// Reject bad entries before the destination is read.
	if _, err := synchronizer.NewPlanFor(marker.NewProtocol(rn.formatter), entries...); err != nil {
		return Result{}, err
	}

	r := render.New(job.DryRun, render.WithLogger(log))
	if err := r.Initialize(destination, rn.formatter); err != nil {
		return Result{}, err
	}
	for _, e := range entries {
		if err := r.WriteSection(e.ID, e.Content); err != nil {
			return Result{}, err
		}
	}
	diff, err := r.Finalize()
	if err != nil {
		log.Error("Generation failed", logfields.Error(err))
		return Result{}, err
	}

	res := Result{
		Destination: destination,
		Changed:     r.Changed(),
		Diff:        diff,
		Sections:    len(entries),
		Duration:    time.Since(start),
	}
	log.Info("Generated documentation",
		logfields.Sections(res.Sections),
		logfields.Changed(res.Changed),
		logfields.DryRun(job.DryRun),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

// RunAll processes independent jobs in parallel, bounded by the configured
// concurrency. Results are returned in job order. Two jobs writing the same
// destination are rejected before any work starts.
func (rn *Runner) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := checkDestinations(jobs); err != nil {
		return nil, err
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rn.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := rn.Run(gctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkDestinations(jobs []Job) error {
	seen := make(map[string]string, len(jobs))
	for _, job := range jobs {
		destination := job.Destination
		if destination == "" {
			destination = config.DefaultDestination(job.Source)
		}
		key, err := filepath.Abs(destination)
		if err != nil {
			key = filepath.Clean(destination)
		}
		if prev, ok := seen[key]; ok {
			return ferrors.ValidationError("destination is targeted by more than one job").
				WithContext("destination", destination).
				WithContext("sources", []string{prev, job.Source}).
				Build()
		}
		seen[key] = job.Source
	}
	return nil
}

// Migrate rewrites the markers of tool found in destination into native
// markers. Unknown tools are rejected before the destination is read.
func (rn *Runner) Migrate(ctx context.Context, tool, destination string, dryRun bool) (Result, error) {
	start := time.Now()
	adapter, err := rn.migrations.Get(tool)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	log := rn.logger.With(logfields.Tool(tool), logfields.Destination(destination))

	r := render.New(dryRun, render.WithLogger(log))
	if err := adapter.MigrateDocumentation(destination, r); err != nil {
		return Result{}, err
	}
	diff, err := r.Finalize()
	if err != nil {
		log.Error("Migration failed", logfields.Error(err))
		return Result{}, err
	}

	res := Result{
		Destination: destination,
		Changed:     r.Changed(),
		Diff:        diff,
		Duration:    time.Since(start),
	}
	log.Info("Migrated documentation",
		logfields.Changed(res.Changed),
		logfields.DryRun(dryRun),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

// DetectTools returns the names of the tools whose markers appear in
// destination.
func (rn *Runner) DetectTools(destination string) ([]string, error) {
	adapters, err := rn.migrations.Detect(destination)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names, nil
}
