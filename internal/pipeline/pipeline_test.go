package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dokumentor/internal/config"
	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/generator"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/migration"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
	"git.home.luguber.info/inful/dokumentor/internal/synchronizer"
)

const actionYAML = `name: Greeter
description: Says hello to someone.
inputs:
  who:
    description: Person to greet
    required: true
  greeting:
    description: Greeting to use
    default: Hello
outputs:
  message:
    description: The full greeting
runs:
  using: node20
  main: index.js
`

func writeAction(t *testing.T) (dir, source string) {
	t.Helper()
	dir = t.TempDir()
	source = filepath.Join(dir, "action.yml")
	require.NoError(t, os.WriteFile(source, []byte(actionYAML), 0o600))
	return dir, source
}

func newRunner() *Runner {
	return New(WithOverrides(repository.Overrides{
		URL: "https://github.com/acme/greeter.git",
		Ref: "v1",
	}))
}

func TestRun_WritesSections(t *testing.T) {
	dir, source := writeAction(t)

	res, err := newRunner().Run(context.Background(), Job{Source: source})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, res.Diff)
	assert.Equal(t, filepath.Join(dir, "README.md"), res.Destination)
	assert.Positive(t, res.Sections)

	data, err := os.ReadFile(res.Destination)
	require.NoError(t, err)
	doc := string(data)
	for _, id := range []section.ID{section.Header, section.Usage, section.Inputs, section.Outputs} {
		assert.Contains(t, doc, "<!-- "+string(id)+":start -->")
		assert.Contains(t, doc, "<!-- "+string(id)+":end -->")
	}
	assert.Contains(t, doc, "acme/greeter@v1")
	assert.Less(t, strings.Index(doc, "<!-- header:start -->"), strings.Index(doc, "<!-- inputs:start -->"))
}

func TestRun_Idempotent(t *testing.T) {
	_, source := writeAction(t)
	rn := newRunner()

	_, err := rn.Run(context.Background(), Job{Source: source})
	require.NoError(t, err)
	first, err := os.ReadFile(config.DefaultDestination(source))
	require.NoError(t, err)

	res, err := rn.Run(context.Background(), Job{Source: source})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	second, err := os.ReadFile(config.DefaultDestination(source))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRun_PreservesHandWrittenText(t *testing.T) {
	dir, source := writeAction(t)
	destination := filepath.Join(dir, "DOCS.md")
	head := "# Greeter\n\nWritten by hand.\n"
	require.NoError(t, os.WriteFile(destination, []byte(head), 0o600))

	_, err := newRunner().Run(context.Background(), Job{Source: source, Destination: destination})
	require.NoError(t, err)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), head))
}

func TestRun_DryRunLeavesDestination(t *testing.T) {
	dir, source := writeAction(t)
	destination := filepath.Join(dir, "README.md")
	original := "# Greeter\n"
	require.NoError(t, os.WriteFile(destination, []byte(original), 0o600))
	before, err := os.Stat(destination)
	require.NoError(t, err)

	res, err := newRunner().Run(context.Background(), Job{Source: source, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Diff, "+<!-- inputs:start -->")

	after, err := os.Stat(destination)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestRun_SelectionRemovesExcludedSections(t *testing.T) {
	_, source := writeAction(t)

	_, err := newRunner().Run(context.Background(), Job{Source: source})
	require.NoError(t, err)

	rn := New(
		WithOverrides(repository.Overrides{URL: "https://github.com/acme/greeter.git", Ref: "v1"}),
		WithSelection(generator.Selection{Exclude: []section.ID{section.Outputs}}),
	)
	res, err := rn.Run(context.Background(), Job{Source: source})
	require.NoError(t, err)
	assert.True(t, res.Changed)

	data, err := os.ReadFile(res.Destination)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<!-- outputs:start -->")
	assert.Contains(t, string(data), "<!-- inputs:start -->")
}

func TestRun_MalformedDestinationIsNotWritten(t *testing.T) {
	dir, source := writeAction(t)
	destination := filepath.Join(dir, "README.md")
	broken := "<!-- inputs:start -->\nunterminated\n"
	require.NoError(t, os.WriteFile(destination, []byte(broken), 0o600))

	_, err := newRunner().Run(context.Background(), Job{Source: source})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDocument))

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
}

type markerEcho struct{}

func (markerEcho) ID() section.ID { return section.Inputs }

func (markerEcho) Generate(*manifest.Manifest, format.Formatter, *repository.Info) (content.Content, error) {
	return content.FromString("<!-- overview:start -->\ntable\n<!-- overview:end -->\n"), nil
}

func TestRun_InvalidEntriesRejectedBeforeIO(t *testing.T) {
	dir, source := writeAction(t)
	// A directory cannot be read as a document, so any read would fail with
	// a filesystem error instead.
	rn := New(WithGenerators(generator.NewRegistry(markerEcho{})))

	_, err := rn.Run(context.Background(), Job{Source: source, Destination: dir})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.ErrorIs(t, err, synchronizer.ErrMarkerInContent)
	assert.NoFileExists(t, filepath.Join(dir, "README.md"))
}

func TestRun_MissingManifest(t *testing.T) {
	_, err := newRunner().Run(context.Background(), Job{Source: filepath.Join(t.TempDir(), "action.yml")})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryManifest))
}

func TestRun_CanceledContext(t *testing.T) {
	_, source := writeAction(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, Job{Source: source})
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(config.DefaultDestination(source))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunAll(t *testing.T) {
	var jobs []Job
	for range 3 {
		_, source := writeAction(t)
		jobs = append(jobs, Job{Source: source})
	}

	results, err := New(WithConcurrency(2)).RunAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(t, config.DefaultDestination(jobs[i].Source), res.Destination)
		assert.True(t, res.Changed)
		assert.FileExists(t, res.Destination)
	}
}

func TestRunAll_RejectsDuplicateDestinations(t *testing.T) {
	dir, source := writeAction(t)
	jobs := []Job{
		{Source: source},
		{Source: source, Destination: filepath.Join(dir, ".", "README.md")},
	}

	_, err := newRunner().RunAll(context.Background(), jobs)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.NoFileExists(t, filepath.Join(dir, "README.md"))
}

func TestMigrate(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "README.md")
	src := "# Tool\n\n<!-- actdocs inputs start -->\n| a |\n<!-- actdocs inputs end -->\n"
	require.NoError(t, os.WriteFile(destination, []byte(src), 0o600))
	rn := newRunner()

	tools, err := rn.DetectTools(destination)
	require.NoError(t, err)
	assert.Equal(t, []string{migration.ToolActdocs}, tools)

	res, err := rn.Migrate(context.Background(), migration.ToolActdocs, destination, true)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Diff, "+<!-- inputs:start -->")

	res, err = rn.Migrate(context.Background(), migration.ToolActdocs, destination, false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "# Tool\n\n<!-- inputs:start -->\n| a |\n<!-- inputs:end -->\n", string(data))

	res, err = rn.Migrate(context.Background(), migration.ToolActdocs, destination, false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestMigrate_UnknownToolBeforeIO(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "missing", "README.md")

	_, err := newRunner().Migrate(context.Background(), "readme-wizard", destination, false)
	require.Error(t, err)
	var unsupported *migration.UnsupportedToolError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "readme-wizard", unsupported.Name)
}

func TestConfigOptions(t *testing.T) {
	show := false
	cfg := config.Default()
	cfg.Sections.Include = []string{"inputs", "generated"}
	cfg.Generated.Show = &show
	cfg.Concurrency = 7

	opts, err := ConfigOptions(cfg)
	require.NoError(t, err)
	rn := New(opts...)
	assert.Equal(t, 7, rn.concurrency)
	assert.Equal(t, []section.ID{section.Inputs}, rn.selection.Resolve())

	cfg.Format = "asciidoc"
	_, err = ConfigOptions(cfg)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
