package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/render"
	"git.home.luguber.info/inful/dokumentor/internal/section"
	"git.home.luguber.info/inful/dokumentor/internal/synchronizer"
)

func migrate(t *testing.T, tool string, src string) string {
	t.Helper()
	a, err := NewRegistry(format.NewMarkdown()).Get(tool)
	require.NoError(t, err)
	return a.Migrate(content.FromString(src)).String()
}

func TestActdocs(t *testing.T) {
	src := "# Action\n\n<!-- actdocs inputs start -->\n| a | b |\n<!-- actdocs inputs end -->\n\n" +
		"<!-- actdocs description start -->\nText\n<!-- actdocs description end -->\n"
	expected := "# Action\n\n<!-- inputs:start -->\n| a | b |\n<!-- inputs:end -->\n\n" +
		"<!-- overview:start -->\nText\n<!-- overview:end -->\n"
	assert.Equal(t, expected, migrate(t, ToolActdocs, src))
}

func TestActionDocs_SelfClosing(t *testing.T) {
	src := "<!-- action-docs-description source=\"action.yml\" -->\n\n<!-- action-docs-inputs -->\n<!-- action-docs-runs -->\n"
	expected := "<!-- overview:start -->\n<!-- overview:end -->\n\n<!-- inputs:start -->\n<!-- inputs:end -->\n<!-- action-docs-runs -->\n"
	assert.Equal(t, expected, migrate(t, ToolActionDocs, src))
}

func TestAutoDoc(t *testing.T) {
	src := "<!-- AUTO-DOC-INPUT:START - Do not remove or modify this section -->\n\n| Input |\n\n<!-- AUTO-DOC-INPUT:END -->\n" +
		"<!-- AUTO-DOC-OUTPUT:START -->\nx\n<!-- AUTO-DOC-OUTPUT:END -->\n"
	expected := "<!-- inputs:start -->\n\n| Input |\n\n<!-- inputs:end -->\n" +
		"<!-- outputs:start -->\nx\n<!-- outputs:end -->\n"
	assert.Equal(t, expected, migrate(t, ToolAutoDoc, src))
}

func TestGitHubActionReadmeGenerator(t *testing.T) {
	src := "<!-- start title -->\n# T\n<!-- end title -->\n<!-- start branding -->\nx\n<!-- end branding -->\n"
	expected := "<!-- header:start -->\n# T\n<!-- header:end -->\n<!-- start branding -->\nx\n<!-- end branding -->\n"
	assert.Equal(t, expected, migrate(t, ToolGitHubActionReadmeGenerator, src))
}

func TestMigrate_InlineMarkersGetOwnLines(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "pair around text",
			src:      "# Title\n<!-- actdocs inputs start -->| old |<!-- actdocs inputs end -->\n",
			expected: "# Title\n<!-- inputs:start -->\n| old |\n<!-- inputs:end -->\n",
		},
		{
			name:     "adjacent pair",
			src:      "<!-- actdocs inputs start --><!-- actdocs inputs end -->\n",
			expected: "<!-- inputs:start -->\n<!-- inputs:end -->\n",
		},
		{
			name:     "text before start",
			src:      "See below: <!-- actdocs outputs start -->\nx\n<!-- actdocs outputs end -->\n",
			expected: "See below: \n<!-- outputs:start -->\nx\n<!-- outputs:end -->\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, migrate(t, ToolActdocs, tt.src))
		})
	}
}

func TestMigrate_ThenSynchronize(t *testing.T) {
	src := "# Title\n<!-- actdocs inputs start -->| old |<!-- actdocs inputs end -->\n"
	migrated := migrate(t, ToolActdocs, src)

	plan, err := synchronizer.NewPlan(synchronizer.Entry{ID: section.Inputs, Content: content.FromString("| new |\n")})
	require.NoError(t, err)
	out, err := synchronizer.Synchronize(content.FromString(migrated), plan)
	require.NoError(t, err)

	doc := out.String()
	assert.Equal(t, 1, strings.Count(doc, "<!-- inputs:start -->"), doc)
	assert.Equal(t, 1, strings.Count(doc, "<!-- inputs:end -->"), doc)
	assert.Contains(t, doc, "| new |")
	assert.NotContains(t, doc, "| old |")
	assert.True(t, strings.HasPrefix(doc, "# Title\n"))
}

func TestMigrate_NoForeignMarkersIsIdentity(t *testing.T) {
	src := "# Title\n\n<!-- inputs:start -->\n\nx\n\n<!-- inputs:end -->\n"
	registry := NewRegistry(format.NewMarkdown())
	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, src, migrate(t, name, src))
		})
	}
}

func TestMigrate_OutputParses(t *testing.T) {
	src := "<!-- actdocs inputs start -->\nbody\n<!-- actdocs inputs end -->\n"
	blocks, err := marker.Parse(content.FromString(migrate(t, ToolActdocs, src)))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, section.Inputs, blocks[0].ID)
	assert.Equal(t, "body\n", blocks[0].Body.String())
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(format.NewMarkdown())
	assert.Equal(t, []string{
		ToolActdocs,
		ToolActionDocs,
		ToolAutoDoc,
		ToolGitHubActionReadmeGenerator,
	}, registry.Names())

	_, err := registry.Get("readme-wizard")
	require.Error(t, err)
	var unsupported *UnsupportedToolError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "readme-wizard", unsupported.Name)
	assert.Contains(t, unsupported.Error(), ToolActdocs)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRegistry_Detect(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("<!-- AUTO-DOC-INPUT:START -->\n<!-- AUTO-DOC-INPUT:END -->\n"), 0o644))

	registry := NewRegistry(format.NewMarkdown())
	found, err := registry.Detect(readme)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ToolAutoDoc, found[0].Name())

	found, err = registry.Detect(filepath.Join(dir, "missing.md"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMigrateDocumentation(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	original := "intro\n<!-- actdocs outputs start -->\nold\n<!-- actdocs outputs end -->\n"
	require.NoError(t, os.WriteFile(readme, []byte(original), 0o644))

	a, err := NewRegistry(format.NewMarkdown()).Get(ToolActdocs)
	require.NoError(t, err)

	t.Run("dry run", func(t *testing.T) {
		r := render.New(true)
		require.NoError(t, a.MigrateDocumentation(readme, r))
		diff, err := r.Finalize()
		require.NoError(t, err)
		assert.Contains(t, diff, "+<!-- outputs:start -->")

		data, err := os.ReadFile(readme)
		require.NoError(t, err)
		assert.Equal(t, original, string(data))
	})

	t.Run("write", func(t *testing.T) {
		r := render.New(false)
		require.NoError(t, a.MigrateDocumentation(readme, r))
		_, err := r.Finalize()
		require.NoError(t, err)

		data, err := os.ReadFile(readme)
		require.NoError(t, err)
		assert.Equal(t, "intro\n<!-- outputs:start -->\nold\n<!-- outputs:end -->\n", string(data))
	})

	t.Run("renderer initialized for another destination", func(t *testing.T) {
		other := filepath.Join(dir, "OTHER.md")
		r := render.New(true)
		require.NoError(t, r.Initialize(other, format.NewMarkdown()))

		err := a.MigrateDocumentation(readme, r)
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMigration))
		assert.Equal(t, other, r.Destination())
	})
}
