package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/internal/utils"
)

func TestCleaner_UsesManifest(t *testing.T) {
	src := filepath.Join(extractFixture(t, "shapes"), "src")
	config := testConfig(src)
	g, _, _ := newTestGenerator(t, config, utils.DiagnosticError)
	require.NoError(t, g.Run(context.Background()))

	removed, err := NewCleaner(nil).CleanGeneratedFiles(config)
	require.NoError(t, err)

	var names []string
	for _, path := range removed {
		names = append(names, filepath.Base(path))
	}
	assert.Equal(t, shapeArtifacts, names)
	assert.NoDirExists(t, config.Output)
	assert.FileExists(t, filepath.Join(src, "Circle.cs"))
}

func TestCleaner_KeepsUnlistedFiles(t *testing.T) {
	src := filepath.Join(extractFixture(t, "shapes"), "src")
	config := testConfig(src)
	g, _, _ := newTestGenerator(t, config, utils.DiagnosticError)
	require.NoError(t, g.Run(context.Background()))

	notes := filepath.Join(config.Output, "NOTES.md")
	writeFixtureFile(t, notes, "hand written\n")

	removed, err := NewCleaner(nil).CleanGeneratedFiles(config)
	require.NoError(t, err)
	assert.Len(t, removed, 4)
	assert.FileExists(t, notes)
	assert.NoFileExists(t, filepath.Join(config.Output, ManifestFileName))
}

func TestCleaner_FallsBackToHeader(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Generated")
	writeFixtureFile(t, filepath.Join(out, "IShapeVisitor.cs"), "// Auto-generated code\nnamespace Geometry { }\n")
	writeFixtureFile(t, filepath.Join(out, "Nested", "Circle.Visitable.cs"), "// Auto-generated code\n")
	writeFixtureFile(t, filepath.Join(out, "Manual.cs"), "namespace Geometry { }\n")

	config := Config{Directories: []string{"."}, Output: out}
	removed, err := NewCleaner(nil).CleanGeneratedFiles(config)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(out, "IShapeVisitor.cs"),
		filepath.Join(out, "Nested", "Circle.Visitable.cs"),
	}, removed)
	assert.FileExists(t, filepath.Join(out, "Manual.cs"))
	assert.NoFileExists(t, filepath.Join(out, "IShapeVisitor.cs"))
}

func TestCleaner_IgnoresIncompatibleManifest(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Generated")
	writeFixtureFile(t, filepath.Join(out, ManifestFileName), "version: 9.0.0\nfiles:\n  - path: Manual.cs\n")
	writeFixtureFile(t, filepath.Join(out, "Manual.cs"), "namespace Geometry { }\n")
	writeFixtureFile(t, filepath.Join(out, "IShapeVisitor.cs"), "// Auto-generated code\n")

	removed, err := NewCleaner(nil).CleanGeneratedFiles(Config{Output: out})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(out, "IShapeVisitor.cs")}, removed)
	assert.FileExists(t, filepath.Join(out, "Manual.cs"))
}

func TestCleaner_DryRun(t *testing.T) {
	src := filepath.Join(extractFixture(t, "shapes"), "src")
	config := testConfig(src)
	g, _, _ := newTestGenerator(t, config, utils.DiagnosticError)
	require.NoError(t, g.Run(context.Background()))

	config.DryRun = true
	removed, err := NewCleaner(nil).CleanGeneratedFiles(config)
	require.NoError(t, err)

	assert.Len(t, removed, 4)
	for _, path := range removed {
		assert.FileExists(t, path)
	}
	assert.FileExists(t, filepath.Join(config.Output, ManifestFileName))
}

func TestCleaner_MissingOutput(t *testing.T) {
	config := Config{Output: filepath.Join(t.TempDir(), "Generated")}

	removed, err := NewCleaner(nil).CleanGeneratedFiles(config)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
