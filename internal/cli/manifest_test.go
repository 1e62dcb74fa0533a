package cli

import (
	"path/filepath"
	"testing"

	crdb "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/internal/utils/fileops"
)

func mustOps(t *testing.T, dir string) *fileops.FileOps {
	t.Helper()
	ops, err := fileops.NewFileOps(dir)
	require.NoError(t, err)
	return ops
}

func TestNewManifest(t *testing.T) {
	m := NewManifest([]models.Artifact{
		{FileName: "Square.Visitable.cs", Kind: models.ArtifactClassExtension, Symbol: "Geometry.Square"},
		{FileName: "IShapeVisitor.cs", Kind: models.ArtifactVisitorInterface, Symbol: "Geometry.IShape"},
	})

	assert.Equal(t, ManifestVersion, m.Version)
	assert.Equal(t, []string{"IShapeVisitor.cs", "Square.Visitable.cs"}, m.Paths())
	assert.Equal(t, "Geometry.Square", m.Files[1].Symbol)
	assert.Equal(t, models.ArtifactClassExtension.String(), m.Files[1].Kind)
}

func TestManifest_Stale(t *testing.T) {
	m := &Manifest{Files: []ManifestEntry{
		{Path: "A.Visitable.cs"},
		{Path: "B.Visitable.cs"},
		{Path: "IVisitor.cs"},
	}}

	tests := []struct {
		name    string
		current []string
		want    []string
	}{
		{name: "all current", current: []string{"IVisitor.cs", "A.Visitable.cs", "B.Visitable.cs"}, want: nil},
		{name: "one removed", current: []string{"IVisitor.cs", "A.Visitable.cs"}, want: []string{"B.Visitable.cs"}},
		{name: "case change is not stale", current: []string{"ivisitor.cs", "a.visitable.cs", "b.VISITABLE.cs"}, want: nil},
		{name: "nothing current", current: nil, want: []string{"A.Visitable.cs", "B.Visitable.cs", "IVisitor.cs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Stale(tt.current))
		})
	}

	var missing *Manifest
	assert.Nil(t, missing.Stale([]string{"A.cs"}))
	assert.Nil(t, missing.Paths())
}

func TestReadManifest(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		m, err := ReadManifest(mustOps(t, t.TempDir()))
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("written by this version", func(t *testing.T) {
		ops := mustOps(t, filepath.Join(t.TempDir(), "Generated"))
		want := NewManifest([]models.Artifact{{FileName: "IVisitor.cs", Symbol: "N.I"}})
		require.NoError(t, WriteManifest(ops, want))

		got, err := ReadManifest(ops)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	tests := []struct {
		name         string
		content      string
		incompatible bool
	}{
		{name: "newer major version", content: "version: 2.0.0\nfiles: []\n", incompatible: true},
		{name: "older major version", content: "version: 0.9.0\nfiles: []\n", incompatible: true},
		{name: "no version", content: "files: []\n", incompatible: true},
		{name: "invalid yaml", content: "files: [\n", incompatible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixtureFile(t, filepath.Join(dir, ManifestFileName), tt.content)

			_, err := ReadManifest(mustOps(t, dir))
			require.Error(t, err)
			if tt.incompatible {
				assert.True(t, crdb.Is(err, ErrIncompatibleManifest))
				assert.NotEmpty(t, crdb.GetAllHints(err))
				return
			}
			assert.False(t, crdb.Is(err, ErrIncompatibleManifest))
			assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
		})
	}

	t.Run("minor version accepted", func(t *testing.T) {
		dir := t.TempDir()
		writeFixtureFile(t, filepath.Join(dir, ManifestFileName), "version: 1.4.2\nfiles:\n  - path: A.cs\n")

		m, err := ReadManifest(mustOps(t, dir))
		require.NoError(t, err)
		assert.Equal(t, []string{"A.cs"}, m.Paths())
	})
}
