package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/internal/errors"
)

const shapeSource = `namespace Geometry
{
    [Visitable]
    public interface IShape { }

    public class Square : IShape { }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileReader_ParseSourceFileCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Shape.cs")
	writeFile(t, path, shapeSource)

	reader := NewFileReader()
	first, err := reader.ParseSourceFile(path)
	require.NoError(t, err)
	require.Len(t, first.Types, 2)
	assert.Equal(t, "IShape", first.Types[0].Name)

	second, err := reader.ParseSourceFile(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	sources, contents := reader.GetCacheStats()
	assert.Equal(t, 1, sources)
	assert.Equal(t, 1, contents)
}

func TestFileReader_ReparsesChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Shape.cs")
	writeFile(t, path, shapeSource)

	reader := NewFileReader()
	first, err := reader.ParseSourceFile(path)
	require.NoError(t, err)

	writeFile(t, path, shapeSource+"\nnamespace Geometry { public class Circle : IShape { } }\n")
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := reader.ParseSourceFile(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Types, 3)
}

func TestFileReader_GeneratedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IShapeVisitor.cs")
	writeFile(t, path, "// Auto-generated code\npublic interface IShapeVisitor { }\n")

	reader := NewFileReader()
	generated, err := reader.IsGeneratedFile(path)
	require.NoError(t, err)
	assert.True(t, generated)

	file, err := reader.ParseSourceFile(path)
	require.NoError(t, err)
	assert.Empty(t, file.Types)
}

func TestFileReader_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "Broken.cs")
	writeFile(t, broken, "namespace A { public class B {")

	reader := NewFileReader()

	tests := []struct {
		name string
		path string
		code errors.ErrorCode
	}{
		{"empty path", "", errors.InvalidArgumentErrorCode},
		{"missing file", filepath.Join(dir, "Missing.cs"), errors.FileSystemErrorCode},
		{"directory", dir, errors.FileSystemErrorCode},
		{"syntax error", broken, errors.SyntaxErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ParseSourceFile(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}

	sources, _ := reader.GetCacheStats()
	assert.Equal(t, 0, sources, "failed parses are not cached")
}

func TestFileReader_PruneAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.cs")
	b := filepath.Join(dir, "B.cs")
	writeFile(t, a, "public class A { }")
	writeFile(t, b, "public class B { }")

	reader := NewFileReader()
	_, err := reader.ParseSourceFile(a)
	require.NoError(t, err)
	_, err = reader.ParseSourceFile(b)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.Prune([]string{a}))
	sources, contents := reader.GetCacheStats()
	assert.Equal(t, 1, sources)
	assert.Equal(t, 1, contents)

	reader.InvalidateFile(a)
	sources, _ = reader.GetCacheStats()
	assert.Equal(t, 0, sources)
}
