package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/internal/errors"
)

func sourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{
		"Shapes/IShape.cs":           "interface IShape { }",
		"Shapes/Square.CS":           "class Square { }",
		"Shapes/README.md":           "# shapes",
		"Nodes/Node.cs":              "class Node { }",
		"bin/Debug/Old.cs":           "class Old { }",
		"obj/Gen.cs":                 "class Gen { }",
		".hidden/Secret.cs":          "class Secret { }",
		"node_modules/pkg/Dep.cs":    "class Dep { }",
		"Legacy/Skipped.cs":          "class Skipped { }",
		"Generated/IShapeVisitor.cs": "// Auto-generated code\ninterface IShapeVisitor { }",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	return root
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestSourceFileFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.cs"), "")
	writeFile(t, filepath.Join(root, "B.Cs"), "")
	writeFile(t, filepath.Join(root, "C.csx"), "")
	writeFile(t, filepath.Join(root, "D.go"), "")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	filter := SourceFileFilter()
	var matched []string
	for _, entry := range entries {
		if filter(filepath.Join(root, entry.Name()), entry) {
			matched = append(matched, entry.Name())
		}
	}
	assert.Equal(t, []string{"A.cs", "B.Cs"}, matched)
}

func TestFileProcessor_FindSourceFiles(t *testing.T) {
	root := sourceTree(t)

	files, err := NewFileProcessor("Legacy").FindSourceFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Generated/IShapeVisitor.cs",
		"Nodes/Node.cs",
		"Shapes/IShape.cs",
		"Shapes/Square.CS",
	}, relative(t, root, files))
}

func TestFileProcessor_FindSourceFilesDeduplicates(t *testing.T) {
	root := sourceTree(t)
	shapes := filepath.Join(root, "Shapes")

	files, err := NewFileProcessor().FindSourceFiles([]string{
		root + RecursiveSuffix,
		shapes,
		filepath.Join(shapes, "IShape.cs"),
	})
	require.NoError(t, err)
	assert.Len(t, files, 5, "Legacy is included when not excluded")
}

func TestFileProcessor_FindSourceFilesMissingRoot(t *testing.T) {
	_, err := NewFileProcessor().FindSourceFiles([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}

func TestFileProcessor_WalkFilesRootNotFiltered(t *testing.T) {
	root := sourceTree(t)
	bin := filepath.Join(root, "bin")

	files, err := NewFileProcessor().WalkFiles(bin, FileWalkOptions{
		FileFilter:      SourceFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Debug/Old.cs"}, relative(t, bin, files))
}

func TestFileProcessor_FindGeneratedFiles(t *testing.T) {
	root := sourceTree(t)
	fp := NewFileProcessor()

	generated, err := fp.FindGeneratedFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Generated/IShapeVisitor.cs"}, relative(t, root, generated))

	missing, err := fp.FindGeneratedFiles(filepath.Join(root, "Missing"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestNormalizeRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "."},
		{"...", "."},
		{"./...", "."},
		{"src/...", "src"},
		{"src/Shapes/", filepath.FromSlash("src/Shapes")},
		{"/...", string(filepath.Separator)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRoot(tt.in))
		})
	}
}
