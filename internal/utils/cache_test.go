package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statFile(t *testing.T, path, content string) os.FileInfo {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info
}

func TestCache_BasicOperations(t *testing.T) {
	info := statFile(t, filepath.Join(t.TempDir(), "A.cs"), "class A { }")
	cache := NewCache[string, int]()

	cache.Store("key1", 42, info)
	value, ok := cache.Lookup("key1", info)
	require.True(t, ok)
	assert.Equal(t, 42, value)

	_, ok = cache.Lookup("missing", info)
	assert.False(t, ok)

	cache.Delete("key1")
	_, ok = cache.Lookup("key1", info)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
}

func TestCache_Retain(t *testing.T) {
	info := statFile(t, filepath.Join(t.TempDir(), "A.cs"), "class A { }")
	cache := NewCache[string, int]()
	cache.Store("keep", 1, info)
	cache.Store("drop1", 2, info)
	cache.Store("drop2", 3, info)

	removed := cache.Retain(map[string]bool{"keep": true})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Size())
	_, ok := cache.Lookup("keep", info)
	assert.True(t, ok)
}

func TestCache_FileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Shape.cs")
	info := statFile(t, path, "interface IShape {}")

	cache := NewCache[string, string]()
	cache.Store(path, "parsed", info)

	value, ok := cache.Lookup(path, info)
	require.True(t, ok)
	assert.Equal(t, "parsed", value)

	// A different size invalidates even within the mtime granularity.
	require.NoError(t, os.WriteFile(path, []byte("interface IShape { void Draw(); }"), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	changed, err := os.Stat(path)
	require.NoError(t, err)

	_, ok = cache.Lookup(path, changed)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size(), "stale entries are evicted")
}

func TestCache_LookupWithoutInfo(t *testing.T) {
	info := statFile(t, filepath.Join(t.TempDir(), "A.cs"), "class A { }")
	cache := NewCache[string, int]()
	cache.Store("k", 7, info)

	_, ok := cache.Lookup("k", nil)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
}
