package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/visitgen/internal/csharp"
	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
)

// FileReader reads and parses C# sources, caching results until the file
// on disk changes.
type FileReader struct {
	parser       *csharp.Parser
	sourceCache  *Cache[string, *models.SourceFile]
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		parser:       csharp.NewParser(),
		sourceCache:  NewCache[string, *models.SourceFile](),
		contentCache: NewCache[string, string](),
	}
}

// ParseSourceFile returns the declarations of the C# file at filePath.
// Generated files parse to an empty SourceFile.
func (fr *FileReader) ParseSourceFile(filePath string) (*models.SourceFile, error) {
	cleanPath, info, err := fr.stat(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.sourceCache.Lookup(cleanPath, info); ok {
		return cached, nil
	}

	content, err := fr.read(cleanPath, info)
	if err != nil {
		return nil, err
	}

	file, err := fr.parser.ParseSource(cleanPath, content)
	if err != nil {
		return nil, err
	}

	fr.sourceCache.Store(cleanPath, file, info)
	return file, nil
}

// ReadFile returns the contents of filePath
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, info, err := fr.stat(filePath)
	if err != nil {
		return "", err
	}
	return fr.read(cleanPath, info)
}

// IsGeneratedFile reports whether filePath carries the generated-code header
func (fr *FileReader) IsGeneratedFile(filePath string) (bool, error) {
	content, err := fr.ReadFile(filePath)
	if err != nil {
		return false, err
	}
	return csharp.IsGenerated(content), nil
}

// Prune drops cached entries for files not in paths and returns how many
// were removed
func (fr *FileReader) Prune(paths []string) int {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[filepath.Clean(p)] = true
	}
	fr.contentCache.Retain(keep)
	return fr.sourceCache.Retain(keep)
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.sourceCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}

// GetCacheStats returns statistics about the cache
func (fr *FileReader) GetCacheStats() (sourceFiles, contentFiles int) {
	return fr.sourceCache.Size(), fr.contentCache.Size()
}

func (fr *FileReader) read(cleanPath string, info os.FileInfo) (string, error) {
	if cached, ok := fr.contentCache.Lookup(cleanPath, info); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	text := string(content)
	fr.contentCache.Store(cleanPath, text, info)
	return text, nil
}

func (fr *FileReader) stat(filePath string) (string, os.FileInfo, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", nil, errors.Wrap(errors.InvalidArgumentErrorCode, "invalid file path", err)
	}

	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", nil, errors.WrapFileSystemError("stat", cleanPath, err)
	}
	if info.IsDir() {
		return "", nil, errors.Newf(errors.FileSystemErrorCode, "'%s' is a directory", cleanPath)
	}
	return cleanPath, info, nil
}
