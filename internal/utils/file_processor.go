package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/visitgen/internal/errors"
)

// SourceExtension is the extension of files the scanner picks up
const SourceExtension = ".cs"

// RecursiveSuffix marks a directory argument as recursive, as in "./..."
const RecursiveSuffix = "/..."

// FileProcessor finds C# sources and generated files on disk
type FileProcessor struct {
	fileReader  *FileReader
	excludeDirs []string
}

// NewFileProcessor creates a new file processor
func NewFileProcessor(excludeDirs ...string) *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader(), excludeDirs...)
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader, excludeDirs ...string) *FileProcessor {
	return &FileProcessor{
		fileReader:  reader,
		excludeDirs: excludeDirs,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceFileFilter matches C# source files
func SourceFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.EqualFold(filepath.Ext(info.Name()), SourceExtension)
	}
}

// DefaultDirectoryFilter skips build output, VCS metadata, hidden
// directories and any directory named in extra
func DefaultDirectoryFilter(extra ...string) DirectoryFilter {
	skipDirs := map[string]bool{
		"bin":          true,
		"obj":          true,
		"node_modules": true,
		".git":         true,
		".vs":          true,
		".idea":        true,
	}
	for _, name := range extra {
		skipDirs[name] = true
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks rootDir in lexical order and returns the files accepted by
// the filters. The root itself is never rejected by the directory filter.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return errors.WrapFileSystemError("walk", path, err)
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})

	return matched, err
}

// FindSourceFiles returns every C# file under roots, deduplicated and sorted.
// A root may name a single .cs file.
func (fp *FileProcessor) FindSourceFiles(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	options := FileWalkOptions{
		FileFilter:      SourceFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(fp.excludeDirs...),
	}

	for _, root := range roots {
		dir := NormalizeRoot(root)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", dir, err)
		}

		var found []string
		if info.IsDir() {
			found, err = fp.WalkFiles(dir, options)
			if err != nil {
				return nil, err
			}
		} else if strings.EqualFold(filepath.Ext(dir), SourceExtension) {
			found = []string{dir}
		}

		for _, path := range found {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, errors.WrapFileSystemError("resolve", path, err)
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, filepath.Clean(path))
		}
	}

	sort.Strings(files)
	return files, nil
}

// FindGeneratedFiles returns the C# files under dir that carry the
// generated-code header
func (fp *FileProcessor) FindGeneratedFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	candidates, err := fp.WalkFiles(dir, FileWalkOptions{
		FileFilter:      SourceFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(fp.excludeDirs...),
	})
	if err != nil {
		return nil, err
	}

	var generated []string
	for _, path := range candidates {
		ok, err := fp.fileReader.IsGeneratedFile(path)
		if err != nil {
			return generated, err
		}
		if ok {
			generated = append(generated, path)
		}
	}
	return generated, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

// NormalizeRoot strips the recursive marker from a directory argument.
// Scans are always recursive, so "./..." and "." are the same root.
func NormalizeRoot(root string) string {
	root = filepath.ToSlash(root)
	switch {
	case root == "..." || root == "":
		return "."
	case strings.HasSuffix(root, RecursiveSuffix):
		root = strings.TrimSuffix(root, RecursiveSuffix)
		if root == "" {
			return "/"
		}
	}
	return filepath.Clean(filepath.FromSlash(root))
}
