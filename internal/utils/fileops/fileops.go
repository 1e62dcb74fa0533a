package fileops

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/toyz/visitgen/internal/errors"
)

// FileMode is the permission generated files are written with
const FileMode os.FileMode = 0644

// WriteResult describes what WriteFile did on disk
type WriteResult int

const (
	Unchanged WriteResult = iota
	Created
	Updated
)

func (r WriteResult) String() string {
	switch r {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// FileOps writes and removes files below a single output directory
type FileOps struct {
	paths *PathValidator
}

// NewFileOps creates a FileOps rooted at dir. The directory is created on
// the first write.
func NewFileOps(dir string) (*FileOps, error) {
	paths, err := NewPathValidator(dir)
	if err != nil {
		return nil, err
	}
	return &FileOps{paths: paths}, nil
}

// PathValidator returns the path validator instance
func (fo *FileOps) PathValidator() *PathValidator {
	return fo.paths
}

// Root returns the absolute output directory
func (fo *FileOps) Root() string {
	return fo.paths.Root()
}

// ReadFile reads name relative to the root
func (fo *FileOps) ReadFile(name string) ([]byte, error) {
	path, err := fo.paths.Resolve(name)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return content, nil
}

// WriteFile replaces name with content through a temporary file in the same
// directory. Files whose content already matches are left untouched.
func (fo *FileOps) WriteFile(name string, content []byte) (WriteResult, error) {
	path, err := fo.paths.Resolve(name)
	if err != nil {
		return Unchanged, err
	}

	result := Created
	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, content) {
			return Unchanged, nil
		}
		result = Updated
	} else if !os.IsNotExist(err) {
		return Unchanged, errors.WrapFileSystemError("read", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Unchanged, errors.WrapFileSystemError("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return Unchanged, errors.WrapFileSystemError("create", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return Unchanged, errors.WrapFileSystemError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return Unchanged, errors.WrapFileSystemError("write", path, err)
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		return Unchanged, errors.WrapFileSystemError("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return Unchanged, errors.WrapFileSystemError("write", path, err)
	}

	return result, nil
}

// RemoveFile deletes name. A missing file is not an error and reports false.
func (fo *FileOps) RemoveFile(name string) (bool, error) {
	path, err := fo.paths.Resolve(name)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapFileSystemError("remove", path, err)
	}
	return true, nil
}

// RemoveRootIfEmpty deletes the output directory when nothing is left in it
func (fo *FileOps) RemoveRootIfEmpty() (bool, error) {
	entries, err := os.ReadDir(fo.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapFileSystemError("read directory", fo.Root(), err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(fo.Root()); err != nil {
		return false, errors.WrapFileSystemError("remove", fo.Root(), err)
	}
	return true, nil
}

// Exists checks if name exists below the root
func (fo *FileOps) Exists(name string) bool {
	path, err := fo.paths.Resolve(name)
	return err == nil && fo.paths.Exists(path)
}
