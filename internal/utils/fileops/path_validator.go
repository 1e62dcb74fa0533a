package fileops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/visitgen/internal/errors"
)

// PathValidator confines file operations to a root directory
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at root
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, errors.New(errors.InvalidArgumentErrorCode, "root directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve path", root, err)
	}
	return &PathValidator{root: abs}, nil
}

// Root returns the absolute root directory
func (pv *PathValidator) Root() string {
	return pv.root
}

// Resolve joins name onto the root and rejects results that escape it.
// Absolute names are accepted when they already lie under the root.
func (pv *PathValidator) Resolve(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.InvalidArgumentErrorCode, "file path cannot be empty")
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(pv.root, name)
	}
	path = filepath.Clean(path)

	if !pv.Within(path) {
		return "", errors.Newf(errors.FileSystemErrorCode, "path '%s' is outside '%s'", name, pv.root).
			WithContext("path", name).
			WithContext("root", pv.root)
	}
	return path, nil
}

// Within reports whether path lies strictly below the root
func (pv *PathValidator) Within(path string) bool {
	rel, err := filepath.Rel(pv.root, filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Exists checks if a path exists
func (pv *PathValidator) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir checks if a path exists and is a directory
func (pv *PathValidator) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
