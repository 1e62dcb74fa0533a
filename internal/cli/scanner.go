package cli

import (
	"github.com/toyz/visitgen/internal/utils"
)

// DirectoryScanner finds the C# sources of a compilation
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner that skips the default build and VCS
// directories plus any names in exclude
func NewDirectoryScanner(exclude ...string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(exclude...),
	}
}

// ScanDirectories recursively scans the given roots and returns every .cs
// file in sorted order. Roots may use the "./..." form.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	return s.fileProcessor.FindSourceFiles(rootDirs)
}

// Reader returns the caching reader shared by this scanner
func (s *DirectoryScanner) Reader() *utils.FileReader {
	return s.fileProcessor.GetFileReader()
}
