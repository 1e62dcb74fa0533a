package cli

import (
	"fmt"
	"path/filepath"

	crdb "github.com/cockroachdb/errors"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/utils"
	"github.com/toyz/visitgen/internal/utils/fileops"
)

// Cleaner removes generated files from the output directory
type Cleaner struct {
	processor   *utils.FileProcessor
	diagnostics *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner
func NewCleaner(diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Cleaner{
		processor:   utils.NewFileProcessor(),
		diagnostics: diagnostics,
	}
}

// CleanGeneratedFiles deletes the files listed in the output directory's
// manifest, then the manifest itself and the directory if it is left empty.
// Without a usable manifest, every file carrying the generated-code header is
// removed instead. Returns the removed paths.
func (c *Cleaner) CleanGeneratedFiles(config Config) ([]string, error) {
	ops, err := fileops.NewFileOps(config.Output)
	if err != nil {
		return nil, err
	}

	manifest, err := ReadManifest(ops)
	if err != nil {
		if !crdb.Is(err, ErrIncompatibleManifest) {
			return nil, err
		}
		c.diagnostics.Warn("Ignoring %s: %v", ManifestFileName, err)
		manifest = nil
	}

	targets, err := c.targets(ops, manifest)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range targets {
		path := filepath.Join(config.Output, name)
		if config.DryRun {
			c.diagnostics.PhaseProgress(fmt.Sprintf("Removing %s (dry run)", path))
			removed = append(removed, path)
			continue
		}

		ok, err := ops.RemoveFile(name)
		if err != nil {
			return removed, err
		}
		if ok {
			c.diagnostics.PhaseProgress(fmt.Sprintf("Removing %s", path))
			removed = append(removed, path)
		}
	}

	if config.DryRun {
		return removed, nil
	}

	if _, err := ops.RemoveFile(ManifestFileName); err != nil {
		return removed, err
	}
	if _, err := ops.RemoveRootIfEmpty(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (c *Cleaner) targets(ops *fileops.FileOps, manifest *Manifest) ([]string, error) {
	if manifest != nil {
		return manifest.Paths(), nil
	}

	c.diagnostics.Verbose("No manifest in %s, removing files with the generated header", ops.Root())
	generated, err := c.processor.FindGeneratedFiles(ops.Root())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(generated))
	for _, path := range generated {
		rel, err := filepath.Rel(ops.Root(), path)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve path", path, err)
		}
		names = append(names, rel)
	}
	return names, nil
}
