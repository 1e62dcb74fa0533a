package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	crdb "github.com/cockroachdb/errors"

	"github.com/toyz/visitgen/internal/collector"
	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/generator"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/internal/utils"
	"github.com/toyz/visitgen/internal/utils/fileops"
)

// Generator coordinates the CLI generation process: scan, parse, collect,
// generate and write
type Generator struct {
	config        Config
	scanner       *DirectoryScanner
	codeGenerator generator.CodeGenerator
	reporter      *DiagnosticReporter
	diagnostics   *utils.DiagnosticSystem
	summary       GenerationSummary
}

// NewGenerator creates a generator for config. A nil diagnostics system is
// replaced by one at the level the config asks for.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	policy, err := generator.ParseCollisionPolicy(config.Collisions)
	if err != nil {
		return nil, err
	}
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(config.DiagnosticLevel())
	}

	return &Generator{
		config:        config,
		scanner:       NewDirectoryScanner(config.Exclude...),
		codeGenerator: generator.NewDriver(generator.Options{Collisions: policy}),
		reporter:      NewDiagnosticReporter(config.Verbose),
		diagnostics:   diagnostics,
	}, nil
}

// SetReporter replaces the reporter used for parse warnings
func (g *Generator) SetReporter(reporter *DiagnosticReporter) {
	g.reporter = reporter
}

// Config returns the configuration the generator runs with
func (g *Generator) Config() Config {
	return g.config
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes one complete generation
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	d := g.diagnostics

	d.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	d.Debug("Scanning directories: %v", g.config.Directories)
	d.PhaseHeader("Scanning")

	files, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return err
	}
	g.summary.FilesScanned = len(files)
	g.scanner.Reader().Prune(files)

	if len(files) == 0 {
		d.Warn("No C# files found in %s", strings.Join(g.config.Directories, ", "))
	} else {
		d.PhaseItem(fmt.Sprintf("Found %d C# files", len(files)))
	}

	sources, err := g.parse(ctx, files)
	if err != nil {
		return err
	}
	cachedSources, cachedContents := g.scanner.Reader().GetCacheStats()
	d.Debug("Reader cache holds %d parsed files and %d contents", cachedSources, cachedContents)

	result := collector.Collect(sources)
	g.summary.InterfacesFound = result.Symbols.InterfaceCount()
	g.summary.ClassesFound = result.Symbols.ClassCount()
	g.summary.TypesSkipped = len(result.Skipped)
	g.reportSkipped(result.Skipped)

	d.PhaseItem(fmt.Sprintf("Collected %d visitable interfaces and %d visitable classes",
		g.summary.InterfacesFound, g.summary.ClassesFound))

	artifacts, err := g.codeGenerator.Generate(result.Symbols)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.PhaseHeader("Writing")
	if err := g.write(artifacts); err != nil {
		return err
	}

	d.Verbose("Generation completed in %v", time.Since(startTime))
	return nil
}

// parse reads every file. Unparseable files are skipped with a warning, or
// collected into one error in strict mode.
func (g *Generator) parse(ctx context.Context, files []string) ([]*models.SourceFile, error) {
	reader := g.scanner.Reader()
	failures := errors.NewMultipleErrors()
	sources := make([]*models.SourceFile, 0, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file, err := reader.ParseSourceFile(path)
		if err != nil {
			if g.config.Strict {
				ve, ok := errors.AsVisitgenError(err)
				if !ok {
					ve = errors.WrapSyntaxError(path, errors.SourceLocation{}, err)
				}
				failures.Add(ve)
				continue
			}
			g.summary.FilesSkipped++
			if g.diagnostics.Level() >= utils.DiagnosticWarn {
				g.reporter.ReportWarningError(err)
			}
			continue
		}

		g.diagnostics.Debug("Parsed %s: %d declarations", path, len(file.Types))
		sources = append(sources, file)
	}

	if err := failures.ErrorOrNil(); err != nil {
		return nil, err
	}
	return sources, nil
}

// reportSkipped logs declarations that produced no artifacts. Types that
// implement a visitable interface but cannot take part in dispatch are
// warnings, since their visitor silently lacks an overload.
func (g *Generator) reportSkipped(skipped []collector.Skipped) {
	for _, s := range skipped {
		switch s.Reason {
		case collector.ReasonNoVisitable:
			g.diagnostics.Debug("Skipped %s %s: %s", s.Kind, s.Name, s.Reason)
		case collector.ReasonCoveredByBase:
			g.diagnostics.Verbose("Skipped %s %s (%s): %s", s.Kind, s.Name, s.Location, s.Reason)
		default:
			g.diagnostics.Warn("Skipped %s %s (%s): %s", s.Kind, s.Name, s.Location, s.Reason)
		}
	}
}

// write stores artifacts in the output directory, removes files the previous
// run wrote that are no longer produced, and records the new manifest
func (g *Generator) write(artifacts []models.Artifact) error {
	d := g.diagnostics
	dryRun := g.config.DryRun

	ops, err := fileops.NewFileOps(g.config.Output)
	if err != nil {
		return err
	}

	previous, err := ReadManifest(ops)
	if err != nil {
		if !crdb.Is(err, ErrIncompatibleManifest) {
			return err
		}
		d.Warn("Ignoring %s, stale files will not be removed: %v", ManifestFileName, err)
		previous = nil
	}

	names := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		names = append(names, artifact.FileName)
		path := filepath.Join(g.config.Output, artifact.FileName)

		if dryRun {
			d.PhaseProgress(fmt.Sprintf("Writing %s (dry run)", path))
			g.summary.Written++
			g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
			continue
		}

		result, err := ops.WriteFile(artifact.FileName, []byte(artifact.Content))
		if err != nil {
			return err
		}

		if result == fileops.Unchanged {
			g.summary.Unchanged++
			d.Verbose("Unchanged %s", path)
		} else {
			g.summary.Written++
			d.PhaseProgress(fmt.Sprintf("Writing %s (%s)", path, result))
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
	}

	for _, name := range previous.Stale(names) {
		path := filepath.Join(g.config.Output, name)
		d.PhaseProgress(fmt.Sprintf("Removing %s", path))
		if !dryRun {
			if _, err := ops.RemoveFile(name); err != nil {
				return err
			}
		}
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
	}

	if dryRun {
		return nil
	}

	if len(artifacts) == 0 {
		if _, err := ops.RemoveFile(ManifestFileName); err != nil {
			return err
		}
		_, err := ops.RemoveRootIfEmpty()
		return err
	}
	return WriteManifest(ops, NewManifest(artifacts))
}
