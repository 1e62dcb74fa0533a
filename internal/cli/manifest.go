package cli

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	crdb "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/internal/utils/fileops"
)

const (
	// ManifestFileName is written next to the generated files
	ManifestFileName = ".visitgen.yaml"

	// ManifestVersion is the format version this build writes
	ManifestVersion = "1.0.0"

	// manifestConstraint is the range of format versions this build reads
	manifestConstraint = "^1.0"
)

// ErrIncompatibleManifest marks a manifest whose format version this build
// cannot read
var ErrIncompatibleManifest = crdb.New("incompatible manifest version")

// Manifest records the files a generation run wrote, so later runs can
// delete artifacts whose symbols disappeared
type Manifest struct {
	Version string          `yaml:"version"`
	Files   []ManifestEntry `yaml:"files"`
}

// ManifestEntry is one generated file
type ManifestEntry struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Symbol string `yaml:"symbol"`
}

// NewManifest builds the manifest for artifacts
func NewManifest(artifacts []models.Artifact) *Manifest {
	m := &Manifest{Version: ManifestVersion, Files: make([]ManifestEntry, 0, len(artifacts))}
	for _, a := range artifacts {
		m.Files = append(m.Files, ManifestEntry{
			Path:   a.FileName,
			Kind:   a.Kind.String(),
			Symbol: a.Symbol,
		})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return m
}

// Paths returns the recorded file names
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Stale returns the recorded files that are not in current. File names are
// compared case-insensitively, matching how collisions are detected.
func (m *Manifest) Stale(current []string) []string {
	if m == nil {
		return nil
	}
	keep := make(map[string]bool, len(current))
	for _, name := range current {
		keep[strings.ToLower(name)] = true
	}

	var stale []string
	for _, f := range m.Files {
		if !keep[strings.ToLower(f.Path)] {
			stale = append(stale, f.Path)
		}
	}
	return stale
}

// ReadManifest loads the manifest from the output directory. A missing
// manifest yields nil without error. A manifest written by an incompatible
// version yields an error wrapping ErrIncompatibleManifest.
func ReadManifest(ops *fileops.FileOps) (*Manifest, error) {
	if !ops.Exists(ManifestFileName) {
		return nil, nil
	}

	content, err := ops.ReadFile(ManifestFileName)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, errors.WrapConfigurationError(ManifestFileName, "decode", err)
	}

	if err := checkManifestVersion(m.Version); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteManifest stores m in the output directory
func WriteManifest(ops *fileops.FileOps, m *Manifest) error {
	content, err := yaml.Marshal(m)
	if err != nil {
		return errors.WrapConfigurationError(ManifestFileName, "encode", err)
	}
	_, err = ops.WriteFile(ManifestFileName, content)
	return err
}

func checkManifestVersion(raw string) error {
	constraint, err := semver.NewConstraint(manifestConstraint)
	if err != nil {
		return crdb.WithStack(err)
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return crdb.WithHint(
			crdb.Wrapf(ErrIncompatibleManifest, "version %q", raw),
			"Run `visitgen clean` and regenerate",
		)
	}
	if !constraint.Check(version) {
		return crdb.WithHint(
			crdb.Wrapf(ErrIncompatibleManifest, "version %s does not satisfy %s", version, manifestConstraint),
			"Run `visitgen clean` with the version that wrote the manifest, or delete "+ManifestFileName,
		)
	}
	return nil
}
