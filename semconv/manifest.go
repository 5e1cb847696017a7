package semconv

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/sembrowse/errors"
	"gopkg.in/yaml.v3"
)

// ManifestNames are registry description files. They carry no groups and
// are never parsed as attribute documents.
var ManifestNames = []string{"manifest.yaml", "registry_manifest.yaml"}

// IsManifest reports whether path names a registry manifest.
func IsManifest(path string) bool {
	return slices.Contains(ManifestNames, filepath.Base(path))
}

// Manifest describes a registry.
type Manifest struct {
	Name           string `yaml:"name" json:"name,omitempty"`
	Description    string `yaml:"description" json:"description,omitempty"`
	SemconvVersion string `yaml:"semconv_version" json:"semconv_version,omitempty"`
	SchemaBaseURL  string `yaml:"schema_base_url" json:"schema_base_url,omitempty"`
}

// ReadManifest parses a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &m, nil
}

// Version parses SemconvVersion; a leading "v" is accepted.
func (m *Manifest) Version() (*semver.Version, error) {
	if m.SemconvVersion == "" {
		return nil, errors.New("manifest declares no semconv_version")
	}
	return semver.NewVersion(m.SemconvVersion)
}

// CheckRequirement verifies the manifest version against a constraint such
// as ">= 1.26". An empty constraint always passes.
func CheckRequirement(m *Manifest, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.WrapConfig(err, "invalid version constraint "+constraint)
	}
	if m == nil {
		return errors.NewConfigError("registry requires %s but has no manifest", constraint)
	}
	v, err := m.Version()
	if err != nil {
		return errors.WrapConfig(err, "registry version")
	}
	if !c.Check(v) {
		return errors.NewConfigError("registry version %s does not satisfy %s", v, constraint)
	}
	return nil
}
