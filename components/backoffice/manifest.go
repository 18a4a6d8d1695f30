package backoffice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ScreenManifestDocument models a YAML manifest describing the settings tree.
// Deployments add branch- or product-specific screens without code changes.
type ScreenManifestDocument struct {
	Version string             `json:"version" yaml:"version"`
	Name    string             `json:"name,omitempty" yaml:"name,omitempty"`
	Screens []ScreenDefinition `json:"screens" yaml:"screens"`
	Source  string             `json:"-" yaml:"-"`
}

// ReadScreenManifest decodes a manifest file from disk.
func ReadScreenManifest(path string) (*ScreenManifestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backoffice: read manifest %s: %w", path, err)
	}
	var doc ScreenManifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("backoffice: parse manifest %s: %w", path, err)
	}
	if doc.Version != manifestVersionV1 {
		return nil, fmt.Errorf("backoffice: unsupported manifest version %q in %s", doc.Version, path)
	}
	doc.Source = path
	return &doc, nil
}

// LoadManifestFile reads a manifest from disk and registers its screens.
func (r *ScreenRegistry) LoadManifestFile(path string) (*ScreenManifestDocument, error) {
	doc, err := ReadScreenManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers every screen from a decoded manifest.
func (r *ScreenRegistry) LoadManifestDocument(doc *ScreenManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("backoffice: manifest document is nil")
	}
	for _, def := range doc.Screens {
		if err := r.Register(def); err != nil {
			return fmt.Errorf("backoffice: manifest %s: %w", doc.Source, err)
		}
	}
	return nil
}

// WriteScreenManifest encodes the manifest to path with stable indentation.
func WriteScreenManifest(path string, doc *ScreenManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("backoffice: manifest document is nil")
	}
	out := *doc
	out.Source = ""
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("backoffice: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("backoffice: write manifest %s: %w", path, err)
	}
	return nil
}
