package layout

import (
	"fmt"
	"io"
	"os"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current catalog manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CatalogManifest models a YAML/JSON document describing extra widget types.
type CatalogManifest struct {
	Version string       `json:"version" yaml:"version"`
	Name    string       `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []WidgetType `json:"widgets" yaml:"widgets"`
	Source  string       `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk and registers its widget types.
func (c *Catalog) LoadManifestFile(path string) (*CatalogManifest, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := c.LoadManifest(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifest registers the widget types of a decoded manifest.
func (c *Catalog) LoadManifest(doc *CatalogManifest) error {
	if doc == nil {
		return fmt.Errorf("layout: manifest document is nil")
	}
	for _, wt := range doc.Widgets {
		if err := c.Register(wt); err != nil {
			return fmt.Errorf("layout: register widget type %s from %s: %w", wt.Type, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file without registering it.
func ReadManifest(path string) (*CatalogManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("layout: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("layout: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. Widget type keys are
// normalized to kebab case so "RecentFlows" and "recent_flows" both map to
// "recent-flows".
func DecodeManifest(r io.Reader) (*CatalogManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CatalogManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("layout: manifest is empty")
		}
		return nil, fmt.Errorf("layout: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Widgets {
		doc.Widgets[i].Type = strcase.ToKebab(doc.Widgets[i].Type)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *CatalogManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("layout: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, wt := range doc.Widgets {
		if wt.Type == "" {
			return fmt.Errorf("layout: manifest widget at index %d is missing type", idx)
		}
		if wt.Label == "" {
			return fmt.Errorf("layout: manifest widget %s missing label", wt.Type)
		}
		if _, exists := seen[wt.Type]; exists {
			return fmt.Errorf("layout: manifest duplicates widget type %s", wt.Type)
		}
		seen[wt.Type] = struct{}{}
	}
	return nil
}
