package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-flowsense/components/layout"
)

type scaffoldCmd struct {
	Type         string `required:"" help:"Widget type key; normalized to kebab case (e.g. RecentFlows -> recent-flows)."`
	Label        string `required:"" help:"Display label for the widget."`
	Icon         string `help:"Icon name (e.g. utility:chart)."`
	Component    string `help:"Renderer component name (defaults to c-<type>)."`
	ManifestPath string `required:"" type:"path" help:"Path to the catalog manifest YAML file to update."`
	SchemaPath   string `type:"path" help:"Optional path to a JSON schema file for the widget configuration."`
	ConfigPath   string `type:"path" help:"Optional path to a JSON file with the default configuration."`
	Overwrite    bool   `help:"Replace an existing manifest entry with the same type."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, g *Globals) error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("layoutctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	if err := upsert(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(g.writer(), "✓ Added %s to %s\n", entry.Type, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) entry() (layout.WidgetType, error) {
	code := strcase.ToKebab(cmd.Type)
	if code == "" {
		return layout.WidgetType{}, errors.New("layoutctl: widget type is required")
	}
	component := cmd.Component
	if component == "" {
		component = "c-" + code
	}
	schema, err := readJSONObject(cmd.SchemaPath, map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	})
	if err != nil {
		return layout.WidgetType{}, err
	}
	config, err := readJSONObject(cmd.ConfigPath, map[string]any{})
	if err != nil {
		return layout.WidgetType{}, err
	}
	return layout.WidgetType{
		Type:          code,
		Label:         cmd.Label,
		Icon:          cmd.Icon,
		Component:     component,
		DefaultConfig: config,
		Schema:        schema,
	}, nil
}

func upsert(doc *layout.CatalogManifest, entry layout.WidgetType, overwrite bool) error {
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Type != entry.Type {
			continue
		}
		if !overwrite {
			return fmt.Errorf("layoutctl: manifest already defines widget type %s (use --overwrite to replace)", entry.Type)
		}
		doc.Widgets[idx] = entry
		return nil
	}
	doc.Widgets = append(doc.Widgets, entry)
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Type < doc.Widgets[j].Type
	})
	return nil
}

func readJSONObject(path string, fallback map[string]any) (map[string]any, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layoutctl: read %s: %w", path, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("layoutctl: parse %s: %w", path, err)
	}
	return out, nil
}

func loadOrInitManifest(path string) (*layout.CatalogManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &layout.CatalogManifest{
				Version: layout.ManifestVersion,
				Widgets: []layout.WidgetType{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("layoutctl: stat manifest: %w", err)
	}
	return layout.ReadManifest(path)
}

func writeManifest(path string, doc *layout.CatalogManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("layoutctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("layoutctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("layoutctl: write manifest: %w", err)
	}
	return nil
}
