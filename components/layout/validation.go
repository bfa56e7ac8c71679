package layout

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks a widget configuration against its widget type.
type ConfigValidator interface {
	Validate(wt WidgetType, config map[string]any) error
}

type schemaDigest [sha256.Size]byte

// JSONSchemaValidator validates widget configurations with the JSON Schema
// carried by each widget type. Compiled schemas are cached by type and schema
// content, so a type re-registered with a different schema is recompiled.
type JSONSchemaValidator struct {
	mu      sync.Mutex
	schemas map[schemaDigest]*jsonschema.Schema
	current map[string]schemaDigest
}

// NewJSONSchemaValidator returns an empty validator.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		schemas: map[schemaDigest]*jsonschema.Schema{},
		current: map[string]schemaDigest{},
	}
}

// Validate returns nil for types without a schema.
func (v *JSONSchemaValidator) Validate(wt WidgetType, config map[string]any) error {
	if len(wt.Schema) == 0 {
		return nil
	}
	schema, err := v.compile(wt)
	if err != nil {
		return err
	}
	instance, err := asJSONValue(config)
	if err != nil {
		return fmt.Errorf("layout: config for %s: %w", wt.Type, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("layout: config for %s: %s", wt.Type, describe(err))
	}
	return nil
}

func (v *JSONSchemaValidator) compile(wt WidgetType) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(wt.Schema)
	if err != nil {
		return nil, fmt.Errorf("layout: schema for %s: %w", wt.Type, err)
	}
	digest := schemaDigest(sha256.Sum256(append([]byte(wt.Type+"\x00"), raw...)))

	v.mu.Lock()
	defer v.mu.Unlock()
	if schema, ok := v.schemas[digest]; ok {
		return schema, nil
	}
	url := fmt.Sprintf("%s-%x.json", wt.Type, digest[:6])
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("layout: schema for %s: %w", wt.Type, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("layout: schema for %s: %w", wt.Type, err)
	}
	if stale, ok := v.current[wt.Type]; ok {
		delete(v.schemas, stale)
	}
	v.current[wt.Type] = digest
	v.schemas[digest] = schema
	return schema, nil
}

// asJSONValue converts config to the shapes encoding/json produces, which is
// what the schema keywords are evaluated against.
func asJSONValue(config map[string]any) (any, error) {
	if config == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// describe flattens a schema failure into "location: message" pairs.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		at := strings.TrimPrefix(e.InstanceLocation, "/")
		if at == "" {
			at = "config"
		}
		parts = append(parts, at+": "+e.Error)
	}
	if len(parts) == 0 {
		return ve.Error()
	}
	return strings.Join(parts, "; ")
}
