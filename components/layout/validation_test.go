package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundedSchema(max int) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": max},
		},
	}
}

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	wt := WidgetType{
		Type: "demo",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
	if err := validator.Validate(wt, map[string]any{"name": "Dashboard"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := validator.Validate(wt, map[string]any{}); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestJSONSchemaValidatorNamesFailingField(t *testing.T) {
	validator := NewJSONSchemaValidator()
	err := validator.Validate(WidgetType{Type: "demo", Schema: boundedSchema(10)}, map[string]any{"limit": 11})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout: config for demo")
	assert.Contains(t, err.Error(), "limit")
}

func TestJSONSchemaValidatorReusesCompiledSchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	wt := WidgetType{Type: "cache", Schema: map[string]any{"type": "object"}}
	require.NoError(t, validator.Validate(wt, nil))
	require.NoError(t, validator.Validate(wt, map[string]any{}))
	assert.Len(t, validator.schemas, 1)
}

func TestJSONSchemaValidatorFollowsReplacedSchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	config := map[string]any{"limit": 50}

	require.NoError(t, validator.Validate(WidgetType{Type: "feed", Schema: boundedSchema(100)}, config))
	assert.Error(t, validator.Validate(WidgetType{Type: "feed", Schema: boundedSchema(20)}, config))
	assert.Len(t, validator.schemas, 1, "stale schema for the same type is dropped")
}

func TestCatalogReRegistrationChangesValidation(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(WidgetType{Type: "feed", Label: "Feed", Schema: boundedSchema(100)}))
	raw := `{"type":"3-col","columns":3,"widgets":[{"id":"f","type":"feed","column":1,"order":1}]}`
	m, _ := newTestManager(t, raw, Options{Catalog: catalog})
	ctx := context.Background()

	require.NoError(t, m.UpdateWidgetConfig(ctx, "f", map[string]any{"limit": 50}))

	require.NoError(t, catalog.Register(WidgetType{Type: "feed", Label: "Feed", Schema: boundedSchema(20)}))
	err := m.UpdateWidgetConfig(ctx, "f", map[string]any{"limit": 50})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 50, m.Config().Widgets[0].Config["limit"])
}

func TestDefaultWidgetTypesAcceptTheirDefaults(t *testing.T) {
	validator := NewJSONSchemaValidator()
	for _, wt := range DefaultWidgetTypes() {
		if err := validator.Validate(wt, wt.DefaultConfig); err != nil {
			t.Fatalf("default config of %s rejected: %v", wt.Type, err)
		}
	}
}
