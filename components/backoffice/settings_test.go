package backoffice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidator(t *testing.T) {
	validator := NewJSONSchemaValidator()
	registry := NewScreenRegistry()
	def, ok := registry.Definition(ScreenTariffs)
	require.True(t, ok)

	tests := []struct {
		name     string
		settings TariffSettings
		wantErr  bool
	}{
		{
			name:     "valid",
			settings: TariffSettings{BaseRatePerHour: 140, PricePerKm: 2.5, MinimumHours: 2, WeekendMultiplier: 1.25, Currency: "USD"},
		},
		{
			name:     "zero base rate",
			settings: TariffSettings{BaseRatePerHour: 0, WeekendMultiplier: 1, Currency: "USD"},
			wantErr:  true,
		},
		{
			name:     "bad currency code",
			settings: TariffSettings{BaseRatePerHour: 140, WeekendMultiplier: 1, Currency: "dollars"},
			wantErr:  true,
		},
		{
			name:     "multiplier below one",
			settings: TariffSettings{BaseRatePerHour: 140, WeekendMultiplier: 0.5, Currency: "USD"},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(def, tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	registry := NewScreenRegistry()
	def, _ := registry.Definition(ScreenCrewRules)

	settings := CrewSettings{MinCrewSize: 2, MaxCrewSize: 5}
	require.NoError(t, validator.Validate(def, settings))
	require.NoError(t, validator.Validate(def, settings))

	validator.mu.RLock()
	defer validator.mu.RUnlock()
	assert.Len(t, validator.compiled, 1)
}

func TestValidatorSkipsEmptySchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	err := validator.Validate(ScreenDefinition{Code: "custom.screen"}, map[string]any{"anything": true})
	assert.NoError(t, err)
}

func TestScreenRegistryDefaults(t *testing.T) {
	registry := NewScreenRegistry()
	defs := registry.Definitions()
	require.Len(t, defs, 5)

	codes := make([]string, len(defs))
	for i, def := range defs {
		codes[i] = def.Code
	}
	assert.Equal(t, []string{
		ScreenBranches,
		ScreenCrewRules,
		ScreenMobileApp,
		ScreenNotifications,
		ScreenTariffs,
	}, codes)
}

func TestScreenRegistryRegisterRequiresCode(t *testing.T) {
	registry := NewScreenRegistry()
	assert.Error(t, registry.Register(ScreenDefinition{Title: "nameless"}))
}

func TestScreenRegistryHooks(t *testing.T) {
	RegisterScreenHook(func(reg *ScreenRegistry) error {
		return reg.Register(ScreenDefinition{Code: "integrations.crm", Title: "CRM Integration"})
	})

	registry := NewScreenRegistry()
	_, ok := registry.Definition("integrations.crm")
	assert.True(t, ok)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screens.yaml")

	doc := &ScreenManifestDocument{
		Version: ManifestVersion,
		Name:    "pacific-branch",
		Screens: []ScreenDefinition{
			{
				Code:     "pricing.storage",
				Title:    "Storage Pricing",
				Category: "pricing",
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"monthly_rate": map[string]any{"type": "number", "minimum": 0},
					},
				},
			},
		},
	}
	require.NoError(t, WriteScreenManifest(path, doc))

	registry := NewScreenRegistry()
	loaded, err := registry.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Source)
	assert.Equal(t, "pacific-branch", loaded.Name)

	def, ok := registry.Definition("pricing.storage")
	require.True(t, ok)
	assert.Equal(t, "Storage Pricing", def.Title)
}

func TestReadScreenManifestRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"9\"\nscreens: []\n"), 0o644))

	_, err := ReadScreenManifest(path)
	assert.Error(t, err)
}
