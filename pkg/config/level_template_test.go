package config

import (
	"path/filepath"
	"testing"
)

func TestLevelTemplateSystem(t *testing.T) {
	template := GetLevelTemplate("asteroid_belt")
	if template == nil {
		t.Fatal("Expected to get asteroid_belt template, got nil")
	}
	if template.Name != "Asteroid Belt" {
		t.Errorf("Expected template name 'Asteroid Belt', got '%s'", template.Name)
	}

	templates := ListLevelTemplates()
	for _, expected := range []string{"open_space", "asteroid_belt", "minefield"} {
		if _, ok := templates[expected]; !ok {
			t.Errorf("Expected template '%s' to be available", expected)
		}
	}

	cfg := DefaultConfig()
	if err := ApplyLevelTemplate(cfg, "minefield"); err != nil {
		t.Fatalf("Failed to apply level template: %v", err)
	}
	if cfg.WorldSize != 300 {
		t.Errorf("Expected world size 300 from minefield, got %f", cfg.WorldSize)
	}
	if len(cfg.Obstacles) != 5 {
		t.Errorf("Expected 5 obstacles from minefield, got %d", len(cfg.Obstacles))
	}

	cfg.Enemies[0].Patrol[0].X = 999
	if GetLevelTemplate("minefield").Enemies[0].Patrol[0].X == 999 {
		t.Error("Applying a template must not share patrol slices with it")
	}

	if err := ApplyLevelTemplate(cfg, "unknown_template"); err == nil {
		t.Error("Expected error for unknown template")
	}

	cfg2, err := LoadConfigWithTemplate(filepath.Join(t.TempDir(), "nonexistent.json"), "open_space")
	if err != nil {
		t.Fatalf("LoadConfigWithTemplate should fall back to default config, got error: %v", err)
	}
	if len(cfg2.Obstacles) != 0 {
		t.Errorf("Expected open_space to clear obstacles, got %d", len(cfg2.Obstacles))
	}
}

func TestLevelTemplateValidation(t *testing.T) {
	for key := range levelTemplates {
		t.Run(key, func(t *testing.T) {
			template := GetLevelTemplate(key)
			if template.Name == "" {
				t.Error("Template name should not be empty")
			}
			if template.Description == "" {
				t.Error("Template description should not be empty")
			}
			if len(template.Enemies) == 0 {
				t.Error("Template should have at least one enemy")
			}

			cfg := DefaultConfig()
			if err := ApplyLevelTemplate(cfg, key); err != nil {
				t.Fatalf("Failed to apply template: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Template produces an invalid config: %v", err)
			}
		})
	}
}
