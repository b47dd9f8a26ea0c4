package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/version"
)

func TestGlobalStore_LoadMissingReturnsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewGlobalStore().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Port != 0 {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestGlobalStore_SaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s := NewGlobalStore()

	in := &model.GlobalConfig{ServerURL: "http://colors.local:8080", Port: 4000, TimeoutSeconds: 3}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.PaletteSchema != version.CurrentGlobalSchema() {
		t.Errorf("Expected schema stamped, got %q", out.PaletteSchema)
	}
	if out.ServerURL != in.ServerURL || out.Port != 4000 || out.TimeoutSeconds != 3 {
		t.Errorf("Round trip mismatch: %+v", out)
	}
}

func TestGlobalStore_SchemaValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing schema", `server_url = "http://x"`},
		{"future schema", "palette_schema = \"global/2\"\n"},
		{"invalid toml", "palette_schema = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := config.GlobalConfigPath()
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := NewGlobalStore().Load(); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestGlobalStore_EnsureExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s := NewGlobalStore()

	if err := s.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if _, err := os.Stat(config.GlobalConfigPath()); err != nil {
		t.Errorf("Expected config file, got %v", err)
	}
	if _, err := s.Load(); err != nil {
		t.Errorf("Created config should load: %v", err)
	}
}
