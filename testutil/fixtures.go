package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
)

// TestColor returns a wire color.
func TestColor(id, name, hex string) model.Color {
	return model.Color{ID: id, Name: name, Hex: hex}
}

// TestStoredColor returns a stored color created (and last updated) at createdAt.
func TestStoredColor(id, name, hex string, createdAt int64) *model.StoredColor {
	return &model.StoredColor{
		ID:              id,
		Name:            name,
		Hex:             hex,
		CreatedAtMillis: createdAt,
		UpdatedAtMillis: createdAt,
	}
}

// TempDataDir creates a temporary data directory with an empty colors
// directory. It is removed when the test ends.
func TempDataDir(t *testing.T) *config.Paths {
	t.Helper()

	paths := config.NewPaths(t.TempDir())
	if err := os.MkdirAll(paths.ColorsDir(), 0755); err != nil {
		t.Fatalf("failed to create colors dir: %v", err)
	}
	return paths
}

// WriteColorFile writes raw content into the colors directory, bypassing the
// store. Used to plant malformed or hand-edited files.
func WriteColorFile(t *testing.T, paths *config.Paths, name, content string) {
	t.Helper()

	path := filepath.Join(paths.ColorsDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
