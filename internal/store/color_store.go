package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amterp/palette/internal/config"
	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/version"
)

// FileColorStore implements ColorStore with one JSON file per color.
type FileColorStore struct {
	paths *config.Paths
}

// NewColorStore creates a new color store.
func NewColorStore(paths *config.Paths) *FileColorStore {
	return &FileColorStore{paths: paths}
}

// Create writes a new color to disk. It never replaces an existing file:
// an id that is already taken returns an error matching os.ErrExist.
func (s *FileColorStore) Create(color *model.StoredColor) error {
	if !validID(color.ID) {
		return palerr.InvalidField("id", fmt.Sprintf("invalid color id %q", color.ID))
	}
	if err := os.MkdirAll(s.paths.ColorsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create colors directory: %w", err)
	}

	data, err := encodeColor(color)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.paths.ColorPath(color.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("color %s already exists: %w", color.ID, err)
		}
		return fmt.Errorf("failed to create color file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write color file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write color file: %w", err)
	}
	return nil
}

// Get reads a color from disk by ID.
func (s *FileColorStore) Get(colorID string) (*model.StoredColor, error) {
	if !validID(colorID) {
		return nil, palerr.ColorNotFound(colorID)
	}
	color, err := s.readColor(s.paths.ColorPath(colorID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, palerr.ColorNotFound(colorID)
		}
		return nil, fmt.Errorf("failed to read color %s: %w", colorID, err)
	}
	return color, nil
}

// Update writes an existing color to disk.
func (s *FileColorStore) Update(color *model.StoredColor) error {
	if !validID(color.ID) {
		return palerr.ColorNotFound(color.ID)
	}
	path := s.paths.ColorPath(color.ID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return palerr.ColorNotFound(color.ID)
	}
	if err := s.writeColor(path, color); err != nil {
		return fmt.Errorf("failed to update color %s: %w", color.ID, err)
	}
	return nil
}

// Delete removes a color from disk.
func (s *FileColorStore) Delete(colorID string) error {
	if !validID(colorID) {
		return palerr.ColorNotFound(colorID)
	}
	if err := os.Remove(s.paths.ColorPath(colorID)); err != nil {
		if os.IsNotExist(err) {
			return palerr.ColorNotFound(colorID)
		}
		return fmt.Errorf("failed to delete color %s: %w", colorID, err)
	}
	return nil
}

// List returns all colors in creation order.
// Malformed color files are logged and skipped.
func (s *FileColorStore) List() ([]*model.StoredColor, error) {
	entries, err := os.ReadDir(s.paths.ColorsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.StoredColor{}, nil // Return empty slice, not nil
		}
		return nil, fmt.Errorf("failed to read colors directory: %w", err)
	}

	colors := []*model.StoredColor{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.paths.ColorsDir(), entry.Name())
		color, err := s.readColor(path)
		if err != nil {
			// Log warning but don't fail - allows partial reads
			fmt.Fprintf(os.Stderr, "Warning: skipping malformed color file %s: %v\n", entry.Name(), err)
			continue
		}
		colors = append(colors, color)
	}

	sort.SliceStable(colors, func(i, j int) bool {
		if colors[i].CreatedAtMillis != colors[j].CreatedAtMillis {
			return colors[i].CreatedAtMillis < colors[j].CreatedAtMillis
		}
		return colors[i].ID < colors[j].ID
	})
	return colors, nil
}

func (s *FileColorStore) readColor(path string) (*model.StoredColor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var color model.StoredColor
	if err := json.Unmarshal(data, &color); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch {
	case color.Version == 0:
		return nil, version.MissingColorVersion(path)
	case color.Version != version.CurrentColorVersion:
		return nil, version.InvalidColorVersion(path, color.Version)
	}

	return &color, nil
}

func (s *FileColorStore) writeColor(path string, color *model.StoredColor) error {
	data, err := encodeColor(color)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write color file: %w", err)
	}
	return nil
}

// encodeColor stamps the current schema version and marshals the color.
func encodeColor(color *model.StoredColor) ([]byte, error) {
	color.Version = version.CurrentColorVersion

	data, err := json.MarshalIndent(color, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal color: %w", err)
	}
	return data, nil
}

// validID rejects ids that could escape the colors directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
