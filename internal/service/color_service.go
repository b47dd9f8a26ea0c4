package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/amterp/palette/internal/id"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/internal/validate"
)

// maxCreateAttempts bounds id regeneration when a generated id is taken.
const maxCreateAttempts = 5

// ColorService backs the /colors resource on the server.
//
// It validates format only. Name and hex uniqueness are checked by the
// Manager before it calls the server.
type ColorService struct {
	colorStore store.ColorStore
	newID      func() string
	now        func() time.Time
}

// NewColorService creates a new color service.
func NewColorService(colorStore store.ColorStore) *ColorService {
	return &ColorService{
		colorStore: colorStore,
		newID:      id.Generate,
		now:        time.Now,
	}
}

// List returns all colors in creation order.
func (s *ColorService) List() ([]model.Color, error) {
	stored, err := s.colorStore.List()
	if err != nil {
		return nil, err
	}

	colors := make([]model.Color, len(stored))
	for i, c := range stored {
		colors[i] = c.Color()
	}
	return colors, nil
}

// Get retrieves a color by ID.
func (s *ColorService) Get(colorID string) (*model.Color, error) {
	stored, err := s.colorStore.Get(colorID)
	if err != nil {
		return nil, err
	}
	c := stored.Color()
	return &c, nil
}

// Add creates a new color with a server-assigned id.
// The name is trimmed and the hex uppercased before storing.
func (s *ColorService) Add(input model.ColorInput) (*model.Color, error) {
	if err := validate.ValidateNew(input.Name, input.Hex); err != nil {
		return nil, err
	}

	now := s.now().UnixMilli()
	stored := &model.StoredColor{
		Name:            validate.NormalizeName(input.Name),
		Hex:             validate.NormalizeHex(input.Hex),
		CreatedAtMillis: now,
		UpdatedAtMillis: now,
	}

	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		stored.ID = s.newID()
		err = s.colorStore.Create(stored)
		if err == nil {
			c := stored.Color()
			return &c, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed to allocate a unique color id after %d attempts: %w", maxCreateAttempts, err)
}

// Update replaces the name and hex of an existing color.
func (s *ColorService) Update(colorID string, input model.ColorInput) (*model.Color, error) {
	if err := validate.ValidateNew(input.Name, input.Hex); err != nil {
		return nil, err
	}

	stored, err := s.colorStore.Get(colorID)
	if err != nil {
		return nil, err
	}

	stored.Name = validate.NormalizeName(input.Name)
	stored.Hex = validate.NormalizeHex(input.Hex)
	stored.UpdatedAtMillis = s.now().UnixMilli()

	if err := s.colorStore.Update(stored); err != nil {
		return nil, err
	}

	c := stored.Color()
	return &c, nil
}

// Delete removes a color.
func (s *ColorService) Delete(colorID string) error {
	return s.colorStore.Delete(colorID)
}
