package store

import "github.com/amterp/palette/internal/model"

// ColorStore handles server-side color persistence.
type ColorStore interface {
	Create(color *model.StoredColor) error
	Get(colorID string) (*model.StoredColor, error)
	Update(color *model.StoredColor) error
	Delete(colorID string) error
	List() ([]*model.StoredColor, error) // Creation order
}

// GlobalStore handles global config persistence.
type GlobalStore interface {
	Load() (*model.GlobalConfig, error)
	Save(config *model.GlobalConfig) error
	EnsureExists() error
}
