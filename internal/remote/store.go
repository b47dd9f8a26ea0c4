// Package remote defines the client-side view of the remote color collection
// and its HTTP implementation.
package remote

import (
	"context"

	"github.com/amterp/palette/internal/model"
)

// ColorStore is the remote collection of color records.
//
// Only List is safe to retry. Retrying Create may produce a duplicate record,
// and retrying Remove on an already-removed id yields a not-found failure.
type ColorStore interface {
	List(ctx context.Context) ([]model.Color, error)
	Create(ctx context.Context, name, hex string) (*model.Color, error)
	Remove(ctx context.Context, id string) error
	// Update is not used by the collection manager.
	Update(ctx context.Context, id, name, hex string) (*model.Color, error)
}
