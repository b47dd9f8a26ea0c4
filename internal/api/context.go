package api

import (
	"fmt"
	"os"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
)

// ServerContext bundles the dependencies needed by the HTTP handlers.
type ServerContext struct {
	Paths        *config.Paths
	ColorStore   store.ColorStore
	ColorService *service.ColorService
}

// BuildServerContext wires paths, stores, and services for the given data
// directory (empty means ~/.palette). The colors directory is created if
// missing so the file watcher has something to watch.
func BuildServerContext(dataDir string) (*ServerContext, error) {
	paths := config.NewPaths(dataDir)

	if err := os.MkdirAll(paths.ColorsDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", paths.ColorsDir(), err)
	}

	colorStore := store.NewColorStore(paths)

	return &ServerContext{
		Paths:        paths,
		ColorStore:   colorStore,
		ColorService: service.NewColorService(colorStore),
	}, nil
}
