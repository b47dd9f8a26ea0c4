package cli

import (
	"fmt"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/prompt"
)

// resolveColor finds a color by id or name. With no argument in interactive
// mode the user picks one from the collection.
func resolveColor(app *App, idOrName string) (*model.Color, error) {
	if idOrName != "" {
		return app.Manager.Find(idOrName)
	}

	if !app.Interactive {
		return nil, fmt.Errorf("a color id or name is required in non-interactive mode")
	}

	records := app.Manager.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("no colors yet")
	}

	chosen, err := app.Prompter.Select("Choose a color", colorOptions(records))
	if err != nil {
		return nil, err
	}
	return app.Manager.Find(chosen)
}

// colorOptions labels each color with its name and hex; the value is the id.
func colorOptions(colors []model.Color) []prompt.Option {
	opts := make([]prompt.Option, len(colors))
	for i, c := range colors {
		opts[i] = prompt.Option{
			Label: fmt.Sprintf("%s %s %s", ColorSwatch(c.Hex), c.Name, RenderMuted(c.Hex)),
			Value: c.ID,
		}
	}
	return opts
}
