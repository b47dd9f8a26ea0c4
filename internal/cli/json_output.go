package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/palette/internal/model"
)

// ListOutput wraps the visible colors for JSON output.
type ListOutput struct {
	Colors []model.Color `json:"colors"`
	Shown  int           `json:"shown"`
	Total  int           `json:"total"`
	Filter string        `json:"filter,omitempty"`
}

// NewListOutput creates a ListOutput.
// Always returns an empty array (not null) when there are no colors.
func NewListOutput(visible []model.Color, total int, filter string) ListOutput {
	if visible == nil {
		visible = []model.Color{}
	}
	return ListOutput{
		Colors: visible,
		Shown:  len(visible),
		Total:  total,
		Filter: filter,
	}
}

// ColorOutput wraps a single color for JSON output.
type ColorOutput struct {
	Color model.Color `json:"color"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
