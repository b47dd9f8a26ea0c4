package cli

import (
	"fmt"
	"strings"

	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/validate"
	"github.com/amterp/ra"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a new color")

	ctx.AddName, _ = ra.NewString("name").
		SetOptional(true).
		SetUsage("Color name (prompted if omitted)").
		Register(cmd)

	ctx.AddHex, _ = ra.NewString("hex").
		SetOptional(true).
		SetUsage("Hex value such as #FF0000 (prompted if omitted)").
		Register(cmd)

	ctx.AddJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(serverURL, name, hex string, jsonOutput, interactive bool) {
	app, err := NewApp(interactive, serverURL)
	if err != nil {
		Fatal(err)
	}

	if name == "" || hex == "" {
		if !interactive {
			Fatal(fmt.Errorf("name and hex are required in non-interactive mode"))
		}
		name, hex, err = promptForColor(app, name, hex)
		if err != nil {
			Fatal(err)
		}
	}

	ctx, cancel := commandContext()
	defer cancel()

	// Duplicate detection needs the current collection
	if err := app.Load(ctx); err != nil {
		Fatal(err)
	}

	color, err := app.Manager.AddColor(ctx, name, hex)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(ColorOutput{Color: *color}); err != nil {
			Fatal(err)
		}
		return
	}

	PrintSuccess("Added %s %s %s (%s)", ColorSwatch(color.Hex), RenderBold(color.Name), RenderHex(color.Hex), RenderID(color.ID))
}

// promptForColor asks for whichever of name and hex is missing.
func promptForColor(app *App, name, hex string) (string, string, error) {
	var err error
	if name == "" {
		name, err = app.Prompter.Input("Color name", "Sky Blue", validateNameInput)
		if err != nil {
			return "", "", err
		}
	}
	if hex == "" {
		hex, err = app.Prompter.Input("Hex value", "#87CEEB", validateHexInput)
		if err != nil {
			return "", "", err
		}
		hex = withHash(hex)
	}
	return name, hex, nil
}

func validateNameInput(s string) error {
	return validate.ValidateNew(s, "#000000")
}

func validateHexInput(s string) error {
	if !validate.IsValidHex(withHash(s)) {
		return palerr.InvalidHex(s)
	}
	return nil
}

// withHash prefixes '#' to interactively typed hex values that omit it.
func withHash(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		return "#" + s
	}
	return s
}

// formatValidationError renders a validation failure for the terminal, one
// conflict per line for duplicates.
func formatValidationError(err *palerr.ValidationError) string {
	if err.Reason != palerr.ReasonDuplicate {
		return err.Error()
	}

	lines := []string{"Cannot add duplicate color:"}
	if err.ByName != nil {
		lines = append(lines, fmt.Sprintf("  Name %q already exists with hex %s", err.ByName.Name, err.ByName.Hex))
	}
	if err.ByHex != nil {
		lines = append(lines, fmt.Sprintf("  Hex %s already exists with name %q", err.ByHex.Hex, err.ByHex.Name))
	}
	return strings.Join(lines, "\n")
}

