package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a color")

	ctx.DeleteColor, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Color ID or name (chosen interactively if omitted)").
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(serverURL, colorArg string, force, interactive bool) {
	app, err := NewApp(interactive, serverURL)
	if err != nil {
		Fatal(err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := app.Load(ctx); err != nil {
		Fatal(err)
	}

	color, err := resolveColor(app, colorArg)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if !interactive {
			Fatal(fmt.Errorf("deleting color %q (%s) requires --force in non-interactive mode", color.Name, color.ID))
		}

		confirmed, err := app.Prompter.Confirm(deletePrompt(color.Name), false)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.Manager.DeleteColor(ctx, color.ID); err != nil {
		Fatal(err)
	}

	PrintSuccess("Deleted %s %q (%s)", ColorSwatch(color.Hex), color.Name, RenderID(color.ID))
}

func deletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", name)
}
