package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerCopy(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("copy")
	cmd.SetDescription("Copy a color's hex value to the clipboard")

	ctx.CopyColor, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Color ID or name (chosen interactively if omitted)").
		Register(cmd)

	ctx.CopyUsed, _ = parent.RegisterCmd(cmd)
}

func runCopy(serverURL, colorArg string, interactive bool) {
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

	copyHex(app, color.Hex)
}

// copyHex is best effort: a clipboard failure is a warning, and the hex is
// still printed so it can be copied by hand.
func copyHex(app *App, hex string) {
	if err := app.Copier.Copy(hex); err != nil {
		PrintWarning("Failed to copy to clipboard: %v", err)
		fmt.Println(hex)
		return
	}
	PrintSuccess("%s", copiedMessage(hex))
}

func copiedMessage(hex string) string {
	return fmt.Sprintf("Copied %s to clipboard!", hex)
}
