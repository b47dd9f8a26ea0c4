package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/ra"
	"github.com/mattn/go-runewidth"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List colors")

	ctx.ListFilter, _ = ra.NewString("filter").
		SetOptional(true).
		SetUsage("Only show colors whose name or hex contains this text").
		Register(cmd)

	ctx.ListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(serverURL, filter string, jsonOutput bool) {
	app, err := NewApp(false, serverURL)
	if err != nil {
		Fatal(err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := app.Load(ctx); err != nil {
		Fatal(err)
	}

	app.Manager.SetFilter(filter)
	visible := app.Manager.VisibleColors()
	total := len(app.Manager.Records())

	if jsonOutput {
		if err := printJson(NewListOutput(visible, total, filter)); err != nil {
			Fatal(err)
		}
		return
	}

	if total == 0 {
		PrintInfo("No colors yet. Add one with: palette add <name> <hex>")
		return
	}
	if len(visible) == 0 {
		PrintInfo("No colors match %q", filter)
		return
	}

	fmt.Print(renderColorTable(visible))
	fmt.Println(RenderMuted(filterSummary(len(visible), total, filter)))
}

// renderColorTable renders one row per color: swatch, name, hex, id.
// Names are padded by display width so wide runes stay aligned.
func renderColorTable(colors []model.Color) string {
	nameWidth := 0
	for _, c := range colors {
		if n := runewidth.StringWidth(c.Name); n > nameWidth {
			nameWidth = n
		}
	}

	var b strings.Builder
	for _, c := range colors {
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(c.Name))
		fmt.Fprintf(&b, "%s  %s%s  %s  %s\n", ColorSwatch(c.Hex), c.Name, pad, RenderHex(c.Hex), RenderID(c.ID))
	}
	return b.String()
}

// filterSummary describes how much of the collection is shown.
func filterSummary(shown, total int, filter string) string {
	if filter == "" {
		if total == 1 {
			return "1 color"
		}
		return fmt.Sprintf("%d colors", total)
	}
	return fmt.Sprintf("Showing %d of %d colors", shown, total)
}
