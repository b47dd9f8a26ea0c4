package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	ServerURL      *string

	// list command
	ListUsed   *bool
	ListFilter *string
	ListJson   *bool

	// add command
	AddUsed *bool
	AddName *string
	AddHex  *string
	AddJson *bool

	// delete command
	DeleteUsed  *bool
	DeleteColor *string
	DeleteForce *bool

	// copy command
	CopyUsed  *bool
	CopyColor *string

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeData   *string
	ServeNoOpen *bool

	// doctor command
	DoctorUsed *bool
	DoctorFix  *bool
	DoctorData *string
	DoctorJson *bool

	// config command
	ConfigUsed     *bool
	ConfigShowUsed *bool
	ConfigSetUsed  *bool
	ConfigSetKey   *string
	ConfigSetValue *string
	ConfigPathUsed *bool
	ConfigEditUsed *bool
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("palette")
	cmd.SetDescription("Manage a palette of named colors")

	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.ServerURL, _ = ra.NewString("url").
		SetShort("u").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Palette server URL (overrides config and PALETTE_URL)").
		Register(cmd, ra.WithGlobal(true))

	registerList(cmd, ctx)
	registerAdd(cmd, ctx)
	registerDelete(cmd, ctx)
	registerCopy(cmd, ctx)
	registerServe(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerConfig(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx)
}

func executeCommand(ctx *CommandContext) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.ListUsed:
		runList(*ctx.ServerURL, *ctx.ListFilter, *ctx.ListJson)

	case *ctx.AddUsed:
		runAdd(*ctx.ServerURL, *ctx.AddName, *ctx.AddHex, *ctx.AddJson, interactive)

	case *ctx.DeleteUsed:
		runDelete(*ctx.ServerURL, *ctx.DeleteColor, *ctx.DeleteForce, interactive)

	case *ctx.CopyUsed:
		runCopy(*ctx.ServerURL, *ctx.CopyColor, interactive)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeData, *ctx.ServeNoOpen)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorData, *ctx.DoctorFix, *ctx.DoctorJson)

	case *ctx.ConfigShowUsed:
		runConfigShow(*ctx.ServerURL)

	case *ctx.ConfigSetUsed:
		runConfigSet(*ctx.ConfigSetKey, *ctx.ConfigSetValue)

	case *ctx.ConfigPathUsed:
		runConfigPath()

	case *ctx.ConfigEditUsed:
		runConfigEdit()
	}
}
