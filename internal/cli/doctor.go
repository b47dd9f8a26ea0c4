package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/palette/internal/api"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/ra"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check the server data directory for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorData, _ = ra.NewString("data").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Data directory (default from config or ~/.palette)").
		Register(cmd)

	ctx.DoctorJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(dataDir string, fix, jsonOutput bool) {
	if dataDir == "" {
		cfg, err := store.NewGlobalStore().Load()
		if err != nil {
			PrintWarning("Failed to load global config: %v", err)
			cfg = &model.GlobalConfig{}
		}
		dataDir = cfg.DataDir
	}

	serverCtx, err := api.BuildServerContext(dataDir)
	if err != nil {
		Fatal(err)
	}

	doctorService := service.NewDoctorService(serverCtx.Paths, serverCtx.ColorStore)

	report, err := doctorService.Diagnose()
	if err != nil {
		Fatal(err)
	}

	if fix && len(report.Issues) > 0 {
		report, err = doctorService.Fix(report)
		if err != nil {
			Fatal(err)
		}
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix)
	}

	if report.HasErrors() {
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool) {
	fmt.Printf("Checking %s...\n", RenderBold(report.Colors.Dir))
	fmt.Printf("  Color files: %d, loadable: %d\n\n", report.Colors.Files, report.Colors.Valid)

	if didFix && report.Summary.Fixed > 0 {
		PrintSuccess("Fixed %d issue(s)", report.Summary.Fixed)
		fmt.Println()
	}

	if len(report.Issues) == 0 {
		if didFix && report.Summary.Fixed > 0 {
			PrintSuccess("All issues resolved")
		} else {
			PrintSuccess("No issues found")
		}
		return
	}

	// Errors first, then warnings
	for _, severity := range []service.IssueSeverity{service.SeverityError, service.SeverityWarning} {
		for _, issue := range report.Issues {
			if issue.Severity == severity {
				printIssue(issue)
			}
		}
	}

	fmt.Println()
	var parts []string
	if report.Summary.Errors > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d error(s)", report.Summary.Errors)))
	}
	if report.Summary.Warnings > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", report.Summary.Warnings)))
	}
	if didFix && report.Summary.Fixed > 0 {
		parts = append(parts, StyleSuccess.Render(fmt.Sprintf("%d fixed", report.Summary.Fixed)))
	}
	if report.Summary.FixFailed > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d fix failed", report.Summary.FixFailed)))
	}
	fmt.Printf("Summary: %s\n", strings.Join(parts, ", "))

	if !didFix && hasFixable(report) {
		fmt.Println()
		PrintInfo("Run 'palette doctor --fix' to apply automatic fixes")
	}
}

func hasFixable(report *service.DiagnosticReport) bool {
	for _, issue := range report.Issues {
		if issue.Fixable {
			return true
		}
	}
	return false
}

func printIssue(issue service.Issue) {
	style := StyleWarning
	icon := IconWarning
	if issue.Severity == service.SeverityError {
		style = StyleError
		icon = IconError
	}

	location := ""
	if issue.File != "" {
		location = " " + RenderMuted(issue.File)
	}

	fmt.Printf("%s %s%s %s\n", style.Render(icon), style.Render("["+issue.Code+"]"), location, issue.Message)

	if issue.FixError != "" {
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render(IconInfo), issue.FixError)
	} else if issue.FixAction != "" {
		if issue.Fixable {
			fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
		} else {
			fmt.Printf("  %s %s\n", RenderMuted(IconInfo), issue.FixAction)
		}
	}
}
