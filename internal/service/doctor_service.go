package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/internal/validate"
	"github.com/amterp/palette/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Color files the server will skip (errors)
	CodeMalformedColor = "MALFORMED_COLOR"
	CodeSchemaMismatch = "SCHEMA_MISMATCH"
	CodeIDMismatch     = "ID_MISMATCH"
	CodeInvalidColor   = "INVALID_COLOR"

	// Hand edits and duplicates the server tolerates (warnings)
	CodeNotNormalized = "NOT_NORMALIZED"
	CodeDuplicateName = "DUPLICATE_NAME"
	CodeDuplicateHex  = "DUPLICATE_HEX"

	// Global config (warnings)
	CodeMalformedGlobalConfig = "MALFORMED_GLOBAL_CONFIG"
	CodeGlobalSchemaOutdated  = "GLOBAL_SCHEMA_OUTDATED"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	File      string        `json:"file,omitempty"` // Relative to the colors directory
	ColorID   string        `json:"color_id,omitempty"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
	FixError  string        `json:"fix_error,omitempty"` // Populated if fix was attempted but failed
}

// ColorsDiagnostic counts what was found in the colors directory.
type ColorsDiagnostic struct {
	Dir   string `json:"dir"`
	Files int    `json:"files"`
	Valid int    `json:"valid"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Colors  ColorsDiagnostic `json:"colors"`
	Issues  []Issue          `json:"issues"`
	Summary ReportSummary    `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *DiagnosticReport) summarize() {
	r.Summary.Errors, r.Summary.Warnings = 0, 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

// DoctorService checks a server data directory for files the color store
// would skip or that break the collection's uniqueness rules.
type DoctorService struct {
	paths      *config.Paths
	colorStore store.ColorStore
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(paths *config.Paths, colorStore store.ColorStore) *DoctorService {
	return &DoctorService{paths: paths, colorStore: colorStore}
}

// Diagnose scans the global config and every color file.
func (s *DoctorService) Diagnose() (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		Colors: ColorsDiagnostic{Dir: s.paths.ColorsDir()},
		Issues: []Issue{},
	}

	s.checkGlobalConfig(report)

	entries, err := os.ReadDir(s.paths.ColorsDir())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read colors directory: %w", err)
	}

	var valid []*model.StoredColor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		report.Colors.Files++
		if c := s.checkColorFile(report, entry.Name()); c != nil {
			valid = append(valid, c)
		}
	}
	report.Colors.Valid = len(valid)

	checkDuplicates(report, valid)
	report.summarize()
	return report, nil
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	fixed := 0
	fixFailed := 0
	remaining := []Issue{}

	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.Code {
		case CodeIDMismatch, CodeNotNormalized:
			err = s.rewriteColorFile(issue.File)
		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
		} else {
			fixed++
		}
	}

	newReport := &DiagnosticReport{
		Colors: report.Colors,
		Issues: remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.summarize()
	return newReport, nil
}

func (s *DoctorService) checkGlobalConfig(report *DiagnosticReport) {
	path := config.GlobalConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return // No global config is fine
		}
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Cannot read global config: %v", err),
		})
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Invalid TOML in global config: %v", err),
		})
		return
	}

	schema, _ := raw["palette_schema"].(string)
	if schema != version.CurrentGlobalSchema() {
		found := schema
		if found == "" {
			found = "none"
		}
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeGlobalSchemaOutdated,
			Message:   fmt.Sprintf("Global config has schema %s, current is %s", found, version.CurrentGlobalSchema()),
			FixAction: "Run 'palette config set <key> <value>' to rewrite it with the current schema",
		})
	}
}

// checkColorFile reports problems with one file and returns the parsed color
// if the store would load it.
func (s *DoctorService) checkColorFile(report *DiagnosticReport, name string) *model.StoredColor {
	stem := strings.TrimSuffix(name, ".json")
	issue := func(severity IssueSeverity, code, msg string) Issue {
		return Issue{Severity: severity, Code: code, File: name, ColorID: stem, Message: msg}
	}

	data, err := os.ReadFile(filepath.Join(s.paths.ColorsDir(), name))
	if err != nil {
		report.Issues = append(report.Issues, issue(SeverityError, CodeMalformedColor, fmt.Sprintf("Cannot read file: %v", err)))
		return nil
	}

	var c model.StoredColor
	if err := json.Unmarshal(data, &c); err != nil {
		report.Issues = append(report.Issues, issue(SeverityError, CodeMalformedColor, fmt.Sprintf("Invalid JSON: %v", err)))
		return nil
	}

	if c.Version != version.CurrentColorVersion {
		i := issue(SeverityError, CodeSchemaMismatch, fmt.Sprintf("Schema version %d, expected %d", c.Version, version.CurrentColorVersion))
		if c.Version > version.CurrentColorVersion {
			i.FixAction = "Upgrade palette"
		}
		report.Issues = append(report.Issues, i)
		return nil
	}

	if err := validate.ValidateNew(c.Name, c.Hex); err != nil {
		report.Issues = append(report.Issues, issue(SeverityError, CodeInvalidColor, err.Error()))
		return nil
	}

	if c.ID != stem {
		i := issue(SeverityError, CodeIDMismatch, fmt.Sprintf("File holds id %q", c.ID))
		i.Fixable = true
		i.FixAction = fmt.Sprintf("Set id to %q to match the file name", stem)
		report.Issues = append(report.Issues, i)
	}

	if c.Name != validate.NormalizeName(c.Name) || c.Hex != validate.NormalizeHex(c.Hex) {
		i := issue(SeverityWarning, CodeNotNormalized, fmt.Sprintf("Stored as %q %s", c.Name, c.Hex))
		i.Fixable = true
		i.FixAction = fmt.Sprintf("Rewrite as %q %s", validate.NormalizeName(c.Name), validate.NormalizeHex(c.Hex))
		report.Issues = append(report.Issues, i)
	}

	c.ID = stem
	return &c
}

// checkDuplicates flags colors sharing a name or hex with an earlier color.
func checkDuplicates(report *DiagnosticReport, colors []*model.StoredColor) {
	sort.SliceStable(colors, func(i, j int) bool {
		if colors[i].CreatedAtMillis != colors[j].CreatedAtMillis {
			return colors[i].CreatedAtMillis < colors[j].CreatedAtMillis
		}
		return colors[i].ID < colors[j].ID
	})

	var seen []model.Color
	for _, c := range colors {
		dups := validate.FindDuplicates(c.Name, c.Hex, seen)
		if dups.ByName != nil {
			report.Issues = append(report.Issues, Issue{
				Severity:  SeverityWarning,
				Code:      CodeDuplicateName,
				File:      c.ID + ".json",
				ColorID:   c.ID,
				Message:   fmt.Sprintf("Name %q already used by %s", c.Name, dups.ByName.ID),
				FixAction: fmt.Sprintf("Delete one with 'palette delete %s'", c.ID),
			})
		}
		if dups.ByHex != nil {
			report.Issues = append(report.Issues, Issue{
				Severity:  SeverityWarning,
				Code:      CodeDuplicateHex,
				File:      c.ID + ".json",
				ColorID:   c.ID,
				Message:   fmt.Sprintf("Hex %s already used by %s", validate.NormalizeHex(c.Hex), dups.ByHex.ID),
				FixAction: fmt.Sprintf("Delete one with 'palette delete %s'", c.ID),
			})
		}
		seen = append(seen, c.Color())
	}
}

// rewriteColorFile normalizes a color file in place, taking its id from the
// file name.
func (s *DoctorService) rewriteColorFile(name string) error {
	data, err := os.ReadFile(filepath.Join(s.paths.ColorsDir(), name))
	if err != nil {
		return err
	}

	var c model.StoredColor
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	c.ID = strings.TrimSuffix(name, ".json")
	c.Name = validate.NormalizeName(c.Name)
	c.Hex = validate.NormalizeHex(c.Hex)
	return s.colorStore.Update(&c)
}
