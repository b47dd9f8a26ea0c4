package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem during file read/write.
type SchemaVersionError struct {
	FileType    string // "color", "global config"
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "missing", "2", "global/2")
	Expected    string // What was expected (e.g., "1", "global/1")
	MinRequired string // Minimum palette version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires palette >= %s (file: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf("%s has no schema version (file: %s)", e.FileType, e.FilePath)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

// MissingColorVersion creates an error for a color file missing the _v field.
func MissingColorVersion(path string) error {
	return &SchemaVersionError{
		FileType: "color",
		FilePath: path,
		Found:    "missing",
		Expected: fmt.Sprintf("%d", CurrentColorVersion),
	}
}

// InvalidColorVersion creates an error for a color with an unsupported version.
func InvalidColorVersion(path string, found int) error {
	e := &SchemaVersionError{
		FileType: "color",
		FilePath: path,
		Found:    fmt.Sprintf("%d", found),
		Expected: fmt.Sprintf("%d", CurrentColorVersion),
	}
	if found > CurrentColorVersion {
		e.MinRequired = minRequired(fmt.Sprintf("color/%d", found))
	}
	return e
}

// MissingGlobalSchema creates an error for a global config missing palette_schema.
func MissingGlobalSchema(path string) error {
	return &SchemaVersionError{
		FileType: "global config",
		FilePath: path,
		Found:    "missing",
		Expected: CurrentGlobalSchema(),
	}
}

// InvalidGlobalSchema creates an error for a global config with unsupported schema.
func InvalidGlobalSchema(path, found string) error {
	e := &SchemaVersionError{
		FileType: "global config",
		FilePath: path,
		Found:    found,
		Expected: CurrentGlobalSchema(),
	}
	if v, err := ParseGlobalVersion(found); err == nil && v > CurrentGlobalVersion {
		e.MinRequired = minRequired(found)
	}
	return e
}

func minRequired(schema string) string {
	if v, ok := MinPaletteVersion[schema]; ok {
		return v
	}
	return "a newer version"
}
