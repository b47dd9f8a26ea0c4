package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultDataDir  = ".palette"
	ColorsDir       = "colors"
	ConfigFileName  = "config.toml"
	GlobalConfigDir = ".config/palette"
	ServerURLEnvVar = "PALETTE_URL"
)

// Paths provides path resolution for the server's data files.
type Paths struct {
	dataDir string
}

// NewPaths creates a new Paths resolver rooted at dataDir.
// An empty dataDir resolves to ~/.palette.
func NewPaths(dataDir string) *Paths {
	if dataDir == "" {
		dataDir = DefaultDataDirPath()
	}
	return &Paths{dataDir: dataDir}
}

// DataRoot returns the root directory for palette data.
func (p *Paths) DataRoot() string {
	return p.dataDir
}

// ColorsDir returns the directory holding one JSON file per color.
func (p *Paths) ColorsDir() string {
	return filepath.Join(p.dataDir, ColorsDir)
}

// ColorPath returns the file path for a specific color.
func (p *Paths) ColorPath(colorID string) string {
	return filepath.Join(p.ColorsDir(), colorID+".json")
}

// DefaultDataDirPath returns ~/.palette, or .palette if the home directory
// cannot be determined.
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}

// GlobalConfigDirPath returns the directory for global config.
func GlobalConfigDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir)
}
