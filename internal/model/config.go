package model

import "fmt"

// GlobalConfig represents the user's palette configuration.
// Stored at ~/.config/palette/config.toml
// Schema changes require a version bump (see internal/version/version.go).
type GlobalConfig struct {
	PaletteSchema  string `toml:"palette_schema"`
	ServerURL      string `toml:"server_url,omitempty"`
	DataDir        string `toml:"data_dir,omitempty"`
	Port           int    `toml:"port,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
	Editor         string `toml:"editor,omitempty"`
}

const (
	DefaultPort           = 3000
	DefaultTimeoutSeconds = 10
)

// GetServerURL returns the configured server URL, falling back to the
// local server on the configured port.
func (g *GlobalConfig) GetServerURL() string {
	if g.ServerURL != "" {
		return g.ServerURL
	}
	return localURL(g.GetPort())
}

// GetPort returns the configured port or DefaultPort.
func (g *GlobalConfig) GetPort() int {
	if g.Port > 0 {
		return g.Port
	}
	return DefaultPort
}

// GetTimeoutSeconds returns the configured client timeout or the default.
func (g *GlobalConfig) GetTimeoutSeconds() int {
	if g.TimeoutSeconds > 0 {
		return g.TimeoutSeconds
	}
	return DefaultTimeoutSeconds
}

func localURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
