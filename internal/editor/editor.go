package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/amterp/palette/internal/model"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	globalConfig *model.GlobalConfig
}

// NewEditor creates a new Editor.
func NewEditor(globalConfig *model.GlobalConfig) *Editor {
	return &Editor{globalConfig: globalConfig}
}

// Resolve returns the editor command to use.
// Order: global config > $EDITOR > vi
func (e *Editor) Resolve() string {
	if e.globalConfig != nil && e.globalConfig.Editor != "" {
		return e.globalConfig.Editor
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	return "vi"
}

// OpenFile opens path in the editor and waits for it to exit.
// The editor setting may carry arguments, e.g. "code --wait".
func (e *Editor) OpenFile(path string) error {
	parts := strings.Fields(e.Resolve())
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", parts[0], err)
	}
	return nil
}
