package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard utility is installed.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Copier writes text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemCopier writes to the OS clipboard (pbcopy, xclip, xsel, wl-copy, or
// the Windows API, whichever the platform offers).
type SystemCopier struct{}

// NewSystemCopier creates a copier for the OS clipboard.
func NewSystemCopier() *SystemCopier {
	return &SystemCopier{}
}

func (c *SystemCopier) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// NoopCopier reports the clipboard as unavailable.
type NoopCopier struct{}

func (c *NoopCopier) Copy(text string) error {
	return ErrUnavailable
}
