package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/dpshade/scrib-digital/internal/errors"
)

// CopiedMessage is the status shown after a successful copy
const CopiedMessage = "Copied to clipboard!"

// writeAll is swapped in tests
var writeAll = clipboard.WriteAll

// IsClipboardAvailable reports whether a system clipboard can be reached
func IsClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	if !IsClipboardAvailable() {
		return unavailable(nil)
	}
	if err := writeAll(text); err != nil {
		return unavailable(err)
	}
	return nil
}

// CopyWithFallback copies text and returns a status message for the user
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		return "", err
	}
	return CopiedMessage, nil
}

func unavailable(cause error) *errors.AppError {
	msg := "clipboard not available"
	var appErr *errors.AppError
	if cause != nil {
		appErr = errors.Wrap(cause, errors.ErrCodeClipboardUnavailable, msg)
	} else {
		appErr = errors.NewAppError(errors.ErrCodeClipboardUnavailable, msg)
	}
	return appErr.WithDetails(GetInstallInstructions())
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "install xclip, xsel or wl-clipboard (Wayland)"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "the Windows clipboard should be available by default"
	default:
		return fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}
}
