package clipboard

import (
	stderrors "errors"
	"runtime"
	"strings"
	"testing"

	"github.com/dpshade/scrib-digital/internal/errors"
)

func stubWriter(t *testing.T, fn func(string) error) {
	t.Helper()
	orig := writeAll
	writeAll = fn
	t.Cleanup(func() { writeAll = orig })
}

func TestCopyWithFallback(t *testing.T) {
	if !IsClipboardAvailable() {
		t.Skip("no clipboard on this platform")
	}

	var got string
	stubWriter(t, func(s string) error {
		got = s
		return nil
	})

	msg, err := CopyWithFallback("CERTIFICO que la firma")
	if err != nil {
		t.Fatalf("CopyWithFallback: %v", err)
	}
	if msg != CopiedMessage || got != "CERTIFICO que la firma" {
		t.Errorf("unexpected result %q, copied %q", msg, got)
	}
}

func TestCopyFailureIsClipboardError(t *testing.T) {
	if !IsClipboardAvailable() {
		t.Skip("no clipboard on this platform")
	}
	stubWriter(t, func(string) error { return stderrors.New("exec: \"xclip\": not found") })

	err := Copy("x")
	if !errors.HasCode(err, errors.ErrCodeClipboardUnavailable) {
		t.Fatalf("expected clipboard error, got %v", err)
	}
	if errors.GetAppError(err).Details == "" {
		t.Error("error should carry install instructions")
	}
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()
	if instructions == "" {
		t.Fatal("Install instructions should not be empty")
	}
	if runtime.GOOS == "linux" && !strings.Contains(instructions, "xclip") {
		t.Error("Linux instructions should mention xclip")
	}
}
