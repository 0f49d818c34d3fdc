package clipboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
}

func TestCopy_PlatformClipboard(t *testing.T) {
	var got string
	c := New(nil)
	c.unsupported = func() bool { return false }
	c.writeAll = func(text string) error {
		got = text
		return nil
	}

	if err := c.Copy("hello"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("clipboard = %q, want %q", got, "hello")
	}
}

func TestCopy_PlatformClipboardError(t *testing.T) {
	c := New(nil)
	c.unsupported = func() bool { return false }
	c.writeAll = func(string) error { return errors.New("boom") }

	if err := c.Copy("x"); err == nil {
		t.Error("Copy() should return the clipboard error")
	}
}

func TestCopy_Unsupported(t *testing.T) {
	c := New(nil)
	c.unsupported = func() bool { return true }
	c.writeAll = func(string) error {
		t.Error("writeAll should not be called when unsupported")
		return nil
	}

	if err := c.Copy("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Copy() error = %v, want ErrUnavailable", err)
	}
}

func TestCopy_ExplicitCommandPipesStdin(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "clip.txt")

	c := New([]string{"/bin/sh", "-c", "cat > " + out})
	if err := c.Copy("hello"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("clipboard = %q, want %q", data, "hello")
	}
}

func TestCopy_ExplicitCommandFailure(t *testing.T) {
	requireShell(t)
	c := New([]string{"/bin/sh", "-c", "cat >/dev/null; exit 3"})
	if err := c.Copy("hello"); err == nil {
		t.Error("Copy() should fail when the command exits non-zero")
	}
}

// Clipboard owners such as xclip fork a child that outlives the command.
func TestCopy_DoesNotWaitForBackgroundChild(t *testing.T) {
	requireShell(t)
	c := New([]string{"/bin/sh", "-c", "cat >/dev/null; (sleep 10 &)"})

	done := make(chan error, 1)
	start := time.Now()
	go func() { done <- c.Copy("hello") }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Copy() still blocked after %v", time.Since(start))
	}
}
