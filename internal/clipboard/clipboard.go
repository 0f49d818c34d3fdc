// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("no clipboard command available")

// Clipboard writes text to the system clipboard.
type Clipboard struct {
	command     []string
	writeAll    func(string) error
	unsupported func() bool
}

// New creates a Clipboard. An empty command means the platform clipboard.
func New(command []string) *Clipboard {
	return &Clipboard{
		command:     command,
		writeAll:    clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Copy puts text on the clipboard.
func (c *Clipboard) Copy(text string) error {
	if len(c.command) > 0 {
		return c.run(text)
	}

	if c.unsupported() {
		return ErrUnavailable
	}
	if err := c.writeAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	log.Debug().Int("bytes", len(text)).Msg("Copied to clipboard")
	return nil
}

// run pipes text into the configured command. Its output is not captured:
// tools like xclip leave a child holding the selection, and waiting on that
// child's stdout would block until it exits.
func (c *Clipboard) run(text string) error {
	cmd := exec.Command(c.command[0], c.command[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", c.command[0], err)
	}

	log.Debug().Str("command", c.command[0]).Int("bytes", len(text)).Msg("Copied to clipboard")
	return nil
}
