package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/memo/internal/memo"
)

// Command names
const (
	CmdAdd      = "add"
	CmdGet      = "get"
	CmdRemove   = "rm"
	CmdList     = "ls"
	CmdSet      = "set"
	CmdCopy     = "cp"
	CmdComplete = "_complete"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage error")

// Usage describes the visible subcommands.
const Usage = `Usage: memo [-config FILE] <command> [args]

Commands:
  add [-ttl SECONDS] KEY VALUE   Add a new memo
  get [-c] KEY                   Get a memo (-c also copies it to the clipboard)
  set [-ttl SECONDS] KEY [VALUE] Set a memo
  rm KEY                         Remove a memo
  ls [-p]                        List all memos (-p pretty prints a table)
  cp KEY                         Copy a memo to the clipboard. Shortcut for get -c

KEY "-" refers to the last key used.
`

// Run dispatches exactly one command. Expected user errors (duplicate key,
// missing key, invalid key) are reported on errOut and return nil; only
// storage and usage failures are returned.
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	name, rest := args[0], args[1:]
	log.Debug().Str("command", name).Strs("args", rest).Msg("Running command")

	var err error
	switch name {
	case CmdAdd:
		err = a.add(rest)
	case CmdGet:
		err = a.get(rest)
	case CmdSet:
		err = a.set(rest)
	case CmdRemove:
		err = a.remove(rest)
	case CmdList:
		err = a.list(rest)
	case CmdCopy:
		err = a.copy(rest)
	case CmdComplete:
		err = a.complete(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}

	if err != nil && memo.IsDomain(err) {
		return nil
	}
	return err
}

func (a *App) add(args []string) error {
	fs, ttl := a.flagSet(CmdAdd, true)
	pos, err := parse(fs, args, 2, 2)
	if err != nil {
		return err
	}
	key, value := pos[0], pos[1]

	if err := memo.ValidateKey(key); err != nil {
		fmt.Fprintln(a.errOut, capitalize(err))
		return err
	}

	expiresAt := a.expiry(ttl)
	if expiresAt == nil && a.cfg.TTL.Default > 0 {
		t := a.clock.Now().Add(a.cfg.TTL.Default.Duration())
		expiresAt = &t
	}

	switch err := a.store.Add(key, value, expiresAt); {
	case errors.Is(err, memo.ErrAlreadyExists):
		fmt.Fprintf(a.errOut, "Key already exists: %s\n", key)
		return err
	case err != nil:
		return err
	}
	fmt.Fprintf(a.out, "Added key: %s\n", key)
	return nil
}

func (a *App) get(args []string) error {
	fs, _ := a.flagSet(CmdGet, false)
	toClipboard := fs.Bool("c", false, "Copy the value to the clipboard")
	fs.BoolVar(toClipboard, "clipboard", false, "Copy the value to the clipboard")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	return a.read(pos[0], *toClipboard, true)
}

func (a *App) copy(args []string) error {
	fs, _ := a.flagSet(CmdCopy, false)
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	return a.read(pos[0], true, false)
}

func (a *App) read(key string, toClipboard, print bool) error {
	resolved, entry, err := a.store.Get(key)
	switch {
	case errors.Is(err, memo.ErrNotFound):
		fmt.Fprintf(a.errOut, "No value found for key: %s\n", resolved)
		return err
	case err != nil:
		return err
	}

	if toClipboard {
		if err := a.clip.Copy(entry.Value); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	if print {
		fmt.Fprintln(a.out, entry.Value)
	}
	return nil
}

func (a *App) set(args []string) error {
	fs, ttl := a.flagSet(CmdSet, true)
	pos, err := parse(fs, args, 1, 2)
	if err != nil {
		return err
	}

	var value *string
	if len(pos) == 2 {
		value = &pos[1]
	}
	expiresAt := a.expiry(ttl)

	key, err := a.store.Set(pos[0], value, expiresAt)
	switch {
	case errors.Is(err, memo.ErrNotFound):
		fmt.Fprintf(a.errOut, "No value found for key: %s\n", key)
		return err
	case err != nil:
		return err
	}

	if value != nil {
		fmt.Fprintf(a.out, "Setting key: %s\n", key)
	}
	if expiresAt != nil {
		fmt.Fprintf(a.out, "Setting ttl for key: %s\n", key)
	}
	return nil
}

func (a *App) remove(args []string) error {
	fs, _ := a.flagSet(CmdRemove, false)
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	key, err := a.store.Remove(pos[0])
	switch {
	case errors.Is(err, memo.ErrNotFound):
		fmt.Fprintf(a.errOut, "No value found for key: %s\n", key)
		return err
	case err != nil:
		return err
	}
	fmt.Fprintf(a.out, "Removing key: %s\n", key)
	return nil
}

func (a *App) list(args []string) error {
	fs, _ := a.flagSet(CmdList, false)
	pretty := fs.Bool("p", false, "Pretty print the output")
	fs.BoolVar(pretty, "pretty", false, "Pretty print the output")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	items := a.store.List()
	if !*pretty {
		for _, item := range items {
			fmt.Fprintf(a.out, "%s : %s\n", item.Key, item.Entry.Value)
		}
		return nil
	}

	now := a.clock.Now()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Key\tValue\tTTL")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Key, item.Entry.Value, readableTTL(item.Entry, now))
	}
	return tw.Flush()
}

func (a *App) complete(args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	for _, key := range a.store.Complete(prefix) {
		fmt.Fprintln(a.out, key)
	}
	return nil
}

// expiry converts a -ttl flag into an absolute instant.
func (a *App) expiry(ttl *ttlFlag) *time.Time {
	if ttl == nil || !ttl.set {
		return nil
	}
	t := time.Unix(a.clock.Now().Unix()+ttl.seconds, 0)
	return &t
}

func (a *App) flagSet(name string, withTTL bool) (*flag.FlagSet, *ttlFlag) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if !withTTL {
		return fs, nil
	}
	ttl := &ttlFlag{}
	fs.Var(ttl, "ttl", "Time to live for the item in seconds")
	fs.Var(ttl, "t", "Time to live for the item in seconds (shorthand)")
	return fs, ttl
}

// parse accepts flags before, between and after positional arguments and
// checks the positional count.
func parse(fs *flag.FlagSet, args []string, minPos, maxPos int) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
		}
		rest := fs.Args()
		if consumed := args[:len(args)-len(rest)]; len(consumed) > 0 && consumed[len(consumed)-1] == "--" {
			// everything after the terminator is positional
			pos = append(pos, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}

	if len(pos) < minPos || len(pos) > maxPos {
		return nil, fmt.Errorf("%w: %s: expected %d to %d arguments, got %d", ErrUsage, fs.Name(), minPos, maxPos, len(pos))
	}
	return pos, nil
}

func readableTTL(e memo.Entry, now time.Time) string {
	rem, ok := e.Remaining(now)
	if !ok {
		return ""
	}
	return strconv.FormatInt(int64(rem/time.Second), 10) + "s"
}

func capitalize(err error) string {
	msg := err.Error()
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}

// maxTTLSeconds is the largest ttl whose expiry stays representable as a
// time.Duration offset.
const maxTTLSeconds = int64(math.MaxInt64 / time.Second)

// ttlFlag is a non-negative number of seconds that remembers whether it was set.
type ttlFlag struct {
	seconds int64
	set     bool
}

func (f *ttlFlag) String() string {
	if f == nil || !f.set {
		return ""
	}
	return strconv.FormatInt(f.seconds, 10)
}

func (f *ttlFlag) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.New("ttl must not be negative")
	}
	if n > maxTTLSeconds {
		return fmt.Errorf("ttl must be at most %d seconds", maxTTLSeconds)
	}
	f.seconds, f.set = n, true
	return nil
}
