// Package plugins runs external worklog-<command> binaries for commands the
// CLI does not build in, such as the live timer (start, stop, status) that
// appends entries to the activity log.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "worklog-"

// KnownPlugins lists plugins with a documented purpose. They get a more
// specific message when missing.
var KnownPlugins = map[string]string{
	"start":  "Clocks in: appends an \"i\" entry with the current time and a description.",
	"stop":   "Clocks out: appends an \"o\" entry with the current time.",
	"status": "Shows whether you are clocked in and for how long.",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries in an ordered list of directories before
// falling back to PATH.
type Finder struct {
	Dirs []string

	// SkipPath disables the PATH lookup.
	SkipPath bool
}

// NewFinder returns a Finder searching, in order, the directory of the
// running binary and ~/.config/worklog/plugins.
func NewFinder() *Finder {
	f := &Finder{}
	if execPath, err := os.Executable(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Dir(execPath))
	}
	if dir, err := PluginDir(); err == nil {
		f.Dirs = append(f.Dirs, dir)
	}
	return f
}

// PluginDir returns the per-user plugin directory.
func PluginDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "worklog", "plugins"), nil
}

// Find returns the full path of the plugin for command.
func (f *Finder) Find(command string) (string, error) {
	if command == "" || strings.ContainsRune(command, filepath.Separator) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if !f.SkipPath {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// FindPlugin searches the default locations for worklog-<command>.
func FindPlugin(command string) (string, error) {
	return NewFinder().Find(command)
}

// Execute runs a plugin with the given arguments, wired to this process's
// stdio, and returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 1
	}

	return 0
}

// FormatNotFoundError returns the message shown for an unknown command.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"worklog\"\n", command)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is provided by a plugin.\n%s\n\nInstall the plugin binary as one of:\n", command, info)
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	fmt.Fprintf(&sb, "  - %s%s in the same directory as worklog\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.config/worklog/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)

	sb.WriteString("\nRun 'worklog --help' for usage.")

	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
