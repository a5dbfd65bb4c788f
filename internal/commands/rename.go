// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/pkg/container"
)

// ErrInvalidName is returned for an application name that is not a plain
// file name.
var ErrInvalidName = errors.New("invalid application name")

// RenameCommand is app:rename.
type RenameCommand struct {
	cmd    *cobra.Command
	prompt Prompter
	env    env
}

func newRenameCommand(c *container.Container) (*RenameCommand, error) {
	e, err := resolveEnv(c)
	if err != nil {
		return nil, err
	}
	prompt, err := container.Resolve[Prompter](c, PrompterKey)
	if err != nil {
		return nil, err
	}

	rc := &RenameCommand{prompt: prompt, env: e}
	rc.cmd = &cobra.Command{
		Use:   "app:rename [name]",
		Short: "Perform an application rename",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return rc.run(cmd.OutOrStdout(), name)
		},
	}
	return rc, nil
}

// Cobra implements contracts.Command.
func (rc *RenameCommand) Cobra() *cobra.Command { return rc.cmd }

func (rc *RenameCommand) run(out io.Writer, name string) error {
	fmt.Fprintln(out, alert("Renaming the application..."))

	m, err := readManifest(rc.env.basePath)
	if err != nil {
		return err
	}

	name, err = rc.applicationName(name)
	if err != nil {
		return err
	}

	if err := rc.renameBinary(m.binary(), name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Renaming application to: %s\n", valueStyle.Render(name))

	if err := m.rename(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updating manifest: %s\n", successStyle.Render(checkMark))
	return nil
}

// applicationName takes the argument, else asks, else falls back to the
// base directory name. The result is lower-cased and must be usable as a
// file name inside the base path.
func (rc *RenameCommand) applicationName(name string) (string, error) {
	if strings.TrimSpace(name) == "" && rc.prompt != nil {
		answer, err := rc.prompt("What is your application name?")
		if err != nil {
			return "", err
		}
		name = answer
	}
	if name = strings.TrimSpace(name); name == "" {
		name = filepath.Base(rc.env.basePath)
	}
	name = strings.ToLower(name)
	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func validateName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\"`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// renameBinary moves the binary file when it exists in the base path.
func (rc *RenameCommand) renameBinary(current, name string) error {
	if current == name {
		return nil
	}
	from := filepath.Join(rc.env.basePath, current)
	to := filepath.Join(rc.env.basePath, name)
	err := os.Rename(from, to)
	if errors.Is(err, fs.ErrNotExist) {
		rc.env.logger.Debug("no binary to rename", "path", from)
		return nil
	}
	if err != nil {
		return fmt.Errorf("rename %s: %w", current, err)
	}
	return nil
}
