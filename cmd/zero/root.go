// SPDX-License-Identifier: MPL-2.0

// Package cmd is the zero command-line entry point.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/zero-cli/zero/internal/app"
	"github.com/zero-cli/zero/internal/config"
	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/internal/pkgmgr"
)

const (
	// ExitFailure is the exit code of a failed command.
	ExitFailure = 1
	// ExitBootstrapFailure is the exit code when the application cannot be
	// composed, e.g. an unreadable configuration or a failing provider.
	ExitBootstrapFailure = 2
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags are the persistent flags read before the application is
// composed. Cobra parses them again when the command runs.
type globalFlags struct {
	verbose    bool
	configPath string
	basePath   string
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zero",
		Short: "A console application framework",
		Long: TitleStyle.Render("zero") + SubtitleStyle.Render(" - A console application framework") + `

zero composes a console application from configuration: it binds services
into a container, runs the configured providers and registers the commands
they expose, falling back to the default command when none is named.

` + SubtitleStyle.Render("Examples:") + `
  zero                          Run the default command
  zero component:list           List the installable components
  zero component:install        Choose a component and install it
  zero app:rename acme          Rename the application binary`,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	root.PersistentFlags().String("config", "", "config file (default is "+config.DefaultPath+")")
	root.PersistentFlags().String("base-path", "", "project root (default is the working directory)")
	return root
}

// parseGlobalFlags extracts the global flags from args, ignoring every flag
// it does not know.
func parseGlobalFlags(args []string) globalFlags {
	var g globalFlags
	fs := pflag.NewFlagSet("zero", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "")
	fs.StringVar(&g.configPath, "config", "", "")
	fs.StringVar(&g.basePath, "base-path", "", "")
	// Defined so that -h is not reported as an error.
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return g
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		Prefix:          "zero",
	})
}

// Execute composes the application from os.Args and runs it. This is called
// by main.main().
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := parseGlobalFlags(args)
	logger := newLogger(stderr, flags.verbose)

	root := newRootCommand()
	root.SetOut(stdout)
	root.SetErr(stderr)

	application, err := app.Bootstrap(ctx, app.Options{
		BasePath:   flags.basePath,
		ConfigPath: flags.configPath,
		Providers:  providers(),
		Logger:     logger,
		Root:       root,
		Execute:    executor(flags.verbose),
	})
	if err != nil {
		renderError(stderr, err, flags.verbose, guideStyle(stderr))
		return exitCode(&ExitError{Code: ExitBootstrapFailure, Err: err})
	}

	if err := application.Run(ctx, args); err != nil {
		logger.Debug("command failed", "err", err)
		return exitCode(err)
	}
	return 0
}

// executor runs the root command through fang. The version configured in
// app.version wins over the build version.
func executor(verbose bool) func(context.Context, *cobra.Command) error {
	return func(ctx context.Context, root *cobra.Command) error {
		version := root.Version
		if version == "" {
			version = getVersionString()
		}
		//nolint:wrapcheck // fang already rendered the error.
		return fang.Execute(
			ctx,
			root,
			fang.WithVersion(version),
			fang.WithNotifySignal(os.Interrupt),
			fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
				renderError(w, err, verbose, guideStyle(root.ErrOrStderr()))
			}),
		)
	}
}

// renderError writes err for the user. In verbose mode the troubleshooting
// guide matching err follows the message, rendered with the glamour style.
func renderError(w io.Writer, err error, verbose bool, style string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if !verbose {
		return
	}
	guide := issue.GuideFor(err)
	if guide == nil {
		return
	}
	rendered, renderErr := guide.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// guideStyle picks the glamour style for w: colors on a terminal, plain
// text otherwise.
func guideStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// exitCode maps err to a process exit code: an ExitError carries its own,
// a failed child process passes its status through, anything else is 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var procErr *pkgmgr.ExternalProcessError
	if errors.As(err, &procErr) && procErr.ExitCode > 0 {
		return procErr.ExitCode
	}
	return ExitFailure
}
