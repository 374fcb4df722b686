package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"verstat"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// ReportCommander is the interface for report execution.
type ReportCommander interface {
	ResolveRepository(ctx context.Context, path string) (string, error)
	Run(ctx context.Context, repoPath string, opts verstat.ReportOptions) (verstat.ReportResult, error)
}

type options struct {
	reportCommander    func(dir string, log *slog.Logger) ReportCommander // nil = use default
	commandIDGenerator func() string                                      // nil = use verstat.GenerateCommandID
}

// Option configures newRootCmd.
type Option func(*options)

// WithReportCommander sets the ReportCommander factory for testing.
func WithReportCommander(factory func(dir string, log *slog.Logger) ReportCommander) Option {
	return func(o *options) {
		o.reportCommander = factory
	}
}

// WithCommandIDGenerator sets the command ID generator for testing.
func WithCommandIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.commandIDGenerator = gen
	}
}

// createLogger creates a logger based on verbosity level.
// Returns a nop logger for verbosity < 2, or a CLI handler logger for -vv.
func createLogger(w io.Writer, verbosity int, idGen func() string) *slog.Logger {
	if verbosity < 2 {
		return verstat.NewNopLogger()
	}
	handler := verstat.NewCLIHandler(w, verstat.VerbosityToLevel(verbosity))
	handlerWithID := handler.WithAttrs([]slog.Attr{
		verstat.LogAttrKeyCmdID.Attr(idGen()),
	})
	return slog.New(handlerWithID)
}

func newRootCmd(opts ...Option) *cobra.Command {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var colorFlag string

	rootCmd := &cobra.Command{
		Use:   "verstat [path]",
		Short: "Report git repository version and sync status",
		Long: `Report the version and sync status of a git repository across its
local checkout, origin and upstream remotes, and all linked worktrees.

The report is read-only: the only network operation is a fetch of each
inspected remote's tracking refs. Unreachable remotes render as
placeholders instead of failing the report.

Examples:
  # Report on the current directory
  verstat

  # Report on another repository
  verstat ~/src/project

  # Compare against upstream/develop and include every remote
  verstat -u develop --all

  # Add raw commit hashes and worktree detail columns
  verstat -v`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			verbose := verbosity >= 1
			all, _ := cmd.Flags().GetBool("all")
			upstreamBranch, _ := cmd.Flags().GetString("upstream-branch")

			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			verstat.SetColorMode(verstat.ColorMode(colorFlag))

			idGen := verstat.GenerateCommandID
			if o.commandIDGenerator != nil {
				idGen = o.commandIDGenerator
			}
			log := createLogger(cmd.ErrOrStderr(), verbosity, idGen)

			var report ReportCommander
			if o.reportCommander != nil {
				report = o.reportCommander(target, log)
			} else {
				report = verstat.NewDefaultReportCommand(target, log)
			}

			repoPath, err := report.ResolveRepository(cmd.Context(), target)
			if err != nil {
				return err
			}

			configResult, err := verstat.LoadConfig(repoPath)
			if err != nil {
				return err
			}
			for _, w := range configResult.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			cfg := configResult.Config

			// Precedence: flag > local/project config > built-in default.
			if !cmd.Flags().Changed("upstream-branch") && cfg.UpstreamBranch != "" {
				upstreamBranch = cfg.UpstreamBranch
			}

			result, err := report.Run(cmd.Context(), repoPath, verstat.ReportOptions{
				UpstreamBranch:   upstreamBranch,
				AllRemotes:       all,
				ExcludeWorktrees: cfg.ExcludeWorktrees,
			})
			if err != nil {
				return err
			}

			formatted := result.Format(verstat.FormatOptions{
				Verbose:      verbose,
				ColorEnabled: verstat.IsColorEnabled(),
			})
			if formatted.Stderr != "" {
				fmt.Fprint(cmd.ErrOrStderr(), formatted.Stderr)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatted.Stdout)
			return nil
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Version}} (commit %s, built %s)\n", commit, date))

	rootCmd.Flags().StringP("upstream-branch", "u", verstat.DefaultUpstreamBranch, "Upstream branch to compare against")
	rootCmd.Flags().BoolP("all", "a", false, "Include every configured remote, not just origin/upstream")
	rootCmd.Flags().CountP("verbose", "v", "Verbose output (-v for raw hashes and extra columns, -vv for debug logs)")
	rootCmd.Flags().StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")

	return rootCmd
}

var rootCmd = newRootCmd()

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "verstat:", err)
		return 1
	}
	return 0
}
