package verstat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// ReportCommand gathers version and sync status for a repository across
// local HEAD, remotes and linked worktrees. It holds no state between runs.
type ReportCommand struct {
	FS  FileSystem
	Git *GitRunner
	Log *slog.Logger
}

// ReportOptions configures a report run.
type ReportOptions struct {
	UpstreamBranch   string   // branch compared against on the upstream remote
	AllRemotes       bool     // include remotes beyond origin/upstream
	ExcludeWorktrees []string // doublestar patterns for worktrees to skip
}

// ReportResult aggregates everything a single run gathered.
// Rendered once by Format and discarded.
type ReportResult struct {
	RepoPath  string
	Local     LocalState
	Remotes   []RemoteStatus
	Worktrees []WorktreeEntry
}

// NewReportCommand creates a ReportCommand with explicit dependencies.
func NewReportCommand(fs FileSystem, git *GitRunner, log *slog.Logger) *ReportCommand {
	if log == nil {
		log = NewNopLogger()
	}
	return &ReportCommand{
		FS:  fs,
		Git: git,
		Log: log,
	}
}

// NewDefaultReportCommand creates a ReportCommand with production defaults.
func NewDefaultReportCommand(dir string, log *slog.Logger) *ReportCommand {
	return NewReportCommand(osFS{}, NewGitRunner(dir, WithLogger(log)), log)
}

// Remote names with a fixed role in the report.
const (
	remoteOrigin   = "origin"
	remoteUpstream = "upstream"
)

// Run generates a report for the validated repository path.
// Local state failures are fatal so the header is all-or-nothing;
// per-remote and per-worktree failures are isolated into the result.
func (c *ReportCommand) Run(ctx context.Context, repoPath string, opts ReportOptions) (ReportResult, error) {
	c.Log.DebugContext(ctx, "run started",
		LogAttrKeyCategory.String(), LogCategoryReport,
		"path", repoPath,
		"upstreamBranch", opts.UpstreamBranch,
		"allRemotes", opts.AllRemotes)

	result := ReportResult{RepoPath: repoPath}

	if opts.UpstreamBranch == "" {
		opts.UpstreamBranch = DefaultUpstreamBranch
	}

	local, err := c.inspectLocal(ctx)
	if err != nil {
		return result, err
	}
	result.Local = local

	configured, err := c.Git.Remotes(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to enumerate remotes: %w", err)
	}

	// Non-upstream remotes are compared against the current branch.
	// With a detached HEAD there is no current branch; fall back to the
	// configured upstream branch.
	queryBranch := local.Branch
	if local.Detached {
		queryBranch = opts.UpstreamBranch
	}

	result.Remotes = append(result.Remotes,
		c.inspectRemote(ctx, configured, remoteOrigin, queryBranch, local.Commit),
		c.inspectRemote(ctx, configured, remoteUpstream, opts.UpstreamBranch, local.Commit),
	)

	if opts.AllRemotes {
		extra := slices.Clone(configured)
		slices.Sort(extra)
		for _, remote := range extra {
			if remote == remoteOrigin || remote == remoteUpstream {
				continue
			}
			result.Remotes = append(result.Remotes,
				c.inspectRemote(ctx, configured, remote, queryBranch, local.Commit))
		}
	}

	result.Worktrees = c.enumerateWorktrees(ctx, repoPath, opts.UpstreamBranch, opts.ExcludeWorktrees)

	c.Log.DebugContext(ctx, "run completed",
		LogAttrKeyCategory.String(), LogCategoryReport,
		"remoteCount", len(result.Remotes),
		"worktreeCount", len(result.Worktrees))

	return result, nil
}
