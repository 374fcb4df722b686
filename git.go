package verstat

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// GitExecutor abstracts git command execution for testability.
// Commands are fixed to "git" - only subcommands and args are passed.
type GitExecutor interface {
	// Run executes git with args and returns stdout.
	Run(ctx context.Context, args ...string) ([]byte, error)
}

type osGitExecutor struct {
	dir string
}

func (e osGitExecutor) Run(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", e.dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...).Output()
}

func (e osGitExecutor) InDir(dir string) GitExecutor {
	return osGitExecutor{dir: dir}
}

// GitRunner provides read-only git queries using GitExecutor.
type GitRunner struct {
	Executor GitExecutor
	Log      *slog.Logger
}

// GitRunnerOption configures NewGitRunner.
type GitRunnerOption func(*GitRunner)

// WithLogger sets the logger for git command tracing.
func WithLogger(log *slog.Logger) GitRunnerOption {
	return func(g *GitRunner) {
		if log != nil {
			g.Log = log
		}
	}
}

// NewGitRunner creates a new GitRunner rooted at dir with the default executor.
func NewGitRunner(dir string, opts ...GitRunnerOption) *GitRunner {
	g := &GitRunner{
		Executor: osGitExecutor{dir: dir},
		Log:      NewNopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// InDir returns a runner bound to another directory, reusing the logger.
// Executors that cannot be rebound (mocks) are reused as-is.
func (g *GitRunner) InDir(dir string) *GitRunner {
	executor := g.Executor
	if e, ok := g.Executor.(interface{ InDir(string) GitExecutor }); ok {
		executor = e.InDir(dir)
	}
	return &GitRunner{Executor: executor, Log: g.Log}
}

// Run executes a raw git command and returns stdout.
func (g *GitRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	g.Log.DebugContext(ctx, strings.Join(args, " "),
		LogAttrKeyCategory.String(), LogCategoryGit)
	out, err := g.Executor.Run(ctx, args...)
	if err != nil {
		g.Log.DebugContext(ctx, fmt.Sprintf("%s failed: %v", strings.Join(args, " "), err),
			LogAttrKeyCategory.String(), LogCategoryGit)
	}
	return out, err
}

// runTrimmed executes a git command and returns stdout with whitespace trimmed.
func (g *GitRunner) runTrimmed(ctx context.Context, args ...string) (string, error) {
	out, err := g.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsInsideWorkTree reports whether the runner's directory is inside a git working tree.
func (g *GitRunner) IsInsideWorkTree(ctx context.Context) bool {
	out, err := g.runTrimmed(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// TopLevel returns the absolute path of the working tree root.
func (g *GitRunner) TopLevel(ctx context.Context) (string, error) {
	out, err := g.runTrimmed(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to resolve working tree root: %w", err)
	}
	return out, nil
}

// HeadCommit returns the full commit hash of HEAD.
func (g *GitRunner) HeadCommit(ctx context.Context) (string, error) {
	out, err := g.runTrimmed(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return out, nil
}

// CurrentBranch returns the current branch name.
// A detached HEAD is not an error: branch is empty and detached is true.
func (g *GitRunner) CurrentBranch(ctx context.Context) (branch string, detached bool, err error) {
	out, err := g.runTrimmed(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve current branch: %w", err)
	}
	if out == "HEAD" {
		return "", true, nil
	}
	return out, false, nil
}

// Describe returns a human-readable version descriptor for ref:
// the most recent reachable tag plus distance, or the abbreviated
// commit hash when no tag is reachable.
func (g *GitRunner) Describe(ctx context.Context, ref string) (string, error) {
	if out, err := g.runTrimmed(ctx, "describe", "--tags", ref); err == nil {
		return out, nil
	}
	out, err := g.runTrimmed(ctx, "rev-parse", "--short", ref)
	if err != nil {
		return "", fmt.Errorf("failed to describe %s: %w", ref, err)
	}
	return out, nil
}

// Remotes returns the names of all configured remotes.
func (g *GitRunner) Remotes(ctx context.Context) ([]string, error) {
	out, err := g.Run(ctx, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	var remotes []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes, nil
}

// Fetch updates remote-tracking refs for the given remote.
// This is the only network operation the runner performs.
func (g *GitRunner) Fetch(ctx context.Context, remote string) error {
	if _, err := g.Run(ctx, "fetch", "--quiet", remote); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// RemoteRef resolves refs/remotes/<remote>/<branch> to a full commit hash.
func (g *GitRunner) RemoteRef(ctx context.Context, remote, branch string) (string, error) {
	ref := "refs/remotes/" + remote + "/" + branch
	out, err := g.runTrimmed(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return out, nil
}

// IsDirty reports whether the working tree has any tracked or untracked
// modification. It never mutates the tree.
func (g *GitRunner) IsDirty(ctx context.Context) (bool, error) {
	out, err := g.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree status: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// Worktree represents a single entry from git worktree list.
type Worktree struct {
	Path     string
	Head     string
	Branch   string // empty when detached or bare
	Bare     bool
	Detached bool
	Locked   bool
	Prunable bool
}

// WorktreeList returns all worktrees of the repository.
// The first entry is always the main worktree.
func (g *GitRunner) WorktreeList(ctx context.Context) ([]Worktree, error) {
	out, err := g.Run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parseWorktreePorcelain(string(out)), nil
}

// parseWorktreePorcelain parses git worktree list --porcelain output.
//
// porcelain format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	(blank line)
//
// bare, detached, locked and prunable appear as attribute lines.
func parseWorktreePorcelain(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			// Attribute line without a preceding worktree line; skip.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.Locked = true
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		case line == "":
			flush()
		}
	}
	flush()

	return worktrees
}
