package verstat

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// SyncState classifies a worktree's relation to a comparison ref.
type SyncState string

const (
	// SyncSynced means the worktree head matches the ref exactly.
	SyncSynced SyncState = "synced"
	// SyncBehind means the commits differ. Ahead, behind and diverged
	// are deliberately not distinguished.
	SyncBehind SyncState = "behind"
	// SyncMissing means the comparison ref does not exist.
	SyncMissing SyncState = "missing"
	// SyncNotApplicable means the worktree is detached.
	SyncNotApplicable SyncState = "n/a"
)

// WorktreeEntry is the per-worktree report row.
type WorktreeEntry struct {
	Path         string
	Branch       string // empty when detached
	Detached     bool
	Head         string // full hash
	Locked       bool
	Version      string
	Dirty        bool
	UpstreamSync SyncState // vs upstream/<configured upstream branch>
	OriginSync   SyncState // vs origin/<its own branch>
	Current      bool      // the worktree the report was invoked against
}

// enumerateWorktrees lists linked worktrees and computes per-entry status.
// Returns nil when the repository has one or zero worktrees: the common
// case, reported as an omitted section rather than an error.
func (c *ReportCommand) enumerateWorktrees(ctx context.Context, repoPath, upstreamBranch string, exclude []string) []WorktreeEntry {
	worktrees, err := c.Git.WorktreeList(ctx)
	if err != nil {
		c.Log.WarnContext(ctx, "failed to list worktrees",
			LogAttrKeyCategory.String(), LogCategoryWorktree,
			"error", err)
		return nil
	}
	if len(worktrees) <= 1 {
		return nil
	}

	canonical := filepath.Clean(repoPath)

	var entries []WorktreeEntry
	for _, wt := range worktrees {
		if wt.Bare {
			continue
		}
		if excluded(wt.Path, exclude) {
			c.Log.InfoContext(ctx, "worktree excluded",
				LogAttrKeyCategory.String(), LogCategoryWorktree,
				"path", wt.Path)
			continue
		}
		entries = append(entries, c.worktreeEntry(ctx, wt, canonical, upstreamBranch))
	}
	return entries
}

// worktreeEntry builds a single report row. Per-entry query failures
// degrade to placeholder values; they never abort the report.
func (c *ReportCommand) worktreeEntry(ctx context.Context, wt Worktree, canonical, upstreamBranch string) WorktreeEntry {
	entry := WorktreeEntry{
		Path:     wt.Path,
		Branch:   wt.Branch,
		Detached: wt.Detached || wt.Branch == "",
		Head:     wt.Head,
		Locked:   wt.Locked,
		Current:  filepath.Clean(wt.Path) == canonical,
	}

	version, err := c.Git.Describe(ctx, wt.Head)
	if err != nil {
		version = shortHash(wt.Head)
	}
	entry.Version = version

	dirty, err := c.Git.InDir(wt.Path).IsDirty(ctx)
	if err != nil {
		c.Log.WarnContext(ctx, "failed to check worktree status",
			LogAttrKeyCategory.String(), LogCategoryWorktree,
			"path", wt.Path,
			"error", err)
	}
	entry.Dirty = dirty

	if entry.Detached {
		entry.UpstreamSync = SyncNotApplicable
		entry.OriginSync = SyncNotApplicable
		return entry
	}

	entry.UpstreamSync = c.syncState(ctx, wt.Head, "upstream", upstreamBranch)
	entry.OriginSync = c.syncState(ctx, wt.Head, "origin", wt.Branch)

	return entry
}

// syncState compares head against remote/branch.
// Any mismatch is reported uniformly as behind.
func (c *ReportCommand) syncState(ctx context.Context, head, remote, branch string) SyncState {
	commit, err := c.Git.RemoteRef(ctx, remote, branch)
	if err != nil {
		return SyncMissing
	}
	if commit == head {
		return SyncSynced
	}
	return SyncBehind
}

// excluded reports whether a worktree path matches any exclude pattern.
// Patterns match against both the full path and its base name.
func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
