package verstat

import (
	"context"
	"slices"
)

// RemoteOutcome classifies the result of querying a single remote.
type RemoteOutcome string

const (
	// OutcomeResolved means the remote branch was fetched and resolved.
	OutcomeResolved RemoteOutcome = "resolved"
	// OutcomeNotConfigured means the remote is not configured; no network
	// access was attempted.
	OutcomeNotConfigured RemoteOutcome = "not-configured"
	// OutcomeFetchFailed means the fetch errored (network, auth).
	OutcomeFetchFailed RemoteOutcome = "fetch-failed"
	// OutcomeBranchMissing means the remote exists but lacks the branch.
	OutcomeBranchMissing RemoteOutcome = "branch-missing"
)

// RemoteStatus holds the query result for one remote/branch pair.
// Version and Commit are only valid when Outcome is OutcomeResolved.
type RemoteStatus struct {
	Remote       string
	Branch       string
	Outcome      RemoteOutcome
	Version      string
	Commit       string // full hash
	MatchesLocal bool   // Commit equals local HEAD
}

// inspectRemote fetches remote and resolves remote/branch into a
// RemoteStatus. Failures are localized to the returned status; they
// never abort the report. configured is the repository's remote list.
func (c *ReportCommand) inspectRemote(ctx context.Context, configured []string, remote, branch, localCommit string) RemoteStatus {
	status := RemoteStatus{Remote: remote, Branch: branch}

	if !slices.Contains(configured, remote) {
		status.Outcome = OutcomeNotConfigured
		c.Log.InfoContext(ctx, "remote not configured",
			LogAttrKeyCategory.String(), LogCategoryRemote,
			"remote", remote)
		return status
	}

	if err := c.Git.Fetch(ctx, remote); err != nil {
		status.Outcome = OutcomeFetchFailed
		c.Log.InfoContext(ctx, "fetch failed",
			LogAttrKeyCategory.String(), LogCategoryRemote,
			"remote", remote,
			"error", err)
		return status
	}

	commit, err := c.Git.RemoteRef(ctx, remote, branch)
	if err != nil {
		status.Outcome = OutcomeBranchMissing
		c.Log.InfoContext(ctx, "remote branch missing",
			LogAttrKeyCategory.String(), LogCategoryRemote,
			"remote", remote,
			"branch", branch)
		return status
	}

	version, err := c.Git.Describe(ctx, remote+"/"+branch)
	if err != nil {
		// The ref resolved a moment ago; fall back to the hash prefix
		// rather than degrading the whole row.
		version = shortHash(commit)
	}

	status.Outcome = OutcomeResolved
	status.Commit = commit
	status.Version = version
	status.MatchesLocal = commit == localCommit

	c.Log.InfoContext(ctx, "remote resolved",
		LogAttrKeyCategory.String(), LogCategoryRemote,
		"remote", remote,
		"branch", branch,
		"commit", commit,
		"matchesLocal", status.MatchesLocal)

	return status
}

// shortHash abbreviates a full commit hash for display fallback.
func shortHash(hash string) string {
	const n = 7
	if len(hash) <= n {
		return hash
	}
	return hash[:n]
}
