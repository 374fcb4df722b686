package verstat

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
)

// Fixed placeholder strings for unavailable remote data. Rendered in the
// Version column so every row keeps a consistent column count.
const (
	placeholderNotConfigured = "not configured"
	placeholderNotAccessible = "not accessible"
	placeholderBranchMissing = "branch not found"
	placeholderEmpty         = "-"
)

// detachedMarker is rendered wherever a branch name is expected but
// HEAD does not point at a named branch.
const detachedMarker = "(detached)"

// Minimum column width floor; longer values widen the column, so no
// value is ever truncated.
const columnMinWidth = 8

// Format renders the report. Pure formatting: no git queries.
// Verbose output is a strict superset of concise output.
func (r ReportResult) Format(opts FormatOptions) FormatResult {
	var stdout strings.Builder

	fmt.Fprintf(&stdout, "Repository: %s\n\n", r.RepoPath)
	r.formatSources(&stdout, opts)

	if len(r.Worktrees) > 0 {
		fmt.Fprintln(&stdout)
		r.formatWorktrees(&stdout, opts)
	}

	return FormatResult{Stdout: stdout.String()}
}

// formatSources renders the local/remote table.
func (r ReportResult) formatSources(out *strings.Builder, opts FormatOptions) {
	w := tabwriter.NewWriter(out, columnMinWidth, 0, 2, ' ', 0)

	if opts.Verbose {
		fmt.Fprintln(w, "Source\tVersion\tCommit\tStatus")
	} else {
		fmt.Fprintln(w, "Source\tVersion\tStatus")
	}

	// Local row first: always present together with the repository path.
	localStatus := colorize(opts.ColorEnabled, colorClean, "Clean")
	if r.Local.Dirty {
		localStatus = colorize(opts.ColorEnabled, colorModified, "Modified")
	}
	if opts.Verbose {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", localSource(r.Local), r.Local.Version, r.Local.Commit, localStatus)
	} else {
		fmt.Fprintf(w, "%s\t%s\t%s\n", localSource(r.Local), r.Local.Version, localStatus)
	}

	for _, remote := range r.Remotes {
		source := remote.Remote + "/" + remote.Branch
		version := remote.Version
		commit := remote.Commit
		status := colorize(opts.ColorEnabled, colorPlaceholder, placeholderEmpty)

		switch remote.Outcome {
		case OutcomeResolved:
			if remote.MatchesLocal {
				status = colorize(opts.ColorEnabled, colorSynced, "Synced")
			} else {
				status = colorize(opts.ColorEnabled, colorBehind, "Local differs from "+remote.Remote)
			}
		case OutcomeNotConfigured:
			version = placeholderNotConfigured
		case OutcomeFetchFailed:
			version = placeholderNotAccessible
		case OutcomeBranchMissing:
			version = placeholderBranchMissing
		}
		if commit == "" {
			commit = placeholderEmpty
		}

		if opts.Verbose {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", source, version, commit, status)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", source, version, status)
		}
	}

	w.Flush()
}

// formatWorktrees renders the linked worktree table.
func (r ReportResult) formatWorktrees(out *strings.Builder, opts FormatOptions) {
	fmt.Fprintln(out, "Worktrees:")

	w := tabwriter.NewWriter(out, columnMinWidth, 0, 2, ' ', 0)

	if opts.Verbose {
		fmt.Fprintln(w, "Branch\tDirectory\tVersion\tCommit\tOrigin\tUpstream\tLocked\tStatus")
	} else {
		fmt.Fprintln(w, "Branch\tVersion\tOrigin\tUpstream\tStatus")
	}

	for _, wt := range r.Worktrees {
		branch := wt.Branch
		if wt.Detached {
			branch = detachedMarker
		}
		if wt.Current {
			branch += " (current)"
		}

		status := colorize(opts.ColorEnabled, colorClean, "Clean")
		if wt.Dirty {
			status = colorize(opts.ColorEnabled, colorModified, "Modified")
		}

		if opts.Verbose {
			locked := placeholderEmpty
			if wt.Locked {
				locked = "locked"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				branch, filepath.Base(wt.Path), wt.Version, wt.Head,
				syncLabel(wt.OriginSync), syncLabel(wt.UpstreamSync), locked, status)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				branch, wt.Version,
				syncLabel(wt.OriginSync), syncLabel(wt.UpstreamSync), status)
		}
	}

	w.Flush()
}

// localSource renders the local row's source cell.
func localSource(local LocalState) string {
	if local.Detached {
		return "local " + detachedMarker
	}
	return "local [" + local.Branch + "]"
}

// syncLabel renders a SyncState for display.
func syncLabel(state SyncState) string {
	switch state {
	case SyncSynced:
		return "Synced"
	case SyncBehind:
		return "Behind"
	case SyncMissing:
		return "Missing"
	case SyncNotApplicable:
		return "n/a"
	default:
		return placeholderEmpty
	}
}

// colorize applies f to s when color output is enabled. Only the last
// column of a row is ever colored: escape sequences are invisible but
// still count toward tabwriter cell widths.
func colorize(enabled bool, f func(a ...any) string, s string) string {
	if !enabled {
		return s
	}
	return f(s)
}
