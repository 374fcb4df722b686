//go:build integration

package verstat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verstat/internal/testutil"
)

// realRepoPath resolves symlinks the way git worktree list reports paths,
// so Current matching works on platforms with symlinked temp dirs.
func realRepoPath(t *testing.T, dir string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestReportCommand_Run_Integration(t *testing.T) {
	t.Parallel()

	t.Run("NoRemotesConfigured", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.RunGit(t, mainDir, "tag", "v0.1.0")

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if result.Local.Branch != "main" {
			t.Errorf("local branch = %q, want %q", result.Local.Branch, "main")
		}
		if result.Local.Version != "v0.1.0" {
			t.Errorf("local version = %q, want %q", result.Local.Version, "v0.1.0")
		}
		if result.Local.Dirty {
			t.Error("fresh repository should be clean")
		}

		if len(result.Remotes) != 2 {
			t.Fatalf("got %d remote rows, want origin and upstream", len(result.Remotes))
		}
		for _, remote := range result.Remotes {
			if remote.Outcome != OutcomeNotConfigured {
				t.Errorf("%s outcome = %q, want %q", remote.Remote, remote.Outcome, OutcomeNotConfigured)
			}
		}

		if result.Worktrees != nil {
			t.Errorf("single-worktree repository should omit the section, got %v", result.Worktrees)
		}
	})

	t.Run("OriginSynced", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, mainDir, "origin")

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		origin := result.Remotes[0]
		if origin.Remote != "origin" {
			t.Fatalf("first row = %q, want origin", origin.Remote)
		}
		if origin.Outcome != OutcomeResolved {
			t.Fatalf("origin outcome = %q, want %q", origin.Outcome, OutcomeResolved)
		}
		if !origin.MatchesLocal {
			t.Error("origin/main should match the local head")
		}
		if origin.Commit != result.Local.Commit {
			t.Errorf("origin commit = %q, want local %q", origin.Commit, result.Local.Commit)
		}
	})

	t.Run("OriginDiverged", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, mainDir, "origin")
		testutil.RunGit(t, mainDir, "commit", "--allow-empty", "-m", "local only")

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		origin := result.Remotes[0]
		if origin.Outcome != OutcomeResolved {
			t.Fatalf("origin outcome = %q, want %q", origin.Outcome, OutcomeResolved)
		}
		if origin.MatchesLocal {
			t.Error("unpushed commit should report as differing from origin")
		}
	})

	t.Run("OriginBranchMissing", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, mainDir, "origin")
		testutil.RunGit(t, mainDir, "checkout", "-b", "feature/unpushed")

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		origin := result.Remotes[0]
		if origin.Outcome != OutcomeBranchMissing {
			t.Errorf("origin outcome = %q, want %q", origin.Outcome, OutcomeBranchMissing)
		}
	})

	t.Run("UnreachableRemote", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.RunGit(t, mainDir, "remote", "add", "origin", filepath.Join(t.TempDir(), "gone.git"))

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("unreachable remote must not fail the run: %v", err)
		}

		if result.Remotes[0].Outcome != OutcomeFetchFailed {
			t.Errorf("origin outcome = %q, want %q", result.Remotes[0].Outcome, OutcomeFetchFailed)
		}
	})

	t.Run("DirtyWorkingTree", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		if err := os.WriteFile(filepath.Join(mainDir, "wip.txt"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if !result.Local.Dirty {
			t.Error("untracked file should report as modified")
		}
	})

	t.Run("LinkedWorktrees", func(t *testing.T) {
		t.Parallel()

		repoDir, mainDir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, mainDir, "origin")

		featurePath := filepath.Join(repoDir, "feature")
		testutil.RunGit(t, mainDir, "worktree", "add", "-b", "feature/x", featurePath)

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.Worktrees) != 2 {
			t.Fatalf("got %d worktree rows, want 2", len(result.Worktrees))
		}

		var current, linked *WorktreeEntry
		for i := range result.Worktrees {
			if result.Worktrees[i].Current {
				current = &result.Worktrees[i]
			} else {
				linked = &result.Worktrees[i]
			}
		}
		if current == nil || linked == nil {
			t.Fatalf("exactly one row should be current: %+v", result.Worktrees)
		}
		if current.Branch != "main" {
			t.Errorf("current branch = %q, want %q", current.Branch, "main")
		}
		if linked.Branch != "feature/x" {
			t.Errorf("linked branch = %q, want %q", linked.Branch, "feature/x")
		}

		// main was pushed to origin, feature/x was not.
		if current.OriginSync != SyncSynced {
			t.Errorf("main origin sync = %q, want %q", current.OriginSync, SyncSynced)
		}
		if linked.OriginSync != SyncMissing {
			t.Errorf("feature/x origin sync = %q, want %q", linked.OriginSync, SyncMissing)
		}

		// No upstream remote is configured.
		if current.UpstreamSync != SyncMissing {
			t.Errorf("main upstream sync = %q, want %q", current.UpstreamSync, SyncMissing)
		}
	})

	t.Run("ExcludedWorktrees", func(t *testing.T) {
		t.Parallel()

		repoDir, mainDir := testutil.SetupTestRepo(t)

		keepPath := filepath.Join(repoDir, "feature")
		skipPath := filepath.Join(repoDir, "tmp-scratch")
		testutil.RunGit(t, mainDir, "worktree", "add", "-b", "feature/x", keepPath)
		testutil.RunGit(t, mainDir, "worktree", "add", "-b", "scratch", skipPath)

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{
			ExcludeWorktrees: []string{"tmp-*"},
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.Worktrees) != 2 {
			t.Fatalf("got %d worktree rows, want 2 after exclusion", len(result.Worktrees))
		}
		for _, wt := range result.Worktrees {
			if strings.HasPrefix(filepath.Base(wt.Path), "tmp-") {
				t.Errorf("excluded worktree still reported: %s", wt.Path)
			}
		}
	})

	t.Run("DetachedHead", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, mainDir, "origin")
		testutil.RunGit(t, mainDir, "checkout", "--detach", "HEAD")

		cmd := NewDefaultReportCommand(mainDir, nil)
		result, err := cmd.Run(context.Background(), realRepoPath(t, mainDir), ReportOptions{})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if !result.Local.Detached {
			t.Error("local state should be detached")
		}
		// Detached HEAD compares remotes at the configured upstream branch.
		if result.Remotes[0].Branch != DefaultUpstreamBranch {
			t.Errorf("origin query branch = %q, want %q", result.Remotes[0].Branch, DefaultUpstreamBranch)
		}
		if result.Remotes[0].Outcome != OutcomeResolved {
			t.Errorf("origin outcome = %q, want %q", result.Remotes[0].Outcome, OutcomeResolved)
		}
	})
}

func TestReportCommand_ResolveRepository_Integration(t *testing.T) {
	t.Parallel()

	t.Run("RepositoryRoot", func(t *testing.T) {
		t.Parallel()

		_, mainDir := testutil.SetupTestRepo(t)

		cmd := NewDefaultReportCommand(mainDir, nil)
		got, err := cmd.ResolveRepository(context.Background(), mainDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("resolved path %q should be absolute", got)
		}
	})

	t.Run("NotARepository", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		cmd := NewDefaultReportCommand(dir, nil)
		if _, err := cmd.ResolveRepository(context.Background(), dir); err == nil {
			t.Error("expected error for a plain directory")
		}
	})
}

func TestReport_EndToEnd_Integration(t *testing.T) {
	t.Parallel()

	_, mainDir := testutil.SetupTestRepo(t)
	testutil.SetupBareRemote(t, mainDir, "origin")
	testutil.RunGit(t, mainDir, "tag", "v1.0.0")

	cmd := NewDefaultReportCommand(mainDir, nil)
	repoPath, err := cmd.ResolveRepository(context.Background(), mainDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := cmd.Run(context.Background(), repoPath, ReportOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	formatted := result.Format(FormatOptions{})
	stdout := formatted.Stdout

	for _, want := range []string{
		"Repository: " + repoPath,
		"local [main]",
		"v1.0.0",
		"Synced",
		"not configured",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}
