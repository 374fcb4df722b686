package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SetupTestRepo creates a temporary git repository for testing.
// Returns repoDir (parent directory) and mainDir (git repository root).
func SetupTestRepo(t *testing.T) (repoDir, mainDir string) {
	t.Helper()

	tmpDir := t.TempDir()
	repoDir = filepath.Join(tmpDir, "repo")
	mainDir = filepath.Join(repoDir, "main")

	if err := os.MkdirAll(mainDir, 0755); err != nil {
		t.Fatal(err)
	}

	RunGit(t, mainDir, "init", "-b", "main")
	RunGit(t, mainDir, "config", "user.email", "test@example.com")
	RunGit(t, mainDir, "config", "user.name", "Test User")
	RunGit(t, mainDir, "commit", "--allow-empty", "-m", "initial")

	return repoDir, mainDir
}

// SetupBareRemote creates a bare clone of mainDir and configures it as a
// remote with the given name. Remote-tracking refs are populated by an
// initial push so fetches succeed without network access.
func SetupBareRemote(t *testing.T, mainDir, name string) (bareDir string) {
	t.Helper()

	bareDir = filepath.Join(t.TempDir(), name+".git")
	RunGit(t, filepath.Dir(bareDir), "init", "--bare", bareDir)
	RunGit(t, mainDir, "remote", "add", name, bareDir)
	RunGit(t, mainDir, "push", name, "HEAD")
	RunGit(t, mainDir, "fetch", name)

	return bareDir
}

// WriteSettings writes a .verstat/settings.toml with the given content.
func WriteSettings(t *testing.T, mainDir, content string) {
	t.Helper()

	cfgDir := filepath.Join(mainDir, ".verstat")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "settings.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// RunGit executes a git command in the specified directory.
// Fails the test if the command fails.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}
