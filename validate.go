package verstat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Validation failures are fatal: no report is produced.
var (
	// ErrNotDirectory indicates the target path does not exist as a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrNotRepository indicates the target path is not inside a git working tree.
	ErrNotRepository = errors.New("not a git repository")
)

// ResolveRepository validates the raw target path and returns its
// canonical absolute form. All subsequent queries use the returned
// path, never the possibly-relative input.
func (c *ReportCommand) ResolveRepository(ctx context.Context, path string) (string, error) {
	info, err := c.FS.Stat(path)
	if err != nil {
		if c.FS.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotDirectory)
		}
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", path, err)
	}

	if !c.Git.IsInsideWorkTree(ctx) {
		return "", fmt.Errorf("%s: %w", abs, ErrNotRepository)
	}

	// Canonicalize to the working tree root so subdirectory invocations
	// report on the repository, not the subdirectory.
	root, err := c.Git.TopLevel(ctx)
	if err != nil {
		return "", err
	}

	c.Log.DebugContext(ctx, "repository validated",
		LogAttrKeyCategory.String(), LogCategoryReport,
		"path", root)

	return root, nil
}
