package verstat

import "context"

// LocalState describes the HEAD of the validated working tree.
type LocalState struct {
	Branch   string // empty when detached
	Detached bool
	Commit   string // full hash
	Version  string // describe output or abbreviated hash
	Dirty    bool
}

// inspectLocal gathers branch, commit, version descriptor and cleanliness
// for the repository HEAD. A detached HEAD is reported, not failed.
func (c *ReportCommand) inspectLocal(ctx context.Context) (LocalState, error) {
	var state LocalState

	commit, err := c.Git.HeadCommit(ctx)
	if err != nil {
		return state, err
	}
	state.Commit = commit

	branch, detached, err := c.Git.CurrentBranch(ctx)
	if err != nil {
		return state, err
	}
	state.Branch = branch
	state.Detached = detached

	version, err := c.Git.Describe(ctx, "HEAD")
	if err != nil {
		return state, err
	}
	state.Version = version

	dirty, err := c.Git.IsDirty(ctx)
	if err != nil {
		return state, err
	}
	state.Dirty = dirty

	c.Log.DebugContext(ctx, "local state inspected",
		LogAttrKeyCategory.String(), LogCategoryReport,
		"branch", state.Branch,
		"detached", state.Detached,
		"commit", state.Commit,
		"dirty", state.Dirty)

	return state, nil
}
