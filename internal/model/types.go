package model

// StatusEntry is one changed path from a porcelain status report. The code
// keeps git's raw two-character XY form (index state, worktree state);
// entries are rebuilt wholesale on every refresh and never mutated.
type StatusEntry struct {
	Code string // two characters, e.g. "M ", " M", "??", "R "
	Path string // resolved path: unquoted, rename target, unescaped
}

// Display renders the entry the way the status lists show it.
func (e StatusEntry) Display() string {
	return e.Code + " " + e.Path
}

// Staged reports whether the entry belongs in the staged list: the index
// column carries a real state letter.
func (e StatusEntry) Staged() bool {
	return len(e.Code) == 2 && e.Code[0] != ' ' && e.Code[0] != '?'
}

// Unstaged reports whether the entry belongs in the unstaged list: the
// worktree column is set, or the file is untracked.
func (e StatusEntry) Unstaged() bool {
	return len(e.Code) == 2 && (e.Code[1] != ' ' || e.Code == "??")
}

// BranchList is the reconciled output of an all-branches listing.
type BranchList struct {
	// Current is the branch carrying the '*' marker, or NoBranch when the
	// repository is on a detached HEAD and no local branch exists.
	Current string
	// Names holds every distinct display name: local branches first
	// (sorted), then remote-qualified names like "origin/main" (sorted).
	Names []string
	// Locals records which display names are local branches.
	Locals map[string]struct{}
}

// NoBranch is the current-branch placeholder for detached or empty repos.
const NoBranch = "(no local branch)"

// IsLocal reports whether a display name refers to a local branch.
func (b BranchList) IsLocal(name string) bool {
	_, ok := b.Locals[name]
	return ok
}

// Remote is a configured remote repository.
type Remote struct {
	Name string
	URL  string
}
