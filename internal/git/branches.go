package git

import (
	"sort"
	"strings"

	"gitdeck/internal/model"
)

// ParseBranches reconciles `branch -a --no-color` output into a BranchList.
// Rules: a leading '*' marks the current branch; detached-HEAD and symref
// alias lines are dropped; `remotes/origin/x` displays as `origin/x`; names
// are deduplicated; locals sort first, then remote-qualified names.
func ParseBranches(out string) model.BranchList {
	list := model.BranchList{Locals: make(map[string]struct{})}

	seen := make(map[string]struct{})
	var locals, remotes []string

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		current := strings.HasPrefix(line, "*")
		name := strings.TrimSpace(strings.TrimPrefix(line, "*"))

		if strings.Contains(name, "HEAD detached at") || strings.Contains(name, " -> ") {
			continue
		}

		if rest, ok := strings.CutPrefix(name, "remotes/"); ok {
			// rest is remote/branch; anything shorter is malformed.
			if strings.Contains(rest, "/") {
				if _, dup := seen[rest]; !dup {
					seen[rest] = struct{}{}
					remotes = append(remotes, rest)
				}
			}
			continue
		}

		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			locals = append(locals, name)
		}
		list.Locals[name] = struct{}{}
		if current {
			list.Current = name
		}
	}

	sort.Strings(locals)
	sort.Strings(remotes)
	list.Names = append(locals, remotes...)

	if list.Current == "" {
		if len(locals) > 0 {
			list.Current = locals[0]
		} else {
			list.Current = model.NoBranch
		}
	}
	return list
}

// TakenNames collects every identifier a new branch would collide with:
// local names, remote-qualified display names, and the bare suffix of each
// remote branch.
func TakenNames(out string) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, raw := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "*"))
		if name == "" || strings.Contains(name, " -> ") || strings.Contains(name, "HEAD detached") {
			continue
		}
		if rest, ok := strings.CutPrefix(name, "remotes/"); ok {
			taken[rest] = struct{}{}
			if idx := strings.LastIndex(rest, "/"); idx >= 0 {
				taken[rest[idx+1:]] = struct{}{}
			}
			continue
		}
		taken[name] = struct{}{}
	}
	return taken
}

// SplitRemoteName splits a remote-qualified display name into remote and
// branch. Names without a slash are returned as a branch on the fallback
// remote. Best effort: a local branch containing '/' is indistinguishable
// from a remote-qualified name by text alone.
func SplitRemoteName(display, fallbackRemote string) (remote, branch string) {
	if idx := strings.Index(display, "/"); idx > 0 {
		return display[:idx], display[idx+1:]
	}
	return fallbackRemote, display
}

// BranchListed reports whether `branch --list <name>` output names the
// branch, confirming a local branch exists.
func BranchListed(out, name string) bool {
	for _, raw := range strings.Split(out, "\n") {
		candidate := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "*"))
		if candidate == name {
			return true
		}
	}
	return false
}
