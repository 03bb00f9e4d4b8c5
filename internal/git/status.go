package git

import (
	"strings"

	"gitdeck/internal/model"
)

// ParseStatus reconciles a porcelain v1 status report into the two display
// lists. Each line is `XY path`: X is the index state, Y the worktree state.
// A line may contribute to both lists (e.g. "MM"), one, or neither. An
// empty or whitespace-only report yields two empty lists; the caller shows
// the clean-tree notice.
func ParseStatus(report string, resolve func(string) string) (unstaged, staged []model.StatusEntry) {
	if resolve == nil {
		resolve = resolvePath
	}
	for _, line := range strings.Split(report, "\n") {
		if strings.TrimSpace(line) == "" || len(line) < 4 {
			continue
		}
		entry := model.StatusEntry{
			Code: line[:2],
			Path: resolve(strings.TrimSpace(line[3:])),
		}
		if entry.Staged() {
			staged = append(staged, entry)
		}
		if entry.Unstaged() {
			unstaged = append(unstaged, entry)
		}
	}
	return unstaged, staged
}
