package git

import (
	"fmt"
	"regexp"
	"strings"
)

// Argument vectors for every operation the front-end issues. Keeping them in
// one place makes the external surface auditable and keeps the TUI free of
// string literals.

func StatusArgs() []string { return []string{"status", "--porcelain=v1"} }

func StageArgs(paths ...string) []string {
	return append([]string{"add", "--"}, paths...)
}

func StageAllArgs() []string { return []string{"add", "."} }

func UnstageArgs(paths ...string) []string {
	return append([]string{"reset", "HEAD", "--"}, paths...)
}

func CommitArgs(message string) []string {
	return []string{"commit", "-m", message}
}

// DiffQuietArgs checks for uncommitted changes; cached selects the index.
// Exit code 0 means clean, 1 means dirty.
func DiffQuietArgs(cached bool) []string {
	if cached {
		return []string{"diff", "--cached", "--quiet"}
	}
	return []string{"diff", "--quiet"}
}

// PushArgs pushes to the named remote, or to the configured default when
// remote is empty.
func PushArgs(remote string) []string {
	if remote == "" {
		return []string{"push"}
	}
	return []string{"push", remote}
}

func PushDeleteArgs(remote, branch string) []string {
	return []string{"push", remote, "--delete", branch}
}

func PullArgs() []string { return []string{"pull"} }

func FetchPruneArgs(remote string) []string {
	return []string{"fetch", remote, "--prune"}
}

func BranchListAllArgs() []string { return []string{"branch", "-a", "--no-color"} }

func BranchListArgs(name string) []string {
	return []string{"branch", "--list", name}
}

func BranchDeleteArgs(name string, force bool) []string {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return []string{"branch", flag, name}
}

func CheckoutArgs(name string) []string { return []string{"checkout", name} }

func CheckoutNewArgs(name string) []string {
	return []string{"checkout", "-b", name}
}

func RemoteListArgs() []string { return []string{"remote"} }

func RemoteGetURLArgs(name string) []string {
	return []string{"remote", "get-url", name}
}

func RemoteAddArgs(name, url string) []string {
	return []string{"remote", "add", name, url}
}

func RemoteRemoveArgs(name string) []string {
	return []string{"remote", "remove", name}
}

// QuotepathOffArgs disables path quoting so non-ASCII filenames arrive
// unmangled in porcelain output. Set once per repository.
func QuotepathOffArgs() []string {
	return []string{"config", "core.quotepath", "false"}
}

// CommandLine renders an argv for the log view.
func CommandLine(binary string, args []string) string {
	return binary + " " + strings.Join(args, " ")
}

var invalidBranchChars = regexp.MustCompile(`\s|~|\^|:|\\|\.\.|\*|\?|\[|@\{`)

// ValidateBranchName rejects names git itself would refuse: whitespace,
// ref-syntax metacharacters, leading or trailing slash.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name is empty")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("branch name %q may not begin or end with a slash", name)
	}
	if invalidBranchChars.MatchString(name) {
		return fmt.Errorf("branch name %q contains whitespace or invalid characters", name)
	}
	return nil
}
