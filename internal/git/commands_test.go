package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgumentVectors(t *testing.T) {
	assert.Equal(t, []string{"status", "--porcelain=v1"}, StatusArgs())
	assert.Equal(t, []string{"add", "--", "a.txt", "b.txt"}, StageArgs("a.txt", "b.txt"))
	assert.Equal(t, []string{"reset", "HEAD", "--", "a.txt"}, UnstageArgs("a.txt"))
	assert.Equal(t, []string{"commit", "-m", "msg"}, CommitArgs("msg"))
	assert.Equal(t, []string{"push"}, PushArgs(""))
	assert.Equal(t, []string{"push", "upstream"}, PushArgs("upstream"))
	assert.Equal(t, []string{"push", "origin", "--delete", "dev"}, PushDeleteArgs("origin", "dev"))
	assert.Equal(t, []string{"fetch", "origin", "--prune"}, FetchPruneArgs("origin"))
	assert.Equal(t, []string{"branch", "-d", "dev"}, BranchDeleteArgs("dev", false))
	assert.Equal(t, []string{"branch", "-D", "dev"}, BranchDeleteArgs("dev", true))
	assert.Equal(t, []string{"checkout", "-b", "dev"}, CheckoutNewArgs("dev"))
	assert.Equal(t, []string{"diff", "--cached", "--quiet"}, DiffQuietArgs(true))
	assert.Equal(t, []string{"diff", "--quiet"}, DiffQuietArgs(false))
	assert.Equal(t, []string{"remote", "get-url", "origin"}, RemoteGetURLArgs("origin"))
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "git status --porcelain=v1", CommandLine("git", StatusArgs()))
}

func TestValidateBranchName(t *testing.T) {
	valid := []string{"main", "feature/retry-queue", "v1.2.3", "fix_123"}
	for _, name := range valid {
		assert.NoError(t, ValidateBranchName(name), name)
	}

	invalid := []string{
		"",
		"has space",
		"tilde~1",
		"caret^",
		"colon:name",
		`back\slash`,
		"double..dot",
		"star*",
		"quest?",
		"brack[et",
		"at@{ref",
		"/leading",
		"trailing/",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateBranchName(name), name)
	}
}
