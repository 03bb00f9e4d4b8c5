package git

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("drops blank lines", func(t *testing.T) {
		assert.Equal(t, "one\ntwo", Normalize("one\n\ntwo\n"))
	})
	t.Run("drops whitespace-only lines", func(t *testing.T) {
		assert.Equal(t, "a\nb", Normalize("a\n   \n\t\nb"))
	})
	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("\n\n\n"))
	})
	t.Run("keeps interior indentation", func(t *testing.T) {
		assert.Equal(t, " M file.txt", Normalize(" M file.txt\n"))
	})
}

// The runner only prepends the binary to the argument vector, so tests can
// point it at shell utilities instead of git.

func TestRunCapturesOutput(t *testing.T) {
	r := &Runner{Binary: "sh"}
	res := r.Run(context.Background(), t.TempDir(), "-c", "echo one; echo; echo two")
	require.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
	assert.Equal(t, "one\ntwo", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunReportsExitCode(t *testing.T) {
	r := &Runner{Binary: "sh"}
	res := r.Run(context.Background(), t.TempDir(), "-c", "echo oops >&2; exit 3")
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "oops", res.Stderr)
}

func TestRunMissingWorkingDirectory(t *testing.T) {
	r := &Runner{Binary: "sh"}
	res := r.Run(context.Background(), "/does/not/exist", "-c", "true")
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Stderr, "does not exist")
}

func TestRunEmptyWorkingDirectory(t *testing.T) {
	r := &Runner{Binary: "sh"}
	res := r.Run(context.Background(), "", "-c", "true")
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Binary: "definitely-not-a-real-binary-xyz"}
	res := r.Run(context.Background(), t.TempDir(), "status")
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Stderr, "not found")
}

func TestRunTimeout(t *testing.T) {
	r := &Runner{Binary: "sleep", Timeout: 100 * time.Millisecond}
	start := time.Now()
	res := r.Run(context.Background(), t.TempDir(), "5")
	assert.Less(t, time.Since(start), 2*time.Second, "command should have been aborted")
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Stderr, "timed out")
}

func TestRunDefaults(t *testing.T) {
	r := &Runner{}
	assert.Equal(t, "git", r.binary())
	assert.Equal(t, DefaultTimeout, r.timeout())
}
