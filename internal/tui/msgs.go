package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"gitdeck/internal/git"
	"gitdeck/internal/model"
	"gitdeck/internal/pipeline"
)

// CommandResultMsg carries a finished pipeline result onto the interaction
// loop. The launcher wires pipeline delivery to Program.Send with this type.
type CommandResultMsg struct {
	Result *pipeline.Result
}

// execTrace records one read-side git invocation so the log pane shows
// every executed command, queries included.
type execTrace struct {
	args []string
	res  git.Result
}

type statusLoadedMsg struct {
	unstaged []model.StatusEntry
	staged   []model.StatusEntry
	clean    bool
	failed   bool
	traces   []execTrace
}

type branchesLoadedMsg struct {
	list   model.BranchList
	failed bool
	traces []execTrace
}

type remotesLoadedMsg struct {
	remotes []string
	traces  []execTrace
}

type remoteURLMsg struct {
	remote model.Remote
	traces []execTrace
}

type switchCheckedMsg struct {
	display string // name as selected, possibly remote-qualified
	actual  string // name handed to checkout
	dirty   bool   // uncommitted worktree or index changes
	traces  []execTrace
}

type createCheckedMsg struct {
	name   string
	taken  bool
	failed bool
	traces []execTrace
}

type commitCheckedMsg struct {
	message       string
	nothingStaged bool
	traces        []execTrace
}

type repoCheckedMsg struct {
	path  string
	valid bool
}

type refreshDueMsg struct{ seq int }

type tickMsg struct{}

func (m Model) trace(args []string) (git.Result, execTrace) {
	res := m.runner.Run(context.Background(), m.repoPath, args...)
	return res, execTrace{args: args, res: res}
}

// loadStatusCmd refreshes the two status lists. Read-only queries run as
// plain tea commands; only mutating commands go through the dispatcher.
func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.StatusArgs())
		msg := statusLoadedMsg{traces: []execTrace{tr}}
		if !res.Success() {
			msg.failed = true
			return msg
		}
		msg.unstaged, msg.staged = git.ParseStatus(res.Stdout, m.paths.Resolve)
		msg.clean = len(msg.unstaged) == 0 && len(msg.staged) == 0
		return msg
	}
}

func (m Model) loadBranchesCmd() tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.BranchListAllArgs())
		msg := branchesLoadedMsg{traces: []execTrace{tr}}
		if !res.Success() {
			msg.failed = true
			return msg
		}
		msg.list = git.ParseBranches(res.Stdout)
		return msg
	}
}

func (m Model) loadRemotesCmd() tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.RemoteListArgs())
		msg := remotesLoadedMsg{traces: []execTrace{tr}}
		if res.Success() {
			msg.remotes = splitLines(res.Stdout)
		}
		return msg
	}
}

func (m Model) remoteURLCmd(name string) tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.RemoteGetURLArgs(name))
		msg := remoteURLMsg{remote: model.Remote{Name: name}, traces: []execTrace{tr}}
		if res.Success() {
			msg.remote.URL = res.Stdout
		}
		return msg
	}
}

// switchCheckCmd resolves a selector value to the name checkout receives
// and probes for uncommitted changes. A remote-qualified selection falls
// back to its suffix unless a local branch of that name already exists;
// with several remotes sharing a suffix this is best effort.
func (m Model) switchCheckCmd(display string) tea.Cmd {
	local := m.branches.IsLocal(display)
	return func() tea.Msg {
		var traces []execTrace

		actual := display
		if !local {
			if _, suffix := git.SplitRemoteName(display, ""); suffix != display {
				res, tr := m.trace(git.BranchListArgs(suffix))
				traces = append(traces, tr)
				actual = suffix
				if res.Success() && git.BranchListed(res.Stdout, suffix) {
					// A local branch shadows the remote name; odd but the
					// selector showed it, so honor the full display name.
					actual = display
				}
			}
		}

		wc, tr := m.trace(git.DiffQuietArgs(false))
		traces = append(traces, tr)
		idx, tr := m.trace(git.DiffQuietArgs(true))
		traces = append(traces, tr)

		return switchCheckedMsg{
			display: display,
			actual:  actual,
			dirty:   wc.ExitCode != 0 || idx.ExitCode != 0,
			traces:  traces,
		}
	}
}

func (m Model) createCheckCmd(name string) tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.BranchListAllArgs())
		msg := createCheckedMsg{name: name, traces: []execTrace{tr}}
		if !res.Success() {
			msg.failed = true
			return msg
		}
		_, msg.taken = git.TakenNames(res.Stdout)[name]
		return msg
	}
}

func (m Model) commitCheckCmd(message string) tea.Cmd {
	return func() tea.Msg {
		res, tr := m.trace(git.DiffQuietArgs(true))
		return commitCheckedMsg{
			message:       message,
			nothingStaged: res.ExitCode == 0,
			traces:        []execTrace{tr},
		}
	}
}

func (m Model) repoCheckCmd(path string) tea.Cmd {
	detector := m.detector
	return func() tea.Msg {
		return repoCheckedMsg{path: path, valid: detector.IsRepo(path)}
	}
}
