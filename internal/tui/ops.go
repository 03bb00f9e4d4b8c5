package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"gitdeck/internal/git"
	"gitdeck/internal/pipeline"
)

// Tags let handleResult route follow-up work per operation without the
// pipeline knowing anything about git.
const (
	tagStage        = "stage"
	tagStageAll     = "stage-all"
	tagUnstage      = "unstage"
	tagCommit       = "commit"
	tagCheckout     = "checkout"
	tagCheckoutNew  = "checkout-new"
	tagBranchDelete = "branch-delete"
	tagPushDelete   = "push-delete"
	tagPush         = "push"
	tagPushAll      = "push-all"
	tagPull         = "pull"
	tagFetch        = "fetch"
	tagRemoteAdd    = "remote-add"
	tagRemoteRemove = "remote-remove"
	tagQuotepath    = "quotepath"
)

// refreshOnSuccess is the standard completion handler for mutating
// commands: mark a refresh pending and let the interaction loop debounce.
func refreshOnSuccess(d *pipeline.Dispatcher) func(pipeline.Result) {
	return func(r pipeline.Result) {
		if r.Success {
			d.RequestRefresh()
		}
	}
}

// submit hands a request to the dispatcher. A rejection while another
// command runs is a notice, not an error.
func (m *Model) submit(req pipeline.Request) {
	req.Dir = m.repoPath
	if !m.dispatcher.Submit(req) {
		m.notice = "another command is running; " + req.Label + " skipped"
		m.logbuf.Append("busy: skipped " + req.Label)
		m.syncLog()
		return
	}
	m.busyLabel = req.Label
	m.notice = ""
	m.logbuf.Append("running: " + req.Label)
	m.syncLog()
}

func (m *Model) submitCheckout(name string) {
	m.submit(pipeline.Request{
		Args:   git.CheckoutArgs(name),
		Label:  "switch to " + name,
		Tag:    tagCheckout,
		OnDone: refreshOnSuccess(m.dispatcher),
	})
}

// handleResult settles a finished command on the interaction loop: log it,
// run its completion handler, clear busy, chain per-operation follow-ups
// and schedule the debounced refresh if one is due.
func (m Model) handleResult(res *pipeline.Result) (tea.Model, tea.Cmd) {
	m.busyLabel = ""
	m.appendResultLog(res)

	refreshDue := m.dispatcher.Finish(res)

	var cmds []tea.Cmd
	switch res.Tag {
	case tagCommit:
		if res.Success {
			m.notice = "commit created"
		}

	case tagCheckout, tagCheckoutNew, tagBranchDelete:
		cmds = append(cmds, m.loadBranchesCmd())

	case tagPushDelete:
		// Deletion reported on stderr still counts; prune afterwards so the
		// stale remote-tracking ref disappears from the selector.
		if res.Success || strings.Contains(strings.ToLower(res.Stderr), "deleted") {
			m.submit(pipeline.Request{
				Args:  git.FetchPruneArgs(m.cfg.DefaultRemote),
				Label: "fetch and prune " + m.cfg.DefaultRemote,
				Tag:   tagFetch,
			})
		}

	case tagFetch:
		if res.Success {
			m.notice = "fetch complete"
		}
		cmds = append(cmds, m.loadBranchesCmd())

	case tagPull:
		cmds = append(cmds, m.loadBranchesCmd())

	case tagPushAll:
		if res.Success {
			m.pushOK++
		}
		if len(m.pushQueue) > 0 {
			next := m.pushQueue[0]
			m.pushQueue = m.pushQueue[1:]
			m.submit(pipeline.Request{
				Args:  git.PushArgs(next),
				Label: "push to " + next,
				Tag:   tagPushAll,
			})
		} else {
			m.notice = fmt.Sprintf("pushed to %d/%d remotes", m.pushOK, m.pushTotal)
		}

	case tagRemoteAdd, tagRemoteRemove:
		cmds = append(cmds, m.loadRemotesCmd())
	}

	if refreshDue {
		m.refreshSeq++
		seq := m.refreshSeq
		cmds = append(cmds, tea.Tick(m.cfg.RefreshDelay(), func(time.Time) tea.Msg {
			return refreshDueMsg{seq: seq}
		}))
	}
	return m, tea.Batch(cmds...)
}

// key handling, normal state

func (m Model) updateNormal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.routeToFocused(msg)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil

	case "r":
		if !m.requireRepo() {
			return m, nil
		}
		return m, tea.Batch(m.loadStatusCmd(), m.loadBranchesCmd(), m.loadRemotesCmd())

	case "s":
		if m.focus != focusUnstaged || !m.requireRepo() {
			return m, nil
		}
		entry := m.selectedFile()
		if entry == nil {
			m.notice = "select a file in the unstaged list first"
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:   git.StageArgs(entry.Path),
			Label:  "stage " + entry.Path,
			Tag:    tagStage,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case "S":
		if !m.requireRepo() {
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:   git.StageAllArgs(),
			Label:  "stage all changes",
			Tag:    tagStageAll,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case "u":
		if m.focus != focusStaged || !m.requireRepo() {
			return m, nil
		}
		entry := m.selectedFile()
		if entry == nil {
			m.notice = "select a file in the staged list first"
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:   git.UnstageArgs(entry.Path),
			Label:  "unstage " + entry.Path,
			Tag:    tagUnstage,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case "c":
		if !m.requireRepo() {
			return m, nil
		}
		m.state = stateCommit
		m.inputErr = ""
		m.input.Placeholder = "e.g. fix: handle renamed paths"
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink

	case "n":
		if !m.requireRepo() {
			return m, nil
		}
		m.state = stateNewBranch
		m.inputErr = ""
		m.input.Placeholder = "e.g. feature/retry-queue"
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink

	case "g":
		m.state = stateRepoPath
		m.inputErr = ""
		m.input.Placeholder = m.repoPath
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink

	case "enter":
		switch m.focus {
		case focusBranches:
			return m.startSwitch()
		case focusRemotes:
			if name := m.selectedName(); name != "" && m.requireRepo() {
				return m, m.remoteURLCmd(name)
			}
		}
		return m, nil

	case "d", "D":
		if m.focus != focusBranches || !m.requireRepo() {
			return m, nil
		}
		return m.startDeleteLocal(key.String() == "D")

	case "X":
		if m.focus != focusBranches || !m.requireRepo() {
			return m, nil
		}
		return m.startDeleteRemote()

	case "f":
		if !m.requireRepo() {
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:  git.FetchPruneArgs(m.cfg.DefaultRemote),
			Label: "fetch and prune " + m.cfg.DefaultRemote,
			Tag:   tagFetch,
		})
		return m, nil

	case "p":
		if !m.requireRepo() {
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:   git.PullArgs(),
			Label:  "pull from upstream",
			Tag:    tagPull,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case "P":
		if !m.requireRepo() {
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:  git.PushArgs(""),
			Label: "push to default remote",
			Tag:   tagPush,
		})
		return m, nil

	case "o":
		if m.focus != focusRemotes || !m.requireRepo() {
			return m, nil
		}
		name := m.selectedName()
		if name == "" {
			m.notice = "select a remote first"
			return m, nil
		}
		m.submit(pipeline.Request{
			Args:  git.PushArgs(name),
			Label: "push to " + name,
			Tag:   tagPush,
		})
		return m, nil

	case "A":
		if !m.requireRepo() {
			return m, nil
		}
		if len(m.remotes) == 0 {
			m.notice = "no remotes configured"
			return m, nil
		}
		m.pushQueue = append([]string(nil), m.remotes[1:]...)
		m.pushOK = 0
		m.pushTotal = len(m.remotes)
		m.submit(pipeline.Request{
			Args:  git.PushArgs(m.remotes[0]),
			Label: "push to " + m.remotes[0],
			Tag:   tagPushAll,
		})
		return m, nil

	case "R":
		if !m.requireRepo() {
			return m, nil
		}
		m.state = stateAddRemote
		m.inputErr = ""
		m.urlFocused = false
		m.remoteNameInput.Reset()
		m.remoteURLInput.Reset()
		m.remoteNameInput.Focus()
		return m, textinput.Blink

	case "x":
		if m.focus != focusRemotes || !m.requireRepo() {
			return m, nil
		}
		name := m.selectedName()
		if name == "" {
			m.notice = "select a remote first"
			return m, nil
		}
		m.state = stateConfirm
		m.confirm = confirmRemoveRemote
		m.confirmTarget = name
		return m, nil
	}

	return m.routeToFocused(msg)
}

func (m Model) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusStaged:
		m.staged, cmd = m.staged.Update(msg)
	case focusBranches:
		m.branchList, cmd = m.branchList.Update(msg)
	case focusRemotes:
		m.remoteList, cmd = m.remoteList.Update(msg)
	default:
		m.unstaged, cmd = m.unstaged.Update(msg)
	}
	return m, cmd
}

func (m Model) startSwitch() (tea.Model, tea.Cmd) {
	target := m.selectedName()
	if target == "" {
		m.notice = "select a branch first"
		return m, nil
	}
	if target == m.branches.Current {
		m.notice = "already on " + target
		return m, nil
	}
	return m, m.switchCheckCmd(target)
}

func (m Model) startDeleteLocal(force bool) (tea.Model, tea.Cmd) {
	name := m.selectedName()
	if name == "" {
		m.notice = "select a branch first"
		return m, nil
	}
	// Same text heuristic as the selector itself: a slash means a
	// remote-tracking name, which branch -d cannot remove.
	if !m.branches.IsLocal(name) {
		m.notice = name + " is a remote-tracking branch; use X to delete it on the remote"
		return m, nil
	}
	if name == m.branches.Current {
		m.notice = "cannot delete the current branch; switch away first"
		return m, nil
	}
	m.state = stateConfirm
	if force {
		m.confirm = confirmDeleteLocalForce
	} else {
		m.confirm = confirmDeleteLocal
	}
	m.confirmTarget = name
	return m, nil
}

func (m Model) startDeleteRemote() (tea.Model, tea.Cmd) {
	name := m.selectedName()
	if name == "" {
		m.notice = "select a branch first"
		return m, nil
	}
	remote, branch := git.SplitRemoteName(name, m.cfg.DefaultRemote)
	m.state = stateConfirm
	m.confirm = confirmDeleteRemote
	m.confirmRemote = remote
	m.confirmTarget = branch
	return m, nil
}

// modal states

func (m Model) updateTextModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeModal()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			switch m.state {
			case stateCommit:
				if value == "" {
					m.inputErr = "commit message cannot be empty"
					return m, nil
				}
				m.inputErr = ""
				return m, m.commitCheckCmd(value)
			case stateNewBranch:
				if err := git.ValidateBranchName(value); err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				m.inputErr = ""
				return m, m.createCheckCmd(value)
			case stateRepoPath:
				if value == "" {
					m.inputErr = "enter a directory path"
					return m, nil
				}
				m.inputErr = ""
				return m, m.repoCheckCmd(value)
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateAddRemote(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeModal()
			return m, nil
		case "tab", "shift+tab":
			m.urlFocused = !m.urlFocused
			if m.urlFocused {
				m.remoteNameInput.Blur()
				m.remoteURLInput.Focus()
			} else {
				m.remoteURLInput.Blur()
				m.remoteNameInput.Focus()
			}
			return m, textinput.Blink
		case "enter":
			name := strings.TrimSpace(m.remoteNameInput.Value())
			url := strings.TrimSpace(m.remoteURLInput.Value())
			if name == "" {
				m.inputErr = "remote name cannot be empty"
				return m, nil
			}
			if url == "" {
				m.inputErr = "remote URL cannot be empty"
				return m, nil
			}
			m.closeModal()
			m.submit(pipeline.Request{
				Args:  git.RemoteAddArgs(name, url),
				Label: "add remote " + name,
				Tag:   tagRemoteAdd,
			})
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.urlFocused {
		m.remoteURLInput, cmd = m.remoteURLInput.Update(msg)
	} else {
		m.remoteNameInput, cmd = m.remoteNameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "n", "N":
		m.state = stateNormal
		return m, nil
	case "enter", "y", "Y":
		kind := m.confirm
		m.state = stateNormal
		switch kind {
		case confirmSwitchDirty:
			m.submitCheckout(m.confirmTarget)
		case confirmDeleteLocal, confirmDeleteLocalForce:
			force := kind == confirmDeleteLocalForce
			m.submit(pipeline.Request{
				Args:  git.BranchDeleteArgs(m.confirmTarget, force),
				Label: "delete local branch " + m.confirmTarget,
				Tag:   tagBranchDelete,
			})
		case confirmDeleteRemote:
			// Protected branches get a second, sterner prompt before the
			// push --delete goes out.
			if m.cfg.IsProtected(m.confirmTarget) {
				m.state = stateConfirm
				m.confirm = confirmDeleteRemoteProtected
				return m, nil
			}
			m.submit(pipeline.Request{
				Args:  git.PushDeleteArgs(m.confirmRemote, m.confirmTarget),
				Label: "delete " + m.confirmTarget + " on " + m.confirmRemote,
				Tag:   tagPushDelete,
			})
		case confirmDeleteRemoteProtected:
			m.submit(pipeline.Request{
				Args:  git.PushDeleteArgs(m.confirmRemote, m.confirmTarget),
				Label: "delete " + m.confirmTarget + " on " + m.confirmRemote,
				Tag:   tagPushDelete,
			})
		case confirmRemoveRemote:
			if m.confirmTarget == m.cfg.DefaultRemote {
				m.state = stateConfirm
				m.confirm = confirmRemoveRemoteDefault
				return m, nil
			}
			m.submit(pipeline.Request{
				Args:  git.RemoteRemoveArgs(m.confirmTarget),
				Label: "remove remote " + m.confirmTarget,
				Tag:   tagRemoteRemove,
			})
		case confirmRemoveRemoteDefault:
			m.submit(pipeline.Request{
				Args:  git.RemoteRemoveArgs(m.confirmTarget),
				Label: "remove remote " + m.confirmTarget,
				Tag:   tagRemoteRemove,
			})
		}
		return m, nil
	}
	return m, nil
}

// logging

func (m *Model) appendResultLog(res *pipeline.Result) {
	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", git.CommandLine(m.cfg.GitBinary, res.Args))
	if res.Stdout != "" {
		b.WriteString(res.Stdout + "\n")
	}
	if res.Stderr != "" {
		if res.Success {
			fmt.Fprintf(&b, "info: %s\n", res.Stderr)
		} else {
			fmt.Fprintf(&b, "error: %s\n", res.Stderr)
		}
	}
	fmt.Fprintf(&b, "exit code: %d\n---", res.ExitCode)
	m.logbuf.Append(b.String())
	m.syncLog()

	m.logger.Debug("command finished",
		zap.String("label", res.Label),
		zap.Strings("args", res.Args),
		zap.Int("exit_code", res.ExitCode))
}

func (m *Model) appendTraces(traces []execTrace) {
	for _, tr := range traces {
		var b strings.Builder
		fmt.Fprintf(&b, "$ %s\n", git.CommandLine(m.cfg.GitBinary, tr.args))
		if tr.res.Stdout != "" {
			b.WriteString(tr.res.Stdout + "\n")
		}
		if tr.res.Stderr != "" {
			fmt.Fprintf(&b, "error: %s\n", tr.res.Stderr)
		}
		fmt.Fprintf(&b, "exit code: %d\n---", tr.res.ExitCode)
		m.logbuf.Append(b.String())
	}
	if len(traces) > 0 {
		m.syncLog()
	}
}

func (m *Model) syncLog() {
	m.logview.SetContent(m.logbuf.String())
	m.logview.GotoBottom()
}
