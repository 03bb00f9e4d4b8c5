package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"gitdeck/internal/config"
	"gitdeck/internal/git"
	"gitdeck/internal/model"
	"gitdeck/internal/pipeline"
)

// state

type appState int

const (
	stateNormal appState = iota
	stateCommit
	stateNewBranch
	stateAddRemote
	stateRepoPath
	stateConfirm
)

type confirmKind int

const (
	confirmDeleteLocal confirmKind = iota
	confirmDeleteLocalForce
	confirmDeleteRemote
	confirmDeleteRemoteProtected
	confirmRemoveRemote
	confirmRemoveRemoteDefault
	confirmSwitchDirty
)

type focusArea int

const (
	focusUnstaged focusArea = iota
	focusStaged
	focusBranches
	focusRemotes
	focusCount
)

// styles

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("205"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3).
			Width(60)

	dangerModalStyle = modalStyle.
				BorderForeground(lipgloss.Color("196"))
)

// spinner

var spinnerFrames = []string{"|", "/", "-", "\\"}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// list items

type fileItem struct{ entry model.StatusEntry }

func (i fileItem) Title() string       { return i.entry.Display() }
func (i fileItem) Description() string { return "" }
func (i fileItem) FilterValue() string { return i.entry.Path }

type nameItem struct {
	name    string
	current bool
}

func (i nameItem) Title() string {
	if i.current {
		return "* " + i.name
	}
	return "  " + i.name
}
func (i nameItem) Description() string { return "" }
func (i nameItem) FilterValue() string { return i.name }

// model

type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Runner     *git.Runner
	Dispatcher *pipeline.Dispatcher
	Detector   *git.Detector
	RepoPath   string
}

type Model struct {
	cfg        *config.Config
	logger     *zap.Logger
	runner     *git.Runner
	dispatcher *pipeline.Dispatcher
	detector   *git.Detector
	paths      *git.PathResolver

	repoPath string
	branches model.BranchList
	remotes  []string
	clean    bool

	unstaged   list.Model
	staged     list.Model
	branchList list.Model
	remoteList list.Model
	focus      focusArea

	state         appState
	confirm       confirmKind
	confirmTarget string // branch or remote name being confirmed
	confirmRemote string // remote half of a remote-qualified branch

	input           textinput.Model // shared: commit message, branch name, repo path
	remoteNameInput textinput.Model
	remoteURLInput  textinput.Model
	urlFocused      bool
	inputErr        string

	notice    string
	busyLabel string

	logbuf  *LogBuffer
	logview viewport.Model

	width, height int
	spinnerFrame  int
	refreshSeq    int

	pushQueue []string
	pushOK    int
	pushTotal int
}

func New(opts Options) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	newList := func(title string) list.Model {
		l := list.New([]list.Item{}, delegate, 0, 0)
		l.Title = title
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.SetShowHelp(false)
		l.Styles.Title = titleStyle
		return l
	}

	ti := textinput.New()
	ti.CharLimit = 200

	nameTI := textinput.New()
	nameTI.CharLimit = 60
	nameTI.Placeholder = "e.g. upstream"
	urlTI := textinput.New()
	urlTI.CharLimit = 200
	urlTI.Placeholder = "e.g. https://example.com/user/repo.git"

	logbuf := NewLogBuffer(opts.Config.LogMaxLines)
	logbuf.Append("welcome to gitdeck; pick a repository with g if this directory is not one")

	return Model{
		cfg:             opts.Config,
		logger:          opts.Logger,
		runner:          opts.Runner,
		dispatcher:      opts.Dispatcher,
		detector:        opts.Detector,
		paths:           git.NewPathResolver(),
		repoPath:        opts.RepoPath,
		unstaged:        newList("Unstaged"),
		staged:          newList("Staged"),
		branchList:      newList("Branches"),
		remoteList:      newList("Remotes"),
		input:           ti,
		remoteNameInput: nameTI,
		remoteURLInput:  urlTI,
		logbuf:          logbuf,
		logview:         viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.detector.IsRepo(m.repoPath) {
		// Unquoted non-ASCII paths keep the porcelain parser simple.
		m.dispatcher.Submit(pipeline.Request{
			Args:  git.QuotepathOffArgs(),
			Dir:   m.repoPath,
			Label: "disable path quoting",
			Tag:   tagQuotepath,
		})
		cmds = append(cmds, m.loadStatusCmd(), m.loadBranchesCmd(), m.loadRemotesCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, tickCmd()

	case CommandResultMsg:
		return m.handleResult(msg.Result)

	case refreshDueMsg:
		// Stale ticks from superseded refresh requests are dropped, so a
		// burst of mutations settles into a single refresh.
		if msg.seq != m.refreshSeq {
			return m, nil
		}
		return m, m.loadStatusCmd()

	case statusLoadedMsg:
		m.appendTraces(msg.traces)
		if msg.failed {
			m.notice = "failed to read status"
			return m, nil
		}
		m.clean = msg.clean
		m.setFileItems(&m.unstaged, "Unstaged", msg.unstaged)
		m.setFileItems(&m.staged, "Staged", msg.staged)
		if msg.clean {
			m.notice = "working tree clean, nothing to stage or commit"
		} else {
			m.notice = "status refreshed"
		}
		return m, nil

	case branchesLoadedMsg:
		m.appendTraces(msg.traces)
		if msg.failed {
			m.notice = "failed to list branches"
			return m, nil
		}
		m.branches = msg.list
		items := make([]list.Item, len(msg.list.Names))
		for i, name := range msg.list.Names {
			items[i] = nameItem{name: name, current: name == msg.list.Current}
		}
		m.branchList.SetItems(items)
		return m, nil

	case remotesLoadedMsg:
		m.appendTraces(msg.traces)
		m.remotes = msg.remotes
		items := make([]list.Item, len(msg.remotes))
		for i, name := range msg.remotes {
			items[i] = nameItem{name: name}
		}
		m.remoteList.SetItems(items)
		return m, nil

	case remoteURLMsg:
		m.appendTraces(msg.traces)
		if msg.remote.URL != "" {
			m.notice = msg.remote.Name + " -> " + msg.remote.URL
		} else {
			m.notice = "no URL configured for " + msg.remote.Name
		}
		return m, nil

	case switchCheckedMsg:
		m.appendTraces(msg.traces)
		if msg.dirty {
			m.state = stateConfirm
			m.confirm = confirmSwitchDirty
			m.confirmTarget = msg.actual
			return m, nil
		}
		m.submitCheckout(msg.actual)
		return m, nil

	case createCheckedMsg:
		m.appendTraces(msg.traces)
		if m.state != stateNewBranch {
			return m, nil
		}
		if msg.failed {
			m.inputErr = "could not list existing branches"
			return m, nil
		}
		if msg.taken {
			m.inputErr = "a branch named " + msg.name + " already exists (local or remote)"
			return m, nil
		}
		m.closeModal()
		m.submit(pipeline.Request{
			Args:   git.CheckoutNewArgs(msg.name),
			Label:  "create and switch to " + msg.name,
			Tag:    tagCheckoutNew,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case commitCheckedMsg:
		m.appendTraces(msg.traces)
		if m.state != stateCommit {
			return m, nil
		}
		if msg.nothingStaged {
			m.inputErr = "no staged changes to commit; stage files first"
			return m, nil
		}
		m.closeModal()
		m.submit(pipeline.Request{
			Args:   git.CommitArgs(msg.message),
			Label:  "commit staged changes",
			Tag:    tagCommit,
			OnDone: refreshOnSuccess(m.dispatcher),
		})
		return m, nil

	case repoCheckedMsg:
		if m.state != stateRepoPath {
			return m, nil
		}
		if !msg.valid {
			m.inputErr = msg.path + " is not a git repository root"
			return m, nil
		}
		m.closeModal()
		m.repoPath = msg.path
		m.logbuf.Append("repository switched to " + msg.path)
		m.syncLog()
		m.submit(pipeline.Request{
			Args:  git.QuotepathOffArgs(),
			Label: "disable path quoting",
			Tag:   tagQuotepath,
		})
		return m, tea.Batch(m.loadStatusCmd(), m.loadBranchesCmd(), m.loadRemotesCmd())
	}

	switch m.state {
	case stateCommit, stateNewBranch, stateRepoPath:
		return m.updateTextModal(msg)
	case stateAddRemote:
		return m.updateAddRemote(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateNormal(msg)
	}
}

func (m *Model) setFileItems(l *list.Model, title string, entries []model.StatusEntry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = fileItem{entry: e}
	}
	l.SetItems(items)
	l.Title = title
	if len(entries) > 0 {
		l.Title = title + " (" + strconv.Itoa(len(entries)) + ")"
	}
}

func (m *Model) closeModal() {
	m.state = stateNormal
	m.inputErr = ""
	m.input.Reset()
	m.input.Blur()
	m.remoteNameInput.Reset()
	m.remoteNameInput.Blur()
	m.remoteURLInput.Reset()
	m.remoteURLInput.Blur()
	m.urlFocused = false
}

func (m *Model) focusedList() *list.Model {
	switch m.focus {
	case focusStaged:
		return &m.staged
	case focusBranches:
		return &m.branchList
	case focusRemotes:
		return &m.remoteList
	default:
		return &m.unstaged
	}
}

func (m *Model) selectedFile() *model.StatusEntry {
	l := m.focusedList()
	item, ok := l.SelectedItem().(fileItem)
	if !ok {
		return nil
	}
	return &item.entry
}

func (m *Model) selectedName() string {
	item, ok := m.focusedList().SelectedItem().(nameItem)
	if !ok {
		return ""
	}
	return item.name
}

func (m *Model) requireRepo() bool {
	if m.detector.IsRepo(m.repoPath) {
		return true
	}
	m.notice = "not a git repository: " + m.repoPath
	return false
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
