package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

const minListHeight = 4

// resize distributes the terminal between the four selector panes on top
// and the command log below. Borders and padding eat two cells each way
// per pane.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	paneWidth := m.width/4 - 4
	if paneWidth < 12 {
		paneWidth = 12
	}

	listHeight := (m.height * 2 / 3) - 4
	if listHeight < minListHeight {
		listHeight = minListHeight
	}

	for _, l := range []*list.Model{&m.unstaged, &m.staged, &m.branchList, &m.remoteList} {
		l.SetSize(paneWidth, listHeight)
	}

	logHeight := m.height - listHeight - 8
	if logHeight < 3 {
		logHeight = 3
	}
	m.logview.Width = m.width - 4
	m.logview.Height = logHeight
	m.syncLog()
}

func (m Model) View() string {
	if m.width == 0 {
		return "starting up..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	panes := make([]string, 0, focusCount)
	for _, p := range []struct {
		f focusArea
		v string
	}{
		{focusUnstaged, m.unstaged.View()},
		{focusStaged, m.staged.View()},
		{focusBranches, m.branchList.View()},
		{focusRemotes, m.remoteList.View()},
	} {
		style := paneStyle
		if m.focus == p.f {
			style = focusedPaneStyle
		}
		panes = append(panes, style.Render(p.v))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")

	b.WriteString(paneStyle.Width(m.width - 2).Render(m.logview.View()))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(" " + warnStyle.Render(m.notice) + "\n")
	}
	b.WriteString(m.helpView())

	if m.state != stateNormal {
		return m.modalView()
	}
	return b.String()
}

func (m Model) headerView() string {
	header := titleStyle.Render("gitdeck") +
		dimStyle.Render("  "+m.repoPath) +
		"  " + boldStyle.Render("["+m.branches.Current+"]")
	if m.clean {
		header += "  " + okStyle.Render("clean")
	}
	if m.busyLabel != "" {
		header += "  " + warnStyle.Render(spinnerFrames[m.spinnerFrame]+" "+m.busyLabel)
	}
	return " " + header
}

func (m Model) helpView() string {
	switch m.focus {
	case focusUnstaged:
		return helpStyle.Render("s stage · S stage all · c commit · r refresh · tab pane · q quit")
	case focusStaged:
		return helpStyle.Render("u unstage · c commit · r refresh · tab pane · q quit")
	case focusBranches:
		return helpStyle.Render("enter switch · n new · d/D delete · X delete on remote · f fetch · p pull · P push")
	default:
		return helpStyle.Render("enter show URL · o push here · A push all · R add · x remove · tab pane")
	}
}

func (m Model) modalView() string {
	var body string
	style := modalStyle

	switch m.state {
	case stateCommit:
		body = m.inputModal("Commit staged changes", "Message:")
	case stateNewBranch:
		body = m.inputModal("Create branch", "Name:")
	case stateRepoPath:
		body = m.inputModal("Open repository", "Path:")
	case stateAddRemote:
		body = m.addRemoteModal()
	case stateConfirm:
		body, style = m.confirmModal()
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		style.Render(body),
		lipgloss.WithWhitespaceChars(" "))
}

func (m Model) inputModal(title, label string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(label + "\n" + m.input.View())
	if m.inputErr != "" {
		b.WriteString("\n\n" + errStyle.Render(m.inputErr))
	}
	b.WriteString("\n\n" + dimStyle.Render("enter confirm · esc cancel"))
	return b.String()
}

func (m Model) addRemoteModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add remote") + "\n\n")
	b.WriteString("Name:\n" + m.remoteNameInput.View() + "\n\n")
	b.WriteString("URL:\n" + m.remoteURLInput.View())
	if m.inputErr != "" {
		b.WriteString("\n\n" + errStyle.Render(m.inputErr))
	}
	b.WriteString("\n\n" + dimStyle.Render("tab switch field · enter confirm · esc cancel"))
	return b.String()
}

func (m Model) confirmModal() (string, lipgloss.Style) {
	var b strings.Builder
	style := modalStyle

	switch m.confirm {
	case confirmSwitchDirty:
		b.WriteString(titleStyle.Render("Uncommitted changes") + "\n\n")
		b.WriteString("You have uncommitted changes. Switch to " +
			boldStyle.Render(m.confirmTarget) + " anyway?")
	case confirmDeleteLocal:
		b.WriteString(titleStyle.Render("Delete branch") + "\n\n")
		b.WriteString("Delete local branch " + boldStyle.Render(m.confirmTarget) + "?")
	case confirmDeleteLocalForce:
		style = dangerModalStyle
		b.WriteString(errStyle.Render("Force delete branch") + "\n\n")
		b.WriteString("Force delete " + boldStyle.Render(m.confirmTarget) +
			"? Unmerged commits will be lost.")
	case confirmDeleteRemote:
		style = dangerModalStyle
		b.WriteString(errStyle.Render("Delete branch on remote") + "\n\n")
		b.WriteString("Delete " + boldStyle.Render(m.confirmTarget) + " on " +
			boldStyle.Render(m.confirmRemote) + "?")
	case confirmDeleteRemoteProtected:
		style = dangerModalStyle
		b.WriteString(errStyle.Render("Protected branch") + "\n\n")
		b.WriteString(boldStyle.Render(m.confirmTarget) + " is a protected branch. " +
			"Really delete it on " + boldStyle.Render(m.confirmRemote) + "?")
	case confirmRemoveRemote:
		style = dangerModalStyle
		b.WriteString(errStyle.Render("Remove remote") + "\n\n")
		b.WriteString("Remove remote " + boldStyle.Render(m.confirmTarget) + "?")
	case confirmRemoveRemoteDefault:
		style = dangerModalStyle
		b.WriteString(errStyle.Render("Default remote") + "\n\n")
		b.WriteString(boldStyle.Render(m.confirmTarget) + " is the default remote; " +
			"push and fetch will stop working. Remove it anyway?")
	}

	b.WriteString("\n\n" + dimStyle.Render("y confirm · n cancel"))
	return b.String(), style
}
