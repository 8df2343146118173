package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/pushupchecker/internal/pushups"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	invalidGoalMessage = "Please enter a valid push-up goal."
	title              = "Push-Up Checker"
)

type view int

const (
	viewSetup view = iota
	viewSession
)

// Messages
type (
	sessionStartedMsg struct {
		snapshot pushups.Snapshot
		updates  <-chan pushups.Snapshot
	}
	sessionStartFailedMsg struct {
		err error
	}
	snapshotMsg struct {
		snapshot pushups.Snapshot
	}
	// the update stream of the session closed, its frame loop is done
	sessionEndedMsg struct {
		id uuid.UUID
	}
	sessionStoppedMsg struct {
		snapshot pushups.Snapshot
	}
)

// Model is the bubbletea model of the goal variant: a setup view to pick the
// goal and push-up type, then a live view of the running session.
type Model struct {
	sessions *pushups.Manager
	keys     KeyMap

	view      view
	goalInput textinput.Model
	typeIndex int
	errMsg    string

	snapshot pushups.Snapshot
	updates  <-chan pushups.Snapshot
	ended    bool
	starting bool
	quitting bool
}

func NewModel(sessions *pushups.Manager, defaultGoal int) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 20"
	ti.CharLimit = 5
	ti.Width = 10
	ti.Prompt = ""
	ti.Focus()
	if defaultGoal > 0 {
		ti.SetValue(strconv.Itoa(defaultGoal))
	}

	return Model{
		sessions:  sessions,
		keys:      DefaultKeyMap(),
		view:      viewSetup,
		goalInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) selectedType() pushups.PushUpType {
	return pushups.PushUpTypes[m.typeIndex]
}

func startSessionCmd(sessions *pushups.Manager, params pushups.StartParams) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := sessions.Start(params)
		if err != nil {
			return sessionStartFailedMsg{err: err}
		}
		return sessionStartedMsg{
			snapshot: snapshot,
			updates:  sessions.Updates(),
		}
	}
}

func waitForUpdateCmd(id uuid.UUID, updates <-chan pushups.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return sessionEndedMsg{id: id}
		}
		return snapshotMsg{snapshot: snapshot}
	}
}

func stopSessionCmd(sessions *pushups.Manager) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := sessions.Stop()
		if err != nil && !errors.Is(err, pushups.ErrNoSession) {
			log.Errorf("stop session: %s", err)
		}
		return sessionStoppedMsg{snapshot: snapshot}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.view == viewSession {
				return m, tea.Sequence(stopSessionCmd(m.sessions), tea.Quit)
			}
			return m, tea.Quit
		}
		if m.view == viewSetup {
			return m.updateSetup(msg)
		}
		return m.updateSession(msg)

	case sessionStartedMsg:
		m.starting = false
		m.view = viewSession
		m.snapshot = msg.snapshot
		m.updates = msg.updates
		m.ended = false
		m.errMsg = ""
		return m, waitForUpdateCmd(msg.snapshot.ID, msg.updates)

	case sessionStartFailedMsg:
		m.starting = false
		m.errMsg = userMessage(msg.err)
		return m, nil

	case snapshotMsg:
		// late update of an earlier session
		if msg.snapshot.ID != m.snapshot.ID || m.view != viewSession {
			return m, nil
		}
		m.snapshot = msg.snapshot
		return m, waitForUpdateCmd(msg.snapshot.ID, m.updates)

	case sessionEndedMsg:
		if msg.id == m.snapshot.ID {
			m.ended = true
		}
		return m, nil

	case sessionStoppedMsg:
		if m.quitting {
			return m, nil
		}
		m.view = viewSetup
		m.goalInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		if m.starting {
			return m, nil
		}
		goal, err := pushups.ParseGoal(m.goalInput.Value())
		if err != nil {
			m.errMsg = invalidGoalMessage
			return m, nil
		}
		m.errMsg = ""
		m.starting = true
		return m, startSessionCmd(m.sessions, pushups.StartParams{
			Goal: goal,
			Type: m.selectedType(),
		})
	case key.Matches(msg, m.keys.NextType):
		m.typeIndex = (m.typeIndex + 1) % len(pushups.PushUpTypes)
		return m, nil
	case key.Matches(msg, m.keys.PrevType):
		m.typeIndex = (m.typeIndex - 1 + len(pushups.PushUpTypes)) % len(pushups.PushUpTypes)
		return m, nil
	}

	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

func (m Model) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Stop) {
		return m, stopSessionCmd(m.sessions)
	}
	return m, nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, pushups.ErrInvalidGoal):
		return invalidGoalMessage
	case errors.Is(err, pushups.ErrSessionRunning):
		return "A session is already running."
	default:
		return fmt.Sprintf("Could not start the session: %s", err)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body, help string
	if m.view == viewSetup {
		body = m.setupView()
		help = renderHelp(m.keys.setupHelp())
	} else {
		body = m.sessionView()
		help = renderHelp(m.keys.sessionHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(title),
		PanelStyle.Render(body),
		help,
	)
}

func (m Model) setupView() string {
	var types []string
	for i, pt := range pushups.PushUpTypes {
		if i == m.typeIndex {
			types = append(types, SelectedTypeStyle.Render("["+pt.String()+"]"))
		} else {
			types = append(types, LabelStyle.Render(pt.String()))
		}
	}

	lines := []string{
		LabelStyle.Render("Push-up goal: ") + m.goalInput.View(),
		LabelStyle.Render("Push-up type: ") + strings.Join(types, "  "),
	}
	if m.starting {
		lines = append(lines, "", LabelStyle.Render("Connecting to the pose stream ..."))
	}
	if m.errMsg != "" {
		lines = append(lines, "", ErrorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m Model) sessionView() string {
	s := m.snapshot

	feedback := FeedbackStyle.Render(s.Feedback)
	if s.GoalReached {
		feedback = GoalReachedStyle.Render(s.Feedback)
	}

	lines := []string{
		LabelStyle.Render("Type: ") + s.Type.String(),
		"",
		feedback,
		StatsStyle.Render(s.StatsLine()),
		LabelStyle.Render("Position: ") + s.Position,
	}

	switch {
	case s.Status == pushups.StatusFailed:
		lines = append(lines, "", ErrorStyle.Render("Pose stream failed: "+s.Error))
	case m.ended && !s.GoalReached:
		lines = append(lines, "", LabelStyle.Render("Session ended."))
	}
	return strings.Join(lines, "\n")
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, " • "))
}
