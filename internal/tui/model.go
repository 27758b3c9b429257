// Package tui renders the live dashboard and the styled command-line output.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/responder"
)

// Backend is the service the dashboard observes and controls.
type Backend interface {
	Snapshot() responder.Snapshot
	Changed() <-chan struct{}
	SetRunning(running bool)
	UpdateSettings(s mail.Settings) error
	Connect(ctx context.Context) error
}

type tab int

const (
	tabDashboard tab = iota
	tabActivity
)

// Interval bounds enforced by the +/- keys.
const (
	intervalStep = 10
	minInterval  = 10
	maxInterval  = 300
)

const (
	tickInterval   = time.Second
	tempStatusTime = 3 * time.Second
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctx     context.Context
	backend Backend
	now     func() time.Time

	snap       responder.Snapshot
	tab        tab
	connecting bool

	width, height int

	status    string
	statusErr bool
	statusSeq int
}

// NewModel returns a dashboard bound to b. ctx bounds background commands.
func NewModel(ctx context.Context, b Backend) Model {
	return Model{
		ctx:     ctx,
		backend: b,
		now:     time.Now,
		snap:    b.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForChangeCmd(m.backend.Changed()),
		statusTickCmd(tickInterval),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateChangedMsg:
		m.snap = m.backend.Snapshot()
		cmds = append(cmds, waitForChangeCmd(m.backend.Changed()))

	case statusTickMsg:
		cmds = append(cmds, statusTickCmd(tickInterval))

	case connectResultMsg:
		m.connecting = false
		m.snap = m.backend.Snapshot()
		if msg.Err != nil {
			cmds = append(cmds, m.flash(fmt.Sprintf("Connection failed: %v", msg.Err), true))
		} else {
			cmds = append(cmds, m.flash("Account connected, auto-responder is live", false))
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return *m, tea.Quit

	case "tab":
		if m.tab == tabDashboard {
			m.tab = tabActivity
		} else {
			m.tab = tabDashboard
		}
		return *m, nil

	case "p":
		running := !m.snap.Running
		m.backend.SetRunning(running)
		m.snap = m.backend.Snapshot()
		if running {
			return *m, m.flash("Resumed", false)
		}
		return *m, m.flash("Paused", false)

	case "c":
		if m.snap.Connected || m.connecting {
			return *m, nil
		}
		m.connecting = true
		return *m, tea.Batch(m.flash("Connecting account...", false), connectCmd(m.ctx, m.backend))

	case "f":
		return *m, m.editSettings(func(s *mail.Settings) {
			if s.FilterMode == mail.FilterAll {
				s.FilterMode = mail.FilterKeywords
			} else {
				s.FilterMode = mail.FilterAll
			}
		})

	case "a":
		return *m, m.editSettings(func(s *mail.Settings) { s.AutoPilot = !s.AutoPilot })

	case "+", "=":
		return *m, m.editSettings(func(s *mail.Settings) {
			s.CheckIntervalSeconds = min(s.CheckIntervalSeconds+intervalStep, maxInterval)
		})

	case "-":
		return *m, m.editSettings(func(s *mail.Settings) {
			s.CheckIntervalSeconds = max(s.CheckIntervalSeconds-intervalStep, minInterval)
		})
	}
	return *m, nil
}

func (m *Model) editSettings(edit func(*mail.Settings)) tea.Cmd {
	s := m.snap.Settings.Clone()
	edit(&s)
	if err := m.backend.UpdateSettings(s); err != nil {
		return m.flash(fmt.Sprintf("Settings rejected: %v", err), true)
	}
	m.snap = m.backend.Snapshot()
	return m.flash("Settings saved", false)
}

// flash shows a temporary status line.
func (m *Model) flash(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return clearStatusCmd(m.statusSeq, tempStatusTime)
}

func (m Model) View() string {
	return AppStyle.Render(renderDashboard(m))
}

// Run shows the dashboard until the user quits or ctx is cancelled. It
// returns the final snapshot for the shutdown summary.
func Run(ctx context.Context, b Backend) (responder.Snapshot, error) {
	p := tea.NewProgram(NewModel(ctx, b), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return b.Snapshot(), fmt.Errorf("dashboard failed: %w", err)
	}
	return b.Snapshot(), nil
}
