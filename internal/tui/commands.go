package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// waitForChangeCmd blocks until the backend signals a change. It is
// re-queued after every delivery.
func waitForChangeCmd(changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changed
		return stateChangedMsg{}
	}
}

func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return statusTickMsg{Time: t}
	})
}

func connectCmd(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{Err: b.Connect(ctx)}
	}
}

func clearStatusCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
