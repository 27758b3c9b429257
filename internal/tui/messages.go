package tui

import "time"

// stateChangedMsg is sent when the backend reports new state.
type stateChangedMsg struct{}

// statusTickMsg refreshes relative times in the status bar.
type statusTickMsg struct{ Time time.Time }

// connectResultMsg carries the outcome of an account handshake.
type connectResultMsg struct{ Err error }

// clearStatusMsg drops a temporary status line.
type clearStatusMsg struct{ seq int }
