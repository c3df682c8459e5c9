// Package bubbletea provides the Bubble Tea TUI for the wowo chat client:
// a login gate, a session sidebar, and a streaming chat view.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opensawit/wowo"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when cancelled,
// the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamTextMsg carries the accumulated assistant text after a received
// chunk. The message log already holds the text; this only triggers a
// repaint.
type StreamTextMsg struct {
	Text string
}

// SendDoneMsg signals that a send (stream, reconciliation, list refresh)
// has completed.
type SendDoneMsg struct {
	Err error
}

// LoginDoneMsg signals a completed login attempt.
type LoginDoneMsg struct {
	User wowo.User
	Err  error
}

// SessionsMsg signals a completed session list refresh.
type SessionsMsg struct {
	Err error
}

// HistoryMsg signals a completed session switch and history load.
type HistoryMsg struct {
	Err error
}

// SessionDeletedMsg signals a completed session deletion.
type SessionDeletedMsg struct {
	Err error
}

// SessionRenamedMsg signals a completed session rename.
type SessionRenamedMsg struct {
	Err error
}
