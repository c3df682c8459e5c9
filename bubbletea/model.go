package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opensawit/wowo"
)

var _ tea.Model = Model{}

type mode int

const (
	modeLogin mode = iota
	modeChat
	modeRename
)

type focus int

const (
	focusInput focus = iota
	focusSidebar
)

// Model is the Bubble Tea model for the wowo TUI. It renders straight from
// the Chat controller's snapshots, so wholesale log replacements (history
// load, reconciliation) need no special handling here.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable chat area. Exported for test access.
	Viewport viewport.Model

	chat   *wowo.Chat
	theme  wowo.Theme
	styles Styles

	mode     mode
	focus    focus
	selected int // sidebar index
	renameID string

	sending  bool
	err      error
	loginErr string
	ready    bool

	eventCh chan string
	doneCh  chan error
}

// New creates a new TUI Model around a Chat controller. A restored user
// skips the login gate.
func New(chat *wowo.Chat, theme wowo.Theme) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:  ti,
		chat:   chat,
		theme:  theme,
		styles: NewStyles(theme),
	}
	if chat.User().Valid() {
		m.mode = modeChat
		m.Input.Placeholder = "Tanya Wowo Chan..."
	} else {
		m.mode = modeLogin
		m.Input.Placeholder = "Contoh: wowo, bambang, dll"
	}
	return m
}

// Sending reports whether a send is in flight.
func (m Model) Sending() bool { return m.sending }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.mode == modeChat {
		cmds = append(cmds, m.refreshSessionsCmd())
		if id := m.chat.SessionID(); id != "" {
			cmds = append(cmds, m.switchSessionCmd(id))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamTextMsg:
		m = m.repaint()
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForText(m.eventCh, m.doneCh)
		}
		return m, nil

	case SendDoneMsg:
		m.sending = false
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m = m.repaint()
		m.Viewport.GotoBottom()
		cmd := m.Input.Focus()
		return m, cmd

	case LoginDoneMsg:
		if msg.Err != nil {
			m.loginErr = "Gagal login, coba lagi"
			return m, nil
		}
		m.mode = modeChat
		m.loginErr = ""
		m.Input.SetValue("")
		m.Input.Placeholder = "Tanya Wowo Chan..."
		m = m.repaint()
		return m, m.refreshSessionsCmd()

	case SessionsMsg:
		m.selected = m.clampSelected()
		return m.repaint(), nil

	case HistoryMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		m = m.repaint()
		m.Viewport.GotoBottom()
		return m, nil

	case SessionDeletedMsg, SessionRenamedMsg:
		m.selected = m.clampSelected()
		return m.repaint(), nil
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.sending && m.focus == focusInput {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.mode == modeLogin {
		return m.loginView()
	}

	sidebar := m.renderSidebar(m.Viewport.Height + 2)

	var chatCol strings.Builder
	chatCol.WriteString(m.Viewport.View())
	chatCol.WriteString("\n")
	chatCol.WriteString(m.statusLine())
	chatCol.WriteString("\n")
	chatCol.WriteString(m.Input.View())

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Render(sidebar),
		" │ ",
		chatCol.String(),
	)
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Open Sawit"))
	b.WriteString("\n\n")
	b.WriteString("Masuk dulu supaya percakapanmu tersimpan.\n\n")
	b.WriteString("Nama panggilan: ")
	b.WriteString(m.Input.View())
	b.WriteString("\n")
	if m.loginErr != "" {
		b.WriteString(m.styles.Error.Render(m.loginErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Enter untuk masuk, Ctrl+C untuk keluar"))
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	gapH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := msg.Width - sidebarWidth - 3
	if vpWidth < 20 {
		vpWidth = 20
	}

	if !m.ready {
		m.Viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = vpWidth
		m.Viewport.Height = vpHeight
	}
	m = m.repaint()
	m.Viewport.GotoBottom()

	m.Input.Width = vpWidth
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeLogin:
		return m.handleLoginKey(msg)
	case modeRename:
		return m.handleRenameKey(msg)
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.Type {
	case tea.KeyEnter:
		if m.sending {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitPrompt(text)

	case tea.KeyCtrlN:
		if m.sending {
			return m, nil
		}
		m.err = nil
		return m, m.switchSessionCmd("")

	case tea.KeyCtrlS:
		m.focus = focusSidebar
		m.selected = m.clampSelected()
		m.Input.Blur()
		return m.repaint(), nil

	case tea.KeyCtrlL:
		if m.sending {
			return m, nil
		}
		m.chat.Logout()
		m.mode = modeLogin
		m.err = nil
		m.Input.SetValue("")
		m.Input.Placeholder = "Contoh: wowo, bambang, dll"
		m = m.repaint()
		cmd := m.Input.Focus()
		return m, cmd
	}

	// When idle, pass keys to both input (for typing) and viewport (for
	// scrolling). Only forward non-character keys to viewport to avoid
	// conflicts.
	if !m.sending {
		var cmd tea.Cmd
		var cmds []tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		name := strings.TrimSpace(m.Input.Value())
		if name == "" {
			m.loginErr = "Nama tidak boleh kosong"
			return m, nil
		}
		m.loginErr = ""
		return m, m.loginCmd(name)
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		title := strings.TrimSpace(m.Input.Value())
		id := m.renameID
		m = m.exitRename()
		return m, m.renameSessionCmd(id, title)
	case tea.KeyEsc:
		return m.exitRename(), nil
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.chat.Sessions()

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m.repaint(), nil

	case "down", "j":
		if m.selected < len(sessions)-1 {
			m.selected++
		}
		return m.repaint(), nil

	case "enter":
		if m.selected >= len(sessions) {
			return m, nil
		}
		id := sessions[m.selected].ID
		m = m.focusChat()
		m.err = nil
		return m, m.switchSessionCmd(id)

	case "d":
		if m.selected >= len(sessions) {
			return m, nil
		}
		return m, m.deleteSessionCmd(sessions[m.selected].ID)

	case "r":
		if m.selected >= len(sessions) {
			return m, nil
		}
		s := sessions[m.selected]
		m.mode = modeRename
		m.renameID = s.ID
		m.Input.SetValue(s.Title)
		m.Input.Placeholder = "Nama chat"
		cmd := m.Input.Focus()
		return m, cmd

	case "esc", "ctrl+s":
		return m.focusChat(), nil
	}
	return m, nil
}

func (m Model) submitPrompt(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.sending = true
	m.Input.Blur()

	eventCh := make(chan string, 64)
	doneCh := make(chan error, 1)
	m.eventCh = eventCh
	m.doneCh = doneCh

	m = m.repaint()
	m.Viewport.GotoBottom()

	return m, tea.Batch(
		startSend(m.chat, text, eventCh, doneCh),
		listenForText(eventCh, doneCh),
	)
}

func (m Model) focusChat() Model {
	m.focus = focusInput
	m.Input.Focus()
	return m.repaint()
}

func (m Model) exitRename() Model {
	m.mode = modeChat
	m.renameID = ""
	m.Input.SetValue("")
	m.Input.Placeholder = "Tanya Wowo Chan..."
	return m.repaint()
}

func (m Model) clampSelected() int {
	n := len(m.chat.Sessions())
	if n == 0 {
		return 0
	}
	if m.selected >= n {
		return n - 1
	}
	return m.selected
}

// repaint rebuilds the viewport content from the current log snapshot.
func (m Model) repaint() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	return m
}

func (m Model) renderContent() string {
	messages := m.chat.Log().Messages()
	if len(messages) == 0 {
		var b strings.Builder
		b.WriteString("Selamat datang di Open Sawit Chat.\n\n")
		b.WriteString(m.styles.Muted.Render("Tulis pertanyaan pertama kamu di bawah untuk mulai ngobrol dengan Wowo Chan."))
		return b.String()
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.blockFor(msg, i == len(messages)-1).View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) blockFor(msg wowo.Message, last bool) MessageBlock {
	if msg.Role == wowo.RoleUser {
		return NewUserMessageBlock(msg.Content, m.styles)
	}
	pending := m.sending && last
	return NewAssistantMessageBlock(msg.Content, pending, m.theme, m.styles)
}

func (m Model) statusLine() string {
	if m.err != nil {
		return NewErrorBlock(m.err, m.styles).View(m.Viewport.Width)
	}
	if m.sending {
		return m.styles.Muted.Render("Wowo Chan sedang berpikir...")
	}
	if m.mode == modeRename {
		return m.styles.Muted.Render("Enter simpan nama, Esc batal")
	}
	if m.focus == focusSidebar {
		return m.styles.Muted.Render("Enter buka, d hapus, r ganti nama, Esc kembali")
	}
	return m.styles.Muted.Render("Enter kirim · Ctrl+N chat baru · Ctrl+S riwayat · Ctrl+L keluar")
}

// startSend runs the send in a goroutine, forwarding accumulated text
// updates to eventCh and the final result to doneCh.
func startSend(chat *wowo.Chat, prompt string, eventCh chan<- string, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := chat.Send(context.Background(), prompt, func(text string) {
			// Non-blocking: each update carries the full accumulated text
			// and the log already holds it, so a dropped update only skips
			// a repaint.
			select {
			case eventCh <- text:
			default:
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForText waits for the next accumulated-text update. When the channel
// closes, it reads the result from doneCh and returns SendDoneMsg.
func listenForText(ch <-chan string, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return SendDoneMsg{Err: <-doneCh}
		}
		return StreamTextMsg{Text: text}
	}
}

func (m Model) loginCmd(name string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		user, err := chat.Login(context.Background(), name)
		return LoginDoneMsg{User: user, Err: err}
	}
}

func (m Model) refreshSessionsCmd() tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		return SessionsMsg{Err: chat.RefreshSessions(context.Background())}
	}
}

func (m Model) switchSessionCmd(id string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		return HistoryMsg{Err: chat.SwitchSession(context.Background(), id)}
	}
}

func (m Model) deleteSessionCmd(id string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		return SessionDeletedMsg{Err: chat.DeleteSession(context.Background(), id)}
	}
}

func (m Model) renameSessionCmd(id, title string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		return SessionRenamedMsg{Err: chat.RenameSession(context.Background(), id, title)}
	}
}
