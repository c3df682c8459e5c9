package bubbletea

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/opensawit/wowo"
	"github.com/rivo/uniseg"
)

const (
	sidebarWidth  = 28
	untitledLabel = "Chat tanpa judul"
)

// sessionLabel returns the display label for a session entry.
func sessionLabel(s wowo.Session) string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return untitledLabel
}

// truncate shortens s to the given display width, appending an ellipsis when
// cut. Width is measured in terminal cells, not runes, so wide characters
// count double.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	return rw.Truncate(s, width, "…")
}

// renderSidebar renders the session history column.
func (m Model) renderSidebar(height int) string {
	var b strings.Builder

	b.WriteString(m.styles.Accent.Render("Open Sawit"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Riwayat chat"))
	b.WriteString("\n\n")

	sessions := m.chat.Sessions()
	if len(sessions) == 0 {
		b.WriteString(m.styles.Muted.Render("Belum ada riwayat chat."))
		b.WriteString("\n")
	}

	active := m.chat.SessionID()
	for i, s := range sessions {
		label := truncate(sessionLabel(s), sidebarWidth-4)
		line := "  " + label
		switch {
		case m.focus == focusSidebar && i == m.selected:
			line = m.styles.Accent.Render("> " + label)
		case s.ID == active:
			line = m.styles.Success.Render("* " + label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(truncate("Masuk sebagai "+m.chat.User().Name, sidebarWidth-2)))

	col := b.String()
	if lines := strings.Count(col, "\n") + 1; lines < height {
		col += strings.Repeat("\n", height-lines)
	}
	return col
}
