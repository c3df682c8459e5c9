package bubbletea

import (
	"github.com/opensawit/wowo"
	"github.com/opensawit/wowo/markdown"
)

var _ MessageBlock = (*AssistantMessageBlock)(nil)

// AssistantMessageBlock renders assistant text with markdown formatting
// under a name label. While the message is still streaming the content grows
// between repaints; an empty content renders the pending indicator instead.
type AssistantMessageBlock struct {
	content string
	pending bool
	theme   wowo.Theme
	styles  Styles
}

// NewAssistantMessageBlock creates an AssistantMessageBlock. pending marks
// the in-flight placeholder so an empty message reads as "thinking" rather
// than as a blank bubble.
func NewAssistantMessageBlock(content string, pending bool, theme wowo.Theme, styles Styles) *AssistantMessageBlock {
	return &AssistantMessageBlock{content: content, pending: pending, theme: theme, styles: styles}
}

func (b *AssistantMessageBlock) View(width int) string {
	label := b.styles.Assistant.Render("Wowo Chan")
	if b.content == "" {
		if b.pending {
			return label + "\n" + b.styles.Muted.Render("Wowo Chan sedang berpikir...")
		}
		return label
	}
	return label + "\n" + markdown.Render(b.content, width, b.theme)
}
