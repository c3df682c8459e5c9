package bubbletea

import "github.com/opensawit/wowo"

// Truncate exports truncate for testing.
func Truncate(s string, width int) string {
	return truncate(s, width)
}

// SessionLabel exports sessionLabel for testing.
func SessionLabel(s wowo.Session) string {
	return sessionLabel(s)
}
