package bubbletea_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opensawit/wowo"
	bt "github.com/opensawit/wowo/bubbletea"
	"github.com/opensawit/wowo/mock"
	"github.com/stretchr/testify/require"
)

// newChat creates a logged-in Chat controller over the given backend.
func newChat(backend wowo.Backend) *wowo.Chat {
	return wowo.NewChat(backend, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))
}

// initModel creates a logged-in model and sends a WindowSizeMsg to
// initialize the viewport.
func initModel(t *testing.T, backend *mock.Backend) bt.Model {
	t.Helper()
	return initModelWith(t, newChat(backend))
}

// initModelWith initializes the viewport of a model around the given chat.
func initModelWith(t *testing.T, chat *wowo.Chat) bt.Model {
	t.Helper()
	m := bt.New(chat, wowo.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeInput types a string into the model's text input.
func typeInput(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}
