package wowo_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/opensawit/wowo"
	"github.com/opensawit/wowo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_Send_CreatesSessionFirst(t *testing.T) {
	t.Parallel()

	var streamReq wowo.StreamRequest
	history := []wowo.Message{
		{ID: "srv-1", Role: wowo.RoleUser, Content: "halo"},
		{ID: "srv-2", Role: wowo.RoleAssistant, Content: "Halo wowo!"},
	}
	backend := &mock.Backend{
		StartSessionFn: func(ctx context.Context, userID string) (string, error) {
			assert.Equal(t, "u1", userID)
			return "S1", nil
		},
		StreamChatFn: func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
			streamReq = req
			return mock.Chunks("Hal", "o wo", "wo!"), nil
		},
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			assert.Equal(t, "S1", sessionID)
			return history, nil
		},
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			return []wowo.Session{{ID: "S1", CreatedAt: time.Now()}}, nil
		},
	}

	var savedSession string
	chat := wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithStateListener(func(u wowo.User, sessionID string) {
			savedSession = sessionID
		}),
	)

	var updates []string
	err := chat.Send(context.Background(), "halo", func(text string) {
		updates = append(updates, text)
	})
	require.NoError(t, err)

	// Each update carries the full accumulated text, not a delta.
	assert.Equal(t, []string{"Hal", "Halo wo", "Halo wowo!"}, updates)

	// The new session is adopted and persisted before the prompt is sent.
	assert.Equal(t, "S1", chat.SessionID())
	assert.Equal(t, "S1", savedSession)
	assert.Equal(t, wowo.StreamRequest{Prompt: "halo", UserID: "u1", SessionID: "S1"}, streamReq)

	// Reconciliation replaced the optimistic log with the server's record.
	assert.Equal(t, history, chat.Log().Messages())

	// The session index was re-fetched after the send.
	require.Len(t, chat.Sessions(), 1)
	assert.Equal(t, "S1", chat.Sessions()[0].ID)
}

func TestChat_Send_ReusesActiveSession(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		StreamChatFn: func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
			assert.Equal(t, "S1", req.SessionID)
			return mock.Chunks("ok"), nil
		},
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			return nil, errors.New("boom")
		},
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			return nil, nil
		},
	}
	chat := wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithSessionID("S1"),
	)

	require.NoError(t, chat.Send(context.Background(), "lanjut", nil))
	assert.Equal(t, "S1", chat.SessionID())
}

func TestChat_Send_StartFailureAbortsEntirely(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		StartSessionFn: func(ctx context.Context, userID string) (string, error) {
			return "", errors.New("HTTP 500")
		},
	}
	var notified bool
	chat := wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithStateListener(func(wowo.User, string) { notified = true }),
	)

	err := chat.Send(context.Background(), "halo", nil)
	require.Error(t, err)

	// No message appended, no session adopted, nothing persisted.
	assert.Zero(t, chat.Log().Len())
	assert.Empty(t, chat.SessionID())
	assert.False(t, notified)
}

func TestChat_Send_EmptyPrompt(t *testing.T) {
	t.Parallel()

	// Backend funcs are nil: any call would panic.
	chat := wowo.NewChat(&mock.Backend{}, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))

	err := chat.Send(context.Background(), "   \n", nil)
	assert.ErrorIs(t, err, wowo.ErrEmptyPrompt)
	assert.Zero(t, chat.Log().Len())
}

func TestChat_Send_NotLoggedIn(t *testing.T) {
	t.Parallel()

	chat := wowo.NewChat(&mock.Backend{})
	err := chat.Send(context.Background(), "halo", nil)
	assert.ErrorIs(t, err, wowo.ErrNotLoggedIn)
}

func TestChat_Send_StreamRequestFailure(t *testing.T) {
	t.Parallel()

	historyCalled := false
	backend := &mock.Backend{
		StreamChatFn: func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
			return nil, errors.New("connection refused")
		},
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			historyCalled = true
			return nil, nil
		},
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			return nil, nil
		},
	}
	chat := wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithSessionID("S1"),
	)

	err := chat.Send(context.Background(), "halo", nil)
	require.Error(t, err)

	// The turn was already appended optimistically; the placeholder stays
	// empty. The stream never started, so there is nothing to reconcile.
	messages := chat.Log().Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "halo", messages[0].Content)
	assert.Empty(t, messages[1].Content)
	assert.False(t, historyCalled)
}

func TestChat_Send_MidStreamFailureKeepsPartialContent(t *testing.T) {
	t.Parallel()

	calls := 0
	stream := &mock.Stream{
		NextFn: func() (string, error) {
			calls++
			if calls == 1 {
				return "Hal", nil
			}
			return "", errors.New("connection reset")
		},
	}
	sessionsRefreshed := false
	backend := &mock.Backend{
		StreamChatFn: func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
			return stream, nil
		},
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			return nil, errors.New("also down")
		},
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			sessionsRefreshed = true
			return nil, nil
		},
	}
	chat := wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithSessionID("S1"),
	)

	err := chat.Send(context.Background(), "halo", nil)
	require.Error(t, err)

	// The placeholder keeps whatever had accumulated; it is not removed.
	messages := chat.Log().Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "Hal", messages[1].Content)

	// The list refresh happens whether the send succeeded or not.
	assert.True(t, sessionsRefreshed)
}

func TestChat_Send_StaleUpdatesDiscardedAfterSwitch(t *testing.T) {
	t.Parallel()

	otherHistory := []wowo.Message{
		{ID: "o-1", Role: wowo.RoleUser, Content: "older chat"},
	}
	var chat *wowo.Chat
	calls := 0
	stream := &mock.Stream{
		NextFn: func() (string, error) {
			calls++
			switch calls {
			case 1:
				return "Hal", nil
			case 2:
				// The user switches sessions while the stream is mid-flight.
				require.NoError(t, chat.SwitchSession(context.Background(), "S2"))
				return "o wowo!", nil
			default:
				return "", io.EOF
			}
		},
	}
	backend := &mock.Backend{
		StreamChatFn: func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
			return stream, nil
		},
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			if sessionID == "S2" {
				return otherHistory, nil
			}
			return []wowo.Message{{ID: "s1-1", Role: wowo.RoleAssistant, Content: "Halo wowo!"}}, nil
		},
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			return nil, nil
		},
	}
	chat = wowo.NewChat(backend,
		wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}),
		wowo.WithSessionID("S1"),
	)

	require.NoError(t, chat.Send(context.Background(), "halo", nil))

	// Updates and reconciliation from the orphaned send must not touch the
	// newly-active session's log.
	assert.Equal(t, "S2", chat.SessionID())
	assert.Equal(t, otherHistory, chat.Log().Messages())
}

func TestChat_SwitchSession(t *testing.T) {
	t.Parallel()

	history := []wowo.Message{{ID: "m1", Role: wowo.RoleUser, Content: "hi"}}
	backend := &mock.Backend{
		HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
			if sessionID == "bad" {
				return nil, errors.New("HTTP 404")
			}
			return history, nil
		},
	}
	chat := wowo.NewChat(backend, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))

	t.Run("loads history", func(t *testing.T) {
		require.NoError(t, chat.SwitchSession(context.Background(), "S1"))
		assert.Equal(t, "S1", chat.SessionID())
		assert.Equal(t, history, chat.Log().Messages())
	})

	t.Run("empty id clears the log", func(t *testing.T) {
		require.NoError(t, chat.SwitchSession(context.Background(), ""))
		assert.Empty(t, chat.SessionID())
		assert.Zero(t, chat.Log().Len())
	})

	t.Run("history failure leaves an empty log", func(t *testing.T) {
		err := chat.SwitchSession(context.Background(), "bad")
		require.Error(t, err)
		assert.Equal(t, "bad", chat.SessionID())
		assert.Zero(t, chat.Log().Len())
	})
}

func TestChat_DeleteSession(t *testing.T) {
	t.Parallel()

	newChat := func(t *testing.T, refreshed []wowo.Session) *wowo.Chat {
		t.Helper()
		backend := &mock.Backend{
			SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
				return refreshed, nil
			},
			DeleteSessionFn: func(ctx context.Context, sessionID string) error {
				return nil
			},
			HistoryFn: func(ctx context.Context, sessionID string) ([]wowo.Message, error) {
				return nil, nil
			},
		}
		chat := wowo.NewChat(backend, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))
		return chat
	}

	t.Run("active session returns to no-session state", func(t *testing.T) {
		t.Parallel()

		remaining := []wowo.Session{{ID: "S2"}}
		chat := newChat(t, remaining)
		require.NoError(t, chat.SwitchSession(context.Background(), "S1"))

		require.NoError(t, chat.DeleteSession(context.Background(), "S1"))
		assert.Empty(t, chat.SessionID())
		assert.Equal(t, remaining, chat.Sessions())
	})

	t.Run("non-active session leaves active unchanged", func(t *testing.T) {
		t.Parallel()

		remaining := []wowo.Session{{ID: "S1"}}
		chat := newChat(t, remaining)
		require.NoError(t, chat.SwitchSession(context.Background(), "S1"))

		require.NoError(t, chat.DeleteSession(context.Background(), "S2"))
		assert.Equal(t, "S1", chat.SessionID())
	})

	t.Run("backend failure leaves the list untouched", func(t *testing.T) {
		t.Parallel()

		backend := &mock.Backend{
			SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
				return []wowo.Session{{ID: "S1"}, {ID: "S2"}}, nil
			},
			DeleteSessionFn: func(ctx context.Context, sessionID string) error {
				return errors.New("HTTP 500")
			},
		}
		chat := wowo.NewChat(backend, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))
		require.NoError(t, chat.RefreshSessions(context.Background()))

		require.Error(t, chat.DeleteSession(context.Background(), "S1"))
		assert.Len(t, chat.Sessions(), 2)
	})
}

func TestChat_RenameSession(t *testing.T) {
	t.Parallel()

	listFetches := 0
	renamedAt := time.Now()
	backend := &mock.Backend{
		SessionsFn: func(ctx context.Context, userID string) ([]wowo.Session, error) {
			listFetches++
			return []wowo.Session{{ID: "S1"}, {ID: "S2", Title: "lain"}}, nil
		},
		RenameSessionFn: func(ctx context.Context, sessionID, title string) (wowo.Session, error) {
			assert.Equal(t, "S1", sessionID)
			assert.Equal(t, "Curhat malam", title)
			return wowo.Session{ID: "S1", Title: "Curhat malam", CreatedAt: renamedAt}, nil
		},
	}
	chat := wowo.NewChat(backend, wowo.WithUser(wowo.User{ID: "u1", Name: "wowo"}))
	require.NoError(t, chat.RefreshSessions(context.Background()))
	require.Equal(t, 1, listFetches)

	require.NoError(t, chat.RenameSession(context.Background(), "S1", "  Curhat malam  "))

	// Only the matching entry changed, without refetching the whole list.
	sessions := chat.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "Curhat malam", sessions[0].Title)
	assert.Equal(t, renamedAt, sessions[0].CreatedAt)
	assert.Equal(t, "lain", sessions[1].Title)
	assert.Equal(t, 1, listFetches)
}

func TestChat_LoginAndLogout(t *testing.T) {
	t.Parallel()

	backend := &mock.Backend{
		LoginFn: func(ctx context.Context, name string) (wowo.User, error) {
			assert.Equal(t, "wowo", name)
			return wowo.User{ID: "u1", Name: "wowo"}, nil
		},
	}

	var savedUser wowo.User
	var savedSession string
	chat := wowo.NewChat(backend,
		wowo.WithSessionID("stale"),
		wowo.WithStateListener(func(u wowo.User, sessionID string) {
			savedUser, savedSession = u, sessionID
		}),
	)

	user, err := chat.Login(context.Background(), "  wowo  ")
	require.NoError(t, err)
	assert.Equal(t, wowo.User{ID: "u1", Name: "wowo"}, user)

	// A fresh login starts from the new-chat state.
	assert.Empty(t, chat.SessionID())
	assert.Equal(t, user, savedUser)
	assert.Empty(t, savedSession)

	chat.Logout()
	assert.False(t, chat.User().Valid())
	assert.False(t, savedUser.Valid())
}

func TestChat_Login_EmptyName(t *testing.T) {
	t.Parallel()

	chat := wowo.NewChat(&mock.Backend{})
	_, err := chat.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, wowo.ErrEmptyName)
}

func TestChat_RefreshSessions_RequiresUser(t *testing.T) {
	t.Parallel()

	chat := wowo.NewChat(&mock.Backend{})
	assert.ErrorIs(t, chat.RefreshSessions(context.Background()), wowo.ErrNotLoggedIn)
}
