package wowo

import (
	"context"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Chat orchestrates the conversation between the UI and a Backend: it owns
// the logged-in user, the active session id, the message log, and the cached
// session index. All mutating methods are safe for concurrent use, though in
// practice the TUI drives them one command at a time.
//
// Network failures follow a single policy: the operation is abandoned, the
// error is logged and returned, and no partial state is left behind. The one
// deliberate exception is a failure mid-stream, which keeps the assistant
// placeholder with whatever content had accumulated.
type Chat struct {
	backend Backend
	log     *Log
	logger  *zap.Logger

	mu        sync.Mutex
	user      User
	sessionID string
	sessions  []Session
	gen       int
	sending   bool
	onState   func(User, string)
}

// Option configures a [Chat].
type Option func(*Chat)

// WithLogger sets the diagnostics logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chat) { c.logger = l }
}

// WithUser seeds the logged-in user, typically restored from local state.
func WithUser(u User) Option {
	return func(c *Chat) { c.user = u }
}

// WithSessionID seeds the active session id, typically restored from local
// state alongside the user.
func WithSessionID(id string) Option {
	return func(c *Chat) { c.sessionID = id }
}

// WithStateListener registers a callback invoked whenever the user or the
// active session id changes, so the owner can persist them. Called outside
// the controller's lock.
func WithStateListener(fn func(User, string)) Option {
	return func(c *Chat) { c.onState = fn }
}

// NewChat creates a Chat controller backed by the given Backend.
func NewChat(backend Backend, opts ...Option) *Chat {
	c := &Chat{
		backend: backend,
		log:     NewLog(),
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Log returns the message log for the active session.
func (c *Chat) Log() *Log { return c.log }

// User returns the logged-in user. The zero value means not logged in.
func (c *Chat) User() User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// SessionID returns the active session id, or "" for the new-chat state.
func (c *Chat) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Sessions returns a snapshot copy of the cached session index.
func (c *Chat) Sessions() []Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Session, len(c.sessions))
	copy(out, c.sessions)
	return out
}

// Sending reports whether a send is in flight.
func (c *Chat) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Login establishes a user from a display name and resets the active
// session, as a fresh login starts from the new-chat state.
func (c *Chat) Login(ctx context.Context, name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, ErrEmptyName
	}
	user, err := c.backend.Login(ctx, name)
	if err != nil {
		c.logger.Warn("login failed", zap.Error(err))
		return User{}, err
	}

	c.mu.Lock()
	c.user = user
	c.sessionID = ""
	c.sessions = nil
	c.gen++
	c.mu.Unlock()
	c.log.Clear()
	c.notifyState()
	return user, nil
}

// Logout clears the user and all session state.
func (c *Chat) Logout() {
	c.mu.Lock()
	c.user = User{}
	c.sessionID = ""
	c.sessions = nil
	c.gen++
	c.mu.Unlock()
	c.log.Clear()
	c.notifyState()
}

// RefreshSessions re-fetches the session index and replaces the cache
// wholesale.
func (c *Chat) RefreshSessions(ctx context.Context) error {
	user := c.User()
	if !user.Valid() {
		return ErrNotLoggedIn
	}
	sessions, err := c.backend.Sessions(ctx, user.ID)
	if err != nil {
		c.logger.Warn("session list refresh failed", zap.Error(err))
		return err
	}
	c.mu.Lock()
	c.sessions = sessions
	c.mu.Unlock()
	return nil
}

// SwitchSession makes id the active session and loads its history. An empty
// id switches to the new-chat state. In both cases any in-flight stream is
// orphaned: its remaining updates no longer match the current generation and
// are discarded.
func (c *Chat) SwitchSession(ctx context.Context, id string) error {
	c.mu.Lock()
	c.sessionID = id
	c.gen++
	c.mu.Unlock()
	c.log.Clear()
	c.notifyState()

	if id == "" {
		return nil
	}
	history, err := c.backend.History(ctx, id)
	if err != nil {
		c.logger.Warn("history load failed", zap.String("session", id), zap.Error(err))
		return err
	}
	c.log.ReplaceAll(history)
	return nil
}

// NewSession switches to the new-chat state. A session is only created on
// the next send.
func (c *Chat) NewSession() {
	_ = c.SwitchSession(context.Background(), "")
}

// DeleteSession removes a session. The local list entry is removed
// immediately for feedback; the authoritative refresh follows. Deleting the
// active session returns to the new-chat state.
func (c *Chat) DeleteSession(ctx context.Context, id string) error {
	if err := c.backend.DeleteSession(ctx, id); err != nil {
		c.logger.Warn("session delete failed", zap.String("session", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	kept := c.sessions[:0]
	for _, s := range c.sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.sessions = kept
	wasActive := c.sessionID == id
	c.mu.Unlock()

	if wasActive {
		_ = c.SwitchSession(ctx, "")
	}

	// Refresh failure is non-fatal: the local removal already happened.
	_ = c.RefreshSessions(ctx)
	return nil
}

// RenameSession sets a session's title. Only the matching cached entry is
// updated, keyed by id, using the server's response as authoritative; the
// rest of the list is not refetched.
func (c *Chat) RenameSession(ctx context.Context, id, title string) error {
	updated, err := c.backend.RenameSession(ctx, id, strings.TrimSpace(title))
	if err != nil {
		c.logger.Warn("session rename failed", zap.String("session", id), zap.Error(err))
		return err
	}
	c.mu.Lock()
	for i := range c.sessions {
		if c.sessions[i].ID == updated.ID {
			c.sessions[i].Title = updated.Title
			c.sessions[i].CreatedAt = updated.CreatedAt
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Send transmits a prompt and mirrors the streamed response into the log.
//
// With no active session one is created first; a creation failure aborts the
// send entirely with nothing appended. Otherwise the turn is appended
// optimistically, each received chunk sets the placeholder's content to the
// full accumulated text, and once the stream ends the log is reconciled
// against the backend's authoritative history. The session list is
// re-fetched last, whether the send succeeded or not.
//
// onUpdate, if non-nil, receives the accumulated text after each chunk so
// the UI can repaint. Updates are generation-stamped: after a session switch
// or logout the remaining updates of an orphaned send are discarded.
func (c *Chat) Send(ctx context.Context, prompt string, onUpdate func(text string)) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}

	c.mu.Lock()
	if !c.user.Valid() {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	user := c.user
	sid := c.sessionID
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	if sid == "" {
		id, err := c.backend.StartSession(ctx, user.ID)
		if err != nil {
			c.logger.Warn("session start failed", zap.Error(err))
			return err
		}
		c.mu.Lock()
		c.sessionID = id
		c.mu.Unlock()
		c.notifyState()
		sid = id
	}

	gen := c.generation()
	_, assistantID := c.log.AppendTurn(prompt)

	var streamErr error
	stream, err := c.backend.StreamChat(ctx, StreamRequest{
		Prompt:    prompt,
		UserID:    user.ID,
		SessionID: sid,
	})
	if err != nil {
		// The stream never started; the placeholder stays empty and there
		// is nothing to reconcile.
		c.logger.Warn("chat stream request failed", zap.String("session", sid), zap.Error(err))
		streamErr = err
	} else {
		streamErr = c.consume(stream, gen, sid, assistantID, onUpdate)

		// Reconcile with the authoritative history regardless of how much
		// the stream produced. On failure the optimistic log stands.
		if history, err := c.backend.History(ctx, sid); err != nil {
			c.logger.Warn("history reconciliation failed", zap.String("session", sid), zap.Error(err))
		} else if c.matches(gen, sid) {
			c.log.ReplaceAll(history)
		}
	}

	if err := c.RefreshSessions(ctx); err != nil {
		c.logger.Warn("post-send session refresh failed", zap.Error(err))
	}

	return streamErr
}

// consume drains the stream, applying the accumulated text to the assistant
// placeholder after each chunk. A mid-stream error aborts the read loop and
// keeps the partial content.
func (c *Chat) consume(stream Stream, gen int, sid, assistantID string, onUpdate func(string)) error {
	defer stream.Close()
	for {
		_, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			c.logger.Warn("chat stream read failed", zap.String("session", sid), zap.Error(err))
			return err
		}
		if !c.matches(gen, sid) {
			continue
		}
		text := stream.Text()
		c.log.SetAssistantContent(assistantID, text)
		if onUpdate != nil {
			onUpdate(text)
		}
	}
}

func (c *Chat) generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// matches reports whether gen and sid still describe the current state.
// Stream updates from an orphaned send fail this check and are dropped.
func (c *Chat) matches(gen int, sid string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen && c.sessionID == sid
}

func (c *Chat) notifyState() {
	if c.onState == nil {
		return
	}
	c.mu.Lock()
	user, sid := c.user, c.sessionID
	c.mu.Unlock()
	c.onState(user, sid)
}
