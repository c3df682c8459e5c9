package wowo

import "context"

// Backend is a strategy pattern interface for the chat backend. It is the
// source of truth for users, sessions, and history; the client only caches
// what it returns.
type Backend interface {
	// Login establishes a user from a display name.
	Login(ctx context.Context, name string) (User, error)

	// Sessions returns the session index for a user, newest first as the
	// server orders it.
	Sessions(ctx context.Context, userID string) ([]Session, error)

	// StartSession creates a new session and returns its id.
	StartSession(ctx context.Context, userID string) (string, error)

	// History returns the authoritative message log for a session.
	History(ctx context.Context, sessionID string) ([]Message, error)

	// RenameSession sets a session's title and returns the updated entry.
	RenameSession(ctx context.Context, sessionID, title string) (Session, error)

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, sessionID string) error

	// StreamChat sends a prompt and returns the response as an incrementally
	// consumed text stream.
	StreamChat(ctx context.Context, req StreamRequest) (Stream, error)
}

// StreamRequest carries everything a streaming send needs. SessionID must be
// resolved before the call; the backend does not create sessions implicitly.
type StreamRequest struct {
	Prompt    string
	UserID    string
	SessionID string
}
