// Package mock provides test doubles for wowo interfaces using function fields.
package mock

import (
	"context"

	"github.com/opensawit/wowo"
)

// Interface compliance check.
var _ wowo.Backend = (*Backend)(nil)

// Backend is a test double for wowo.Backend. Set the function fields for the
// methods you need; unset methods panic to catch missing setup.
type Backend struct {
	LoginFn         func(ctx context.Context, name string) (wowo.User, error)
	SessionsFn      func(ctx context.Context, userID string) ([]wowo.Session, error)
	StartSessionFn  func(ctx context.Context, userID string) (string, error)
	HistoryFn       func(ctx context.Context, sessionID string) ([]wowo.Message, error)
	RenameSessionFn func(ctx context.Context, sessionID, title string) (wowo.Session, error)
	DeleteSessionFn func(ctx context.Context, sessionID string) error
	StreamChatFn    func(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error)
}

// Login delegates to LoginFn.
func (b *Backend) Login(ctx context.Context, name string) (wowo.User, error) {
	return b.LoginFn(ctx, name)
}

// Sessions delegates to SessionsFn.
func (b *Backend) Sessions(ctx context.Context, userID string) ([]wowo.Session, error) {
	return b.SessionsFn(ctx, userID)
}

// StartSession delegates to StartSessionFn.
func (b *Backend) StartSession(ctx context.Context, userID string) (string, error) {
	return b.StartSessionFn(ctx, userID)
}

// History delegates to HistoryFn.
func (b *Backend) History(ctx context.Context, sessionID string) ([]wowo.Message, error) {
	return b.HistoryFn(ctx, sessionID)
}

// RenameSession delegates to RenameSessionFn.
func (b *Backend) RenameSession(ctx context.Context, sessionID, title string) (wowo.Session, error) {
	return b.RenameSessionFn(ctx, sessionID, title)
}

// DeleteSession delegates to DeleteSessionFn.
func (b *Backend) DeleteSession(ctx context.Context, sessionID string) error {
	return b.DeleteSessionFn(ctx, sessionID)
}

// StreamChat delegates to StreamChatFn.
func (b *Backend) StreamChat(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
	return b.StreamChatFn(ctx, req)
}
