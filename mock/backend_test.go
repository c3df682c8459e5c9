package mock_test

import (
	"context"
	"testing"

	"github.com/opensawit/wowo"
	"github.com/opensawit/wowo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_DelegatesToFns(t *testing.T) {
	t.Parallel()

	b := mock.Backend{
		LoginFn: func(ctx context.Context, name string) (wowo.User, error) {
			return wowo.User{ID: "u1", Name: name}, nil
		},
		StartSessionFn: func(ctx context.Context, userID string) (string, error) {
			return "S1", nil
		},
	}

	user, err := b.Login(context.Background(), "wowo")
	require.NoError(t, err)
	assert.Equal(t, wowo.User{ID: "u1", Name: "wowo"}, user)

	id, err := b.StartSession(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "S1", id)
}

func TestBackend_PanicsWhenFnNotSet(t *testing.T) {
	t.Parallel()

	b := mock.Backend{}
	assert.Panics(t, func() {
		_, _ = b.Sessions(context.Background(), "u1")
	})
	assert.Panics(t, func() {
		_ = b.DeleteSession(context.Background(), "S1")
	})
}
