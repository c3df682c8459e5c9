// Package state persists the client's durable local state: the logged-in
// user and the active session id. This is the explicit replacement for the
// browser client's ad hoc localStorage keys; it is loaded once at startup
// and saved on every login, logout, and session change.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opensawit/wowo"
)

// State is the durable client state. Zero value means logged out with no
// active session.
type State struct {
	User      wowo.User
	SessionID string
}

// envelope is the v1 wire format for persisted state.
type envelope struct {
	Version   int      `json:"version"`
	User      *userDTO `json:"user,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

type userDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Marshal serializes State to JSON in v1 envelope format.
func Marshal(s State) ([]byte, error) {
	env := envelope{Version: 1, SessionID: s.SessionID}
	if s.User.Valid() {
		env.User = &userDTO{ID: s.User.ID, Name: s.User.Name}
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes State from JSON in v1 envelope format. A stored
// user missing either field is ignored rather than rejected, so a corrupt
// entry degrades to the logged-out state.
func Unmarshal(data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return State{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	var s State
	if env.User != nil {
		u := wowo.User{ID: env.User.ID, Name: env.User.Name}
		if u.Valid() {
			s.User = u
		}
	}
	s.SessionID = env.SessionID
	return s, nil
}

// Save writes State to a JSON file, creating parent directories as needed.
// The write is atomic: a temp file is renamed into place.
func Save(path string, s State) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads State from a JSON file. A missing file is the logged-out state,
// not an error.
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data)
}

// DefaultPath returns the default state file location under the user's home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".wowo", "state.json")
}
