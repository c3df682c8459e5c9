// Package api implements [wowo.Backend] against the chat backend's HTTP API.
package api

import "time"

const (
	defaultBaseURL = "http://localhost:3000"

	loginPath    = "/api/auth/login"
	sessionsPath = "/api/chat/sessions"
	startPath    = "/api/chat/start"
	chatPath     = "/api/chat/"
	streamPath   = "/chat-stream"
)

type loginRequest struct {
	Name string `json:"name"`
}

type userDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type startRequest struct {
	UserID string `json:"userId"`
}

type startResponse struct {
	ID string `json:"id"`
}

// sessionDTO carries a session index entry. Title is null for untitled
// sessions.
type sessionDTO struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageDTO struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type streamRequest struct {
	Prompt    string `json:"prompt"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}
