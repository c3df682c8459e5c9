package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/opensawit/wowo"
)

// Interface compliance check.
var _ wowo.Backend = (*Client)(nil)

// Client implements [wowo.Backend] over the backend's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new [Client] for the given base URL. An empty base URL
// selects the default local backend.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login establishes a user from a display name.
func (c *Client) Login(ctx context.Context, name string) (wowo.User, error) {
	var dto userDTO
	if err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Name: name}, &dto); err != nil {
		return wowo.User{}, err
	}
	if dto.ID == "" || dto.Name == "" {
		return wowo.User{}, fmt.Errorf("api: malformed login response")
	}
	return wowo.User{ID: dto.ID, Name: dto.Name}, nil
}

// Sessions returns the session index for a user.
func (c *Client) Sessions(ctx context.Context, userID string) ([]wowo.Session, error) {
	path := sessionsPath + "?userId=" + url.QueryEscape(userID)
	var dtos []sessionDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	sessions := make([]wowo.Session, len(dtos))
	for i, dto := range dtos {
		sessions[i] = dto.toSession()
	}
	return sessions, nil
}

// StartSession creates a new session for the user and returns its id.
func (c *Client) StartSession(ctx context.Context, userID string) (string, error) {
	var dto startResponse
	if err := c.do(ctx, http.MethodPost, startPath, startRequest{UserID: userID}, &dto); err != nil {
		return "", err
	}
	if dto.ID == "" {
		return "", fmt.Errorf("api: start response missing session id")
	}
	return dto.ID, nil
}

// History returns the authoritative message log for a session.
func (c *Client) History(ctx context.Context, sessionID string) ([]wowo.Message, error) {
	var dtos []messageDTO
	if err := c.do(ctx, http.MethodGet, chatPath+url.PathEscape(sessionID), nil, &dtos); err != nil {
		return nil, err
	}
	messages := make([]wowo.Message, len(dtos))
	for i, dto := range dtos {
		messages[i] = wowo.Message{ID: dto.ID, Role: wowo.Role(dto.Role), Content: dto.Content}
	}
	return messages, nil
}

// RenameSession sets a session's title and returns the updated entry.
func (c *Client) RenameSession(ctx context.Context, sessionID, title string) (wowo.Session, error) {
	path := chatPath + url.PathEscape(sessionID) + "/title"
	var dto sessionDTO
	if err := c.do(ctx, http.MethodPatch, path, renameRequest{Title: title}, &dto); err != nil {
		return wowo.Session{}, err
	}
	return dto.toSession(), nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, chatPath+url.PathEscape(sessionID), nil, nil)
}

// StreamChat sends a prompt and returns the response body as a [wowo.Stream]
// of incrementally decoded text chunks.
func (c *Client) StreamChat(ctx context.Context, req wowo.StreamRequest) (wowo.Stream, error) {
	body, err := json.Marshal(streamRequest{
		Prompt:    req.Prompt,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, httpError(resp)
	}

	return newStream(ctx, resp.Body), nil
}

// do issues a JSON request and decodes the response into out when non-nil.
// Any non-2xx status is an error carrying a body excerpt.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// httpError builds an error from a non-2xx response, keeping a short body
// excerpt for diagnostics.
func httpError(resp *http.Response) error {
	excerpt, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return fmt.Errorf("api: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	if len(excerpt) == 0 {
		return fmt.Errorf("api: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
}

func (dto sessionDTO) toSession() wowo.Session {
	s := wowo.Session{ID: dto.ID, CreatedAt: dto.CreatedAt}
	if dto.Title != nil {
		s.Title = *dto.Title
	}
	return s
}
