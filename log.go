package wowo

import (
	"sync"

	"github.com/google/uuid"
)

// Log is the ordered message sequence for the active session. It is mutated
// from several call sites (send flow, history load, reconciliation) so every
// mutation is either a total replacement or a keyed-by-id update; the mutex
// keeps interleaved completions from losing updates.
type Log struct {
	mu       sync.Mutex
	messages []Message
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// AppendTurn appends a user message with the given text and an empty
// assistant placeholder, in that order, and returns their ids. IDs are
// random UUIDs, so two ids appended in the same turn never collide.
func (l *Log) AppendTurn(userText string) (userID, assistantID string) {
	userID = uuid.NewString()
	assistantID = uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages,
		Message{ID: userID, Role: RoleUser, Content: userText},
		Message{ID: assistantID, Role: RoleAssistant, Content: ""},
	)
	return userID, assistantID
}

// SetAssistantContent replaces the content of the message matching id,
// leaving all other messages untouched. Called once per received chunk with
// the full accumulated text; repeated identical calls are no-ops. Unknown
// ids are ignored so stale stream updates land harmlessly after the log has
// been replaced or cleared.
func (l *Log) SetAssistantContent(id, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.messages {
		if l.messages[i].ID == id {
			l.messages[i].Content = content
			return
		}
	}
}

// ReplaceAll replaces the log wholesale with the authoritative message set,
// discarding any optimistic entries not present in it.
func (l *Log) ReplaceAll(messages []Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = make([]Message, len(messages))
	copy(l.messages, messages)
}

// Clear empties the log. Used when switching to "no session".
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// Messages returns a snapshot copy of the log.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
