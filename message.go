package wowo

// Message is a single entry in a conversation log. IDs are opaque: client
// generated for optimistic entries, server assigned once authoritative
// history is loaded. Content is mutable while an assistant message is
// streaming and immutable after that.
type Message struct {
	ID      string
	Role    Role
	Content string
}
