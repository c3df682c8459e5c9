package wowo

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving chunks.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern over a chunked text response.
// Cancellation flows through the context passed to Backend.StreamChat().
//
// Next() returns the next decoded text chunk, io.EOF on normal exhaustion,
// or a transport error. Chunk boundaries carry no meaning: the response is
// an unframed byte stream, and a multi-byte character split across reads is
// decoded whole once its remaining bytes arrive.
//
// Text() returns the full accumulated text so far. Callers that mirror the
// stream into a message log should apply Text() after each Next(), not the
// chunk itself: the log stores whole content, not fragments, so a repeated
// apply is a harmless no-op.
type Stream interface {
	Next() (string, error)
	State() StreamState
	Text() string
	Close() error
}
