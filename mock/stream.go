package mock

import (
	"io"
	"strings"

	"github.com/opensawit/wowo"
)

// Interface compliance check.
var _ wowo.Stream = (*Stream)(nil)

// Stream is a test double for wowo.Stream. NextFn panics when nil to catch
// missing setup. StateFn and CloseFn are nil-safe (zero value and no-op)
// because test code commonly calls defer stream.Close() and these methods
// rarely need custom behavior. TextFn defaults to the concatenation of every
// chunk NextFn has returned so far, matching real stream accumulation.
type Stream struct {
	NextFn  func() (string, error)
	StateFn func() wowo.StreamState
	TextFn  func() string
	CloseFn func() error

	acc strings.Builder
}

// Next delegates to NextFn, accumulating returned chunks for Text.
func (s *Stream) Next() (string, error) {
	chunk, err := s.NextFn()
	if err == nil {
		s.acc.WriteString(chunk)
	}
	return chunk, err
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() wowo.StreamState {
	if s.StateFn == nil {
		return wowo.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn, or returns the accumulated chunks when nil.
func (s *Stream) Text() string {
	if s.TextFn == nil {
		return s.acc.String()
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Chunks returns a Stream that yields the given chunks in order and then
// io.EOF. Handy for scripted streaming scenarios.
func Chunks(chunks ...string) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (string, error) {
			if i >= len(chunks) {
				return "", io.EOF
			}
			chunk := chunks[i]
			i++
			return chunk, nil
		},
	}
}
