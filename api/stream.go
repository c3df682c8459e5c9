package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/opensawit/wowo"
)

const readBufSize = 4096

// Interface compliance check.
var _ wowo.Stream = (*stream)(nil)

// stream implements [wowo.Stream] over a raw chunked text response body.
//
// The body carries no framing: reads land on arbitrary byte boundaries, so
// a multi-byte UTF-8 character can be split across two reads. Decoding is
// stateful: the trailing bytes of an incomplete character are carried over
// and prepended to the next read. A stateless per-chunk decode would emit
// replacement characters at every split boundary.
type stream struct {
	body  io.ReadCloser
	ctx   context.Context
	state wowo.StreamState
	buf   []byte
	carry []byte // trailing bytes of an incomplete rune
	text  strings.Builder
	err   error // terminal error, if any
}

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:  body,
		ctx:   ctx,
		state: wowo.StreamStateNew,
		buf:   make([]byte, readBufSize),
	}
}

// Next returns the next decoded text chunk. It returns io.EOF when the
// stream is exhausted, which is the only termination signal the protocol
// has.
func (s *stream) Next() (string, error) {
	switch s.state {
	case wowo.StreamStateComplete:
		return "", io.EOF
	case wowo.StreamStateError:
		return "", s.err
	case wowo.StreamStateClosed:
		return "", wowo.ErrStreamClosed
	}

	for {
		n, err := s.body.Read(s.buf)
		var chunk string
		if n > 0 {
			s.state = wowo.StreamStateStreaming
			chunk = s.decode(s.buf[:n])
		}

		switch {
		case err == io.EOF:
			chunk += s.flushCarry()
			s.state = wowo.StreamStateComplete
			if chunk == "" {
				return "", io.EOF
			}
			s.text.WriteString(chunk)
			return chunk, nil
		case err != nil:
			s.terminate(err)
			return "", s.err
		}

		if chunk == "" {
			// The read produced only the head of a split character; it is
			// carried, keep reading.
			continue
		}
		s.text.WriteString(chunk)
		return chunk, nil
	}
}

// State returns the current stream state.
func (s *stream) State() wowo.StreamState {
	return s.state
}

// Text returns the full accumulated text decoded so far.
func (s *stream) Text() string {
	return s.text.String()
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != wowo.StreamStateComplete && s.state != wowo.StreamStateError {
		s.state = wowo.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error.
func (s *stream) terminate(err error) {
	s.state = wowo.StreamStateError
	if s.ctx.Err() != nil {
		s.err = s.ctx.Err()
		return
	}
	s.err = fmt.Errorf("api: read stream: %w", err)
}

// decode prepends the carried bytes to p and returns the longest prefix of
// whole characters, carrying any incomplete trailing character for the next
// read. Invalid sequences decode to U+FFFD, matching lenient text-decoder
// behavior.
func (s *stream) decode(p []byte) string {
	b := make([]byte, 0, len(s.carry)+len(p))
	b = append(b, s.carry...)
	b = append(b, p...)
	s.carry = s.carry[:0]

	cut := len(b)
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(b) {
		s.carry = append(s.carry, b[cut:]...)
	}
	return strings.ToValidUTF8(string(b[:cut]), string(utf8.RuneError))
}

// flushCarry drains carried bytes at end of stream. A character that never
// completed decodes to U+FFFD rather than being dropped.
func (s *stream) flushCarry() string {
	if len(s.carry) == 0 {
		return ""
	}
	out := strings.ToValidUTF8(string(s.carry), string(utf8.RuneError))
	s.carry = nil
	return out
}
