// Package stream demultiplexes a generation stream into its reasoning and
// answer channels. The model interleaves "thought summary" fragments with
// answer fragments in a single stream; consumers want them presented as two
// logically distinct outputs with a one-way fold from "still thinking" to
// "done thinking" at the first answer fragment.
package stream

import "strings"

// Fragment is one unit of text emitted by the generation stream.
type Fragment struct {
	Text    string
	Thought bool
}

// Callbacks receive the thought-channel side effects of multiplexing.
// Either callback may be nil. OnThoughtUpdate is invoked with the full
// accumulated thought text after every thought fragment, including any
// that arrive after the fold. OnFoldThoughts is invoked exactly once, when
// the first answer fragment arrives.
type Callbacks struct {
	OnThoughtUpdate func(thoughts string)
	OnFoldThoughts  func()
}

// Multiplexer accumulates fragments into separate answer and thought
// buffers. It is a single-pass state machine: feed fragments in arrival
// order via Consume and discard the Multiplexer when the stream ends.
// Not safe for concurrent use.
type Multiplexer struct {
	callbacks Callbacks
	answer    strings.Builder
	thoughts  strings.Builder
	folded    bool
}

// NewMultiplexer returns a Multiplexer with empty buffers.
func NewMultiplexer(cb Callbacks) *Multiplexer {
	return &Multiplexer{callbacks: cb}
}

// Consume processes one fragment and returns the answer increment to emit,
// or "" for thought and empty fragments.
//
// The first answer fragment fires OnFoldThoughts before its text is
// buffered or returned. The fold is one-way: thought fragments arriving
// afterwards still accumulate and still fire OnThoughtUpdate, but never
// re-fire the fold.
func (m *Multiplexer) Consume(f Fragment) string {
	if f.Text == "" {
		return ""
	}
	if f.Thought {
		m.thoughts.WriteString(f.Text)
		if m.callbacks.OnThoughtUpdate != nil {
			m.callbacks.OnThoughtUpdate(m.thoughts.String())
		}
		return ""
	}
	if !m.folded {
		m.folded = true
		if m.callbacks.OnFoldThoughts != nil {
			m.callbacks.OnFoldThoughts()
		}
	}
	m.answer.WriteString(f.Text)
	return f.Text
}

// Answer returns the concatenation of all answer fragments consumed so far.
func (m *Multiplexer) Answer() string { return m.answer.String() }

// Thoughts returns the concatenation of all thought fragments consumed so far.
func (m *Multiplexer) Thoughts() string { return m.thoughts.String() }

// Folded reports whether the first answer fragment has arrived.
func (m *Multiplexer) Folded() bool { return m.folded }
