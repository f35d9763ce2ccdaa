// Package pipeline wires the stages a schema declares into one executable
// pipeline and defines the contracts those stages implement.
package pipeline

import (
	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/key"
	"github.com/kechako/pinyinime/speller"
)

// Result is the outcome of a processor for one key.
type Result int

const (
	// Noop passes the key to the next processor.
	Noop Result = iota
	// Rejected hands the key back to the host.
	Rejected
	// Accepted consumes the key.
	Accepted
)

func (r Result) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	}
	return "noop"
}

// Editor is the view of a composition session that processors act on.
type Editor interface {
	// Composing reports whether a segment is being edited.
	Composing() bool
	Raw() string
	Append(s string)
	Backspace() bool
	Next()
	Prev()
	PageUp()
	PageDown()
	// Select commits the candidate at index i of the current page.
	Select(i int) bool
	Commit() bool
	CommitRaw() bool
	Cancel()
}

// Context carries one translation round through the pipeline.
type Context struct {
	Input string
	// Splits is filled by the segmentors.
	Splits []speller.Split
	// Options holds the switch states of the session.
	Options map[string]bool
}

// Option reports the state of a switch.
func (ctx *Context) Option(name string) bool {
	return ctx.Options[name]
}

type Processor interface {
	ProcessKey(ed Editor, ev key.Event) Result
}

type Segmentor interface {
	Segment(input string) []speller.Split
}

type Translator interface {
	Translate(ctx *Context) []candidate.Candidate
}

// Filter rewrites a ranked list. It may reorder or annotate candidates but
// must return every one of them.
type Filter interface {
	Filter(ctx *Context, list candidate.List) candidate.List
}
