package pinyinime

import (
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/key"
	"github.com/kechako/pinyinime/pipeline"
	"github.com/kechako/pinyinime/schema"
)

// KeyEvent is an abstract key press.
type KeyEvent = key.Event

type State int

const (
	Idle State = iota
	Composing
	Selecting
)

func (s State) String() string {
	switch s {
	case Composing:
		return "composing"
	case Selecting:
		return "selecting"
	}
	return "idle"
}

// Segment is the run of keystrokes being edited and its candidates.
type Segment struct {
	Raw string
	// Confirmed is set when the segment is committed.
	Confirmed  string
	Candidates candidate.List
	// Selected is always a valid index while Candidates is not empty.
	Selected int
}

// Session is one composition context. Its buffer holds committed fragments
// followed by at most one active segment; only the active segment changes.
// A Session must not be shared between goroutines.
type Session struct {
	engine    *Engine
	installed *installed
	options   map[string]bool

	committed []string
	active    *Segment
	last      *Segment
	state     State
}

var _ pipeline.Editor = (*Session)(nil)

// sync adopts the engine's current scheme, resetting the session if it
// changed since the last call.
func (s *Session) sync() *pipeline.Pipeline {
	cur := s.engine.current.Load()
	if cur != s.installed {
		s.installed = cur
		s.reset()
		if cur != nil {
			s.options = cur.pipeline.Schema().Options()
		}
	}
	if cur == nil {
		return nil
	}
	return cur.pipeline
}

func (s *Session) reset() {
	s.committed = nil
	s.active = nil
	s.last = nil
	s.state = Idle
	s.options = nil
}

func (s *Session) logger() log.FieldLogger {
	l := s.engine.logger
	if s.installed != nil {
		l = l.WithField("schema", s.installed.pipeline.Schema().ID())
	}
	return l
}

// ProcessKey runs ev through the scheme's processors. It reports whether
// the key was consumed; a rejected or unhandled key belongs to the host.
func (s *Session) ProcessKey(ev KeyEvent) bool {
	p := s.sync()
	if p == nil {
		return false
	}
	s.engine.metrics.Keystroke()
	return p.ProcessKey(s, ev) == pipeline.Accepted
}

func (s *Session) State() State {
	return s.state
}

// Composing reports whether a segment is active.
func (s *Session) Composing() bool {
	return s.active != nil
}

// Raw returns the raw input of the active segment.
func (s *Session) Raw() string {
	if s.active == nil {
		return ""
	}
	return s.active.Raw
}

// Segment returns a copy of the active segment.
func (s *Session) Segment() (Segment, bool) {
	if s.active == nil {
		return Segment{}, false
	}
	seg := *s.active
	seg.Candidates = append(candidate.List(nil), s.active.Candidates...)
	return seg, true
}

// LastCommitted returns a copy of the most recently committed segment. Its
// Raw is the part of the input the committed text covered.
func (s *Session) LastCommitted() (Segment, bool) {
	if s.last == nil {
		return Segment{}, false
	}
	seg := *s.last
	seg.Candidates = append(candidate.List(nil), s.last.Candidates...)
	return seg, true
}

// Candidates returns the candidate list of the active segment. It must not
// be modified.
func (s *Session) Candidates() candidate.List {
	if s.active == nil {
		return nil
	}
	return s.active.Candidates
}

func (s *Session) Selected() int {
	if s.active == nil {
		return 0
	}
	return s.active.Selected
}

func (s *Session) PageSize() int {
	if s.installed != nil {
		if n := s.installed.pipeline.Schema().Menu.PageSize; n > 0 {
			return n
		}
	}
	if s.engine.pageSize > 0 {
		return s.engine.pageSize
	}
	return schema.DefaultPageSize
}

// Page returns the page holding the selection and its index.
func (s *Session) Page() (candidate.List, int) {
	if s.active == nil {
		return nil, 0
	}
	size := s.PageSize()
	page := s.active.Selected / size
	return s.active.Candidates.Page(page, size), page
}

// Committed returns the committed fragments in order.
func (s *Session) Committed() []string {
	return append([]string(nil), s.committed...)
}

// Flush returns the committed text and empties the buffer. The active
// segment is kept.
func (s *Session) Flush() string {
	text := strings.Join(s.committed, "")
	s.committed = nil
	return text
}

func (s *Session) Option(name string) bool {
	return s.options[name]
}

// SetOption switches an option on or off and refreshes the candidates.
func (s *Session) SetOption(name string, on bool) {
	p := s.sync()
	if s.options == nil {
		s.options = make(map[string]bool)
	}
	s.options[name] = on
	if p != nil && s.active != nil {
		s.refresh(p)
	}
}

// Append adds keystrokes to the active segment, starting one if idle, and
// rebuilds its candidates.
func (s *Session) Append(input string) {
	p := s.sync()
	if p == nil || input == "" {
		return
	}
	if s.active == nil {
		s.active = &Segment{}
	}
	s.active.Raw += input
	s.state = Composing
	s.refresh(p)
}

// Backspace removes the last keystroke. An emptied segment is dropped.
func (s *Session) Backspace() bool {
	p := s.sync()
	if s.active == nil {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(s.active.Raw)
	s.active.Raw = s.active.Raw[:len(s.active.Raw)-size]
	if s.active.Raw == "" {
		s.Cancel()
		return true
	}
	s.state = Composing
	s.refresh(p)
	return true
}

func (s *Session) refresh(p *pipeline.Pipeline) {
	ctx := &pipeline.Context{Input: s.active.Raw, Options: s.options}
	s.active.Candidates = p.Run(ctx)
	s.active.Selected = 0
}

func (s *Session) move(delta int) {
	s.sync()
	if s.active == nil {
		return
	}
	s.state = Selecting

	n := len(s.active.Candidates)
	if n == 0 {
		return
	}
	i := s.active.Selected + delta
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	s.active.Selected = i
}

// Next moves the selection down, stopping at the last candidate.
func (s *Session) Next() {
	s.move(1)
}

// Prev moves the selection up, stopping at the first candidate.
func (s *Session) Prev() {
	s.move(-1)
}

func (s *Session) PageDown() {
	s.move(s.PageSize())
}

func (s *Session) PageUp() {
	s.move(-s.PageSize())
}

// Select commits the candidate at index i of the current page.
func (s *Session) Select(i int) bool {
	s.sync()
	if s.active == nil || i < 0 || i >= s.PageSize() {
		return false
	}
	size := s.PageSize()
	idx := s.active.Selected/size*size + i
	if idx >= len(s.active.Candidates) {
		return false
	}
	s.active.Selected = idx
	return s.Commit()
}

// Commit confirms the selected candidate, or the raw input when there is
// none. If the candidate covers only part of the input, the rest becomes a
// new active segment.
func (s *Session) Commit() bool {
	s.sync()
	if s.active == nil {
		return false
	}
	c, ok := s.active.Candidates.At(s.active.Selected)
	if !ok {
		return s.CommitRaw()
	}
	n := c.Covers(len(s.active.Raw))
	s.confirm(c.Text, s.active.Raw[n:], "candidate")
	return true
}

// CommitRaw confirms the raw input verbatim.
func (s *Session) CommitRaw() bool {
	s.sync()
	if s.active == nil {
		return false
	}
	s.confirm(s.active.Raw, "", "literal")
	return true
}

func (s *Session) confirm(text, rest, kind string) {
	s.active.Confirmed = text
	s.active.Raw = s.active.Raw[:len(s.active.Raw)-len(rest)]
	s.last = s.active
	s.committed = append(s.committed, text)
	s.engine.metrics.Commit(kind)
	s.logger().WithFields(log.Fields{
		"input": s.active.Raw,
		"text":  text,
		"kind":  kind,
	}).Debug("commit")

	s.active = nil
	s.state = Idle
	if rest != "" {
		s.Append(rest)
	}
}

// Cancel drops the active segment. Committed text is kept.
func (s *Session) Cancel() {
	s.active = nil
	s.state = Idle
}
