package stages

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/kechako/pinyinime/doublepinyin"
	"github.com/kechako/pinyinime/key"
	"github.com/kechako/pinyinime/pipeline"
)

// asciiComposer hands chords (Ctrl, Alt, Meta) back to the host.
type asciiComposer struct{}

func newASCIIComposer(*pipeline.Deps) (pipeline.Processor, error) {
	return asciiComposer{}, nil
}

func (asciiComposer) ProcessKey(_ pipeline.Editor, ev key.Event) pipeline.Result {
	if ev.Chord() {
		return pipeline.Rejected
	}
	return pipeline.Noop
}

// spellerProcessor appends alphabet keys to the raw input.
type spellerProcessor struct {
	alphabet  string
	delimiter string
	layout    *doublepinyin.Scheme
}

func newSpeller(deps *pipeline.Deps) (pipeline.Processor, error) {
	layout, err := deps.Schema.DoublePinyinLayout()
	if err != nil {
		return nil, err
	}
	return &spellerProcessor{
		alphabet:  deps.Schema.Alphabet(),
		delimiter: strings.ReplaceAll(deps.Schema.Speller.Delimiter, " ", ""),
		layout:    layout,
	}, nil
}

// fold maps full-width forms onto ASCII.
func fold(r rune) rune {
	s := width.Narrow.String(string(r))
	folded, _ := utf8.DecodeRuneInString(s)
	return folded
}

func (p *spellerProcessor) ProcessKey(ed pipeline.Editor, ev key.Event) pipeline.Result {
	if ev.Code != key.None || ev.Chord() || !ev.Printable() {
		return pipeline.Noop
	}

	c := fold(ev.Char)
	switch {
	case strings.ContainsRune(p.alphabet, c):
	case !ed.Composing():
		return pipeline.Noop
	case strings.ContainsRune(p.delimiter, c):
	case p.layout != nil && c < utf8.RuneSelf && p.layout.IsKey(byte(c)):
	default:
		return pipeline.Noop
	}

	ed.Append(string(c))
	return pipeline.Accepted
}

// selector moves through the candidate menu and picks by digit.
type selector struct{}

func newSelector(*pipeline.Deps) (pipeline.Processor, error) {
	return selector{}, nil
}

func (selector) ProcessKey(ed pipeline.Editor, ev key.Event) pipeline.Result {
	if !ed.Composing() || ev.Chord() {
		return pipeline.Noop
	}

	switch ev.Code {
	case key.Up:
		ed.Prev()
	case key.Down:
		ed.Next()
	case key.PageUp:
		ed.PageUp()
	case key.PageDown:
		ed.PageDown()
	case key.None:
		switch c := fold(ev.Char); {
		case c == '-':
			ed.PageUp()
		case c == '=':
			ed.PageDown()
		case c >= '1' && c <= '9':
			if !ed.Select(int(c - '1')) {
				return pipeline.Noop
			}
		default:
			return pipeline.Noop
		}
	default:
		return pipeline.Noop
	}
	return pipeline.Accepted
}

// expressEditor commits, cancels and deletes.
type expressEditor struct{}

func newExpressEditor(*pipeline.Deps) (pipeline.Processor, error) {
	return expressEditor{}, nil
}

func (expressEditor) ProcessKey(ed pipeline.Editor, ev key.Event) pipeline.Result {
	if !ed.Composing() || ev.Chord() {
		return pipeline.Noop
	}

	code := ev.Code
	if code == key.None && ev.Char == ' ' {
		code = key.Space
	}
	switch code {
	case key.Space:
		ed.Commit()
	case key.Return:
		ed.CommitRaw()
	case key.Escape:
		ed.Cancel()
	case key.BackSpace:
		ed.Backspace()
	default:
		return pipeline.Noop
	}
	return pipeline.Accepted
}
