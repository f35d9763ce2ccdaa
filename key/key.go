// Package key describes the abstract key events a session consumes. Mapping
// platform key codes onto them is up to the host.
package key

import (
	"strings"
	"unicode"
)

// Code identifies a non-printable key. Printable keys use None and carry
// their character in Event.Char.
type Code uint32

const (
	None Code = iota
	Space
	Return
	Escape
	BackSpace
	Tab
	Up
	Down
	Left
	Right
	PageUp
	PageDown
	Home
	End
)

var codeNames = map[Code]string{
	Space:     "space",
	Return:    "return",
	Escape:    "escape",
	BackSpace: "backspace",
	Tab:       "tab",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	PageUp:    "page_up",
	PageDown:  "page_down",
	Home:      "home",
	End:       "end",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "none"
}

// Modifier is a set of modifier flags.
type Modifier uint8

const (
	Shift Modifier = 1 << iota
	Ctrl
	Alt
	Meta
)

func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

func (m Modifier) String() string {
	var parts []string
	for _, f := range []struct {
		flag Modifier
		name string
	}{{Shift, "shift"}, {Ctrl, "ctrl"}, {Alt, "alt"}, {Meta, "meta"}} {
		if m.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "+")
}

type Event struct {
	Code      Code
	Char      rune
	Modifiers Modifier
}

// Rune returns the event of a printable key.
func Rune(r rune) Event {
	return Event{Char: r}
}

// Press returns the event of a named key. Space also carries its character.
func Press(c Code) Event {
	ev := Event{Code: c}
	if c == Space {
		ev.Char = ' '
	}
	return ev
}

// With returns ev with the modifiers added.
func (ev Event) With(m Modifier) Event {
	ev.Modifiers |= m
	return ev
}

// Printable reports whether the event carries a printable character.
func (ev Event) Printable() bool {
	return ev.Char != 0 && unicode.IsPrint(ev.Char)
}

// Chord reports whether Ctrl, Alt or Meta is held. Such keys are meant for
// the host, not for composition.
func (ev Event) Chord() bool {
	return ev.Modifiers&(Ctrl|Alt|Meta) != 0
}

func (ev Event) String() string {
	name := ev.Code.String()
	if ev.Code == None {
		name = string(ev.Char)
	}
	if ev.Modifiers != 0 {
		return ev.Modifiers.String() + "+" + name
	}
	return name
}

// Parse reads a textual key name such as "a", "space", "ctrl+c" or
// "page_down". It reports false for names it does not know.
func Parse(s string) (Event, bool) {
	parts := strings.Split(s, "+")
	var ev Event
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "shift":
			ev.Modifiers |= Shift
		case "ctrl", "control":
			ev.Modifiers |= Ctrl
		case "alt":
			ev.Modifiers |= Alt
		case "meta", "super":
			ev.Modifiers |= Meta
		default:
			return Event{}, false
		}
	}

	last := parts[len(parts)-1]
	if r := []rune(last); len(r) == 1 {
		ev.Char = r[0]
		if r[0] == ' ' {
			ev.Code = Space
		}
		return ev, true
	}
	for c, name := range codeNames {
		if strings.EqualFold(last, name) {
			pressed := Press(c)
			ev.Code, ev.Char = pressed.Code, pressed.Char
			return ev, true
		}
	}
	return Event{}, false
}
