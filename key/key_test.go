package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Event
		ok   bool
	}{
		{in: "a", want: Event{Char: 'a'}, ok: true},
		{in: "space", want: Event{Code: Space, Char: ' '}, ok: true},
		{in: "Page_Down", want: Event{Code: PageDown}, ok: true},
		{in: "ctrl+c", want: Event{Char: 'c', Modifiers: Ctrl}, ok: true},
		{in: "shift+alt+x", want: Event{Char: 'x', Modifiers: Shift | Alt}, ok: true},
		{in: "hyper+x", ok: false},
		{in: "nothing", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvent(t *testing.T) {
	ev := Rune('z')
	assert.True(t, ev.Printable())
	assert.False(t, ev.Chord())
	assert.Equal(t, "z", ev.String())

	ev = ev.With(Ctrl)
	assert.True(t, ev.Chord())
	assert.Equal(t, "ctrl+z", ev.String())

	assert.False(t, Rune('Z').With(Shift).Chord())
	assert.False(t, Press(Escape).Printable())
	assert.Equal(t, "escape", Press(Escape).String())
	assert.Equal(t, "shift+meta", (Shift | Meta).String())
}
