package demo

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
	}{
		{"a", tcell.KeyRune, 'a', tcell.ModNone},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone},
		{"Esc", tcell.KeyEscape, 0, tcell.ModNone},
		{"space", tcell.KeyRune, ' ', tcell.ModNone},
		{"ctrl+z", tcell.KeyCtrlZ, 0, tcell.ModCtrl},
		{"alt+1", tcell.KeyRune, '1', tcell.ModAlt},
		{"alt+enter", tcell.KeyEnter, 0, tcell.ModAlt},
		{"+", tcell.KeyRune, '+', tcell.ModNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := KeyEvent(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.key, ev.Key())
			if tt.key == tcell.KeyRune {
				assert.Equal(t, tt.r, ev.Rune())
			}
			assert.Equal(t, tt.mod, ev.Modifiers()&tt.mod)
		})
	}

	_, err := KeyEvent("hyper")
	assert.Error(t, err)
	_, err = KeyEvent("ctrl+1")
	assert.Error(t, err)
}

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(`
name: trip
commands:
  - type: key
    value: a
  - type: text
    value: Tickets
  - type: pause
    delay: 500
`))
	require.NoError(t, err)
	assert.Equal(t, "trip", s.Name)
	assert.Equal(t, defaultDelay, s.BaseDelay)
	assert.Equal(t, defaultVariance, s.BaseVariance)
	require.Len(t, s.Commands, 3)
	assert.Equal(t, 500, s.Commands[2].Delay)

	_, err = ParseScript([]byte(`{"commands": [{"type": "key", "value": "nope"}]}`))
	assert.ErrorContains(t, err, "command 1")
	_, err = ParseScript([]byte(`{"commands": [{"type": "mouse"}]}`))
	assert.ErrorContains(t, err, `unknown type "mouse"`)
}

func TestExampleParses(t *testing.T) {
	s, err := ParseScript([]byte(GenerateExample()))
	require.NoError(t, err)
	assert.Equal(t, 400, s.BaseDelay)
	assert.NotEmpty(t, s.Commands)
}

func TestPlay(t *testing.T) {
	var got []*tcell.EventKey
	p := NewPlayer(func(ev tcell.Event) error {
		got = append(got, ev.(*tcell.EventKey))
		return nil
	}, WithoutDelays(), WithSeed(1))

	s := &Script{Commands: []Command{
		{Type: "key", Value: "a"},
		{Type: "text", Value: "Hi\nx"},
		{Type: "pause"},
		{Type: "key", Value: "enter"},
	}}
	require.NoError(t, p.Play(context.Background(), s))

	require.Len(t, got, 6)
	assert.Equal(t, 'a', got[0].Rune())
	assert.Equal(t, 'H', got[1].Rune())
	assert.Equal(t, 'i', got[2].Rune())
	assert.Equal(t, tcell.KeyCtrlN, got[3].Key())
	assert.Equal(t, 'x', got[4].Rune())
	assert.Equal(t, tcell.KeyEnter, got[5].Key())
}

func TestPlayStops(t *testing.T) {
	posted := 0
	p := NewPlayer(func(tcell.Event) error { posted++; return nil }, WithoutDelays())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Play(ctx, &Script{Commands: []Command{{Type: "key", Value: "a"}}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, posted)

	broken := errors.New("screen gone")
	failing := NewPlayer(func(tcell.Event) error { return broken }, WithoutDelays())
	err = failing.Play(context.Background(), &Script{Commands: []Command{{Type: "key", Value: "a"}}})
	assert.ErrorIs(t, err, broken)

	full := 2
	retrying := NewPlayer(func(tcell.Event) error {
		if full > 0 {
			full--
			return tcell.ErrEventQFull
		}
		posted++
		return nil
	}, WithoutDelays())
	require.NoError(t, retrying.Play(context.Background(), &Script{Commands: []Command{{Type: "key", Value: "a"}}}))
	assert.Equal(t, 1, posted)
}

func TestDelayVariance(t *testing.T) {
	p := NewPlayer(nil, WithSeed(7))
	s := &Script{BaseDelay: 100, BaseVariance: 20}
	for i := 0; i < 50; i++ {
		d := p.delay(s, Command{})
		assert.GreaterOrEqual(t, d.Milliseconds(), int64(80))
		assert.Less(t, d.Milliseconds(), int64(120))
	}
	assert.Equal(t, int64(minDelay), p.delay(&Script{BaseDelay: 1}, Command{}).Milliseconds())
}
