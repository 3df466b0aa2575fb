// Package demo replays scripted keystrokes into the editor, for recordings
// and walkthroughs.
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Command represents a single demo command
type Command struct {
	Type     string `yaml:"type" json:"type"`         // "key", "text" or "pause"
	Value    string `yaml:"value" json:"value"`       // key name or text to type
	Delay    int    `yaml:"delay" json:"delay"`       // pause before the command in milliseconds
	Variance int    `yaml:"variance" json:"variance"` // random variance in ms (±variance)
}

// Script represents a demo script
type Script struct {
	Name         string    `yaml:"name" json:"name"`
	Description  string    `yaml:"description" json:"description"`
	Commands     []Command `yaml:"commands" json:"commands"`
	BaseDelay    int       `yaml:"base_delay" json:"base_delay"`
	BaseVariance int       `yaml:"base_variance" json:"base_variance"`
}

const (
	defaultDelay    = 300
	defaultVariance = 100
	minDelay        = 50
	queueRetry      = 10 * time.Millisecond
)

// LoadScript reads a script file. YAML and JSON are both accepted.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a script and validates every key name.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}
	if s.BaseDelay == 0 {
		s.BaseDelay = defaultDelay
	}
	if s.BaseVariance == 0 {
		s.BaseVariance = defaultVariance
	}
	for i, c := range s.Commands {
		switch c.Type {
		case "key":
			if _, err := KeyEvent(c.Value); err != nil {
				return nil, fmt.Errorf("command %d: %w", i+1, err)
			}
		case "text", "pause":
		default:
			return nil, fmt.Errorf("command %d: unknown type %q", i+1, c.Type)
		}
	}
	return &s, nil
}

// Player posts the events of a script.
type Player struct {
	post   func(tcell.Event) error
	rnd    *rand.Rand
	delays bool
}

// Option configures a Player.
type Option func(*Player)

// WithSeed makes the timing jitter repeatable.
func WithSeed(seed int64) Option {
	return func(p *Player) { p.rnd = rand.New(rand.NewSource(seed)) }
}

// WithoutDelays posts every event immediately.
func WithoutDelays() Option {
	return func(p *Player) { p.delays = false }
}

// NewPlayer returns a player posting events through post, typically a
// screen's PostEvent.
func NewPlayer(post func(tcell.Event) error, opts ...Option) *Player {
	p := &Player{
		post:   post,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		delays: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play runs the script until it ends or ctx is cancelled.
func (p *Player) Play(ctx context.Context, s *Script) error {
	for _, cmd := range s.Commands {
		if err := p.wait(ctx, p.delay(s, cmd)); err != nil {
			return err
		}
		switch cmd.Type {
		case "key":
			ev, err := KeyEvent(cmd.Value)
			if err != nil {
				return err
			}
			if err := p.send(ctx, ev); err != nil {
				return err
			}
		case "text":
			for _, r := range cmd.Value {
				if err := p.send(ctx, runeEvent(r)); err != nil {
					return err
				}
				if err := p.wait(ctx, time.Duration(30+p.rnd.Intn(40))*time.Millisecond); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// send posts ev, waiting while the event queue is full.
func (p *Player) send(ctx context.Context, ev tcell.Event) error {
	for {
		err := p.post(ev)
		if !errors.Is(err, tcell.ErrEventQFull) {
			return err
		}
		t := time.NewTimer(queueRetry)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// delay returns the pause before cmd with natural variance.
func (p *Player) delay(s *Script, cmd Command) time.Duration {
	delay, variance := cmd.Delay, cmd.Variance
	if delay == 0 {
		delay = s.BaseDelay
	}
	if variance == 0 {
		variance = s.BaseVariance
	}
	if variance > 0 {
		delay += p.rnd.Intn(variance*2) - variance
	}
	return time.Duration(max(delay, minDelay)) * time.Millisecond
}

func (p *Player) wait(ctx context.Context, d time.Duration) error {
	if !p.delays {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// runeEvent types r; a newline becomes Ctrl+N, the editor's line break.
func runeEvent(r rune) *tcell.EventKey {
	if r == '\n' {
		return tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl)
	}
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"space":     tcell.KeyRune,
}

// KeyEvent parses a key name such as "a", "enter", "ctrl+z" or "alt+1".
func KeyEvent(name string) (*tcell.EventKey, error) {
	mod := tcell.ModNone
	rest := name
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "ctrl+") && len(rest) > len("ctrl+"):
			mod |= tcell.ModCtrl
			rest = rest[len("ctrl+"):]
			continue
		case strings.HasPrefix(lower, "alt+") && len(rest) > len("alt+"):
			mod |= tcell.ModAlt
			rest = rest[len("alt+"):]
			continue
		case strings.HasPrefix(lower, "shift+") && len(rest) > len("shift+"):
			mod |= tcell.ModShift
			rest = rest[len("shift+"):]
			continue
		}
		break
	}

	if k, ok := namedKeys[strings.ToLower(rest)]; ok {
		if k == tcell.KeyRune {
			return tcell.NewEventKey(tcell.KeyRune, ' ', mod), nil
		}
		return tcell.NewEventKey(k, 0, mod), nil
	}
	r := []rune(rest)
	if len(r) != 1 {
		return nil, fmt.Errorf("unknown key %q", name)
	}
	if mod&tcell.ModCtrl != 0 {
		c := r[0] | 0x20
		if c < 'a' || c > 'z' {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(c-'a'), 0, mod), nil
	}
	return tcell.NewEventKey(tcell.KeyRune, r[0], mod), nil
}

// GenerateExample returns an example script in YAML.
func GenerateExample() string {
	script := Script{
		Name:         "Trip planning",
		Description:  "Builds a small map from the root",
		BaseDelay:    400,
		BaseVariance: 150,
		Commands: []Command{
			{Type: "key", Value: "h", Delay: 1000},
			{Type: "key", Value: "enter"},
			{Type: "text", Value: "Tickets"},
			{Type: "key", Value: "enter"},
			{Type: "text", Value: "Hotel"},
			{Type: "key", Value: "alt+enter"},
			{Type: "text", Value: "Check-in 15:00"},
			{Type: "key", Value: "esc"},
			{Type: "key", Value: "n", Delay: 600},
			{Type: "pause", Delay: 2000},
		},
	}
	data, _ := yaml.Marshal(script)
	return string(data)
}
