package chat

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"storyloom/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClipboard records writes and can be told to fail.
type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("tty closed") }

// TestModelOption customizes NewTestModel.
type TestModelOption func(*Options)

func WithClipboard(cb Clipboard) TestModelOption {
	return func(o *Options) { o.Clipboard = cb }
}

func WithTerminal(w io.Writer) TestModelOption {
	return func(o *Options) { o.Terminal = w }
}

// NewTestModel builds a sized model with short timings and a fake clipboard.
func NewTestModel(opts ...TestModelOption) Model {
	cfg := config.DefaultConfig()
	cfg.Reveal.Interval = "10ms"
	cfg.Chat.ReplyDelay = "0s"
	cfg.UI.Theme = "dark"

	o := Options{
		Config:    cfg,
		Clipboard: &fakeClipboard{},
		Terminal:  &bytes.Buffer{},
		Now:       func() time.Time { return testNow },
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := New(o)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeAndSend enters text into the input and presses Enter.
func typeAndSend(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(text)
	return update(t, m, key(tea.KeyEnter))
}

// step fires the oldest pending reveal step.
func step(t *testing.T, m Model) (Model, bool) {
	t.Helper()
	ids := m.sched.PendingIDs()
	if len(ids) == 0 {
		return m, false
	}
	m, _ = update(t, m, revealTickMsg{id: ids[0]})
	return m, true
}

// drainReveals fires reveal steps until none are pending.
func drainReveals(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 10000; i++ {
		var ok bool
		if m, ok = step(t, m); !ok {
			return m
		}
	}
	t.Fatal("reveal steps never drained")
	return m
}

// collect runs cmd and flattens batches. Tick commands block for their
// duration, so tests keep timings short.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
