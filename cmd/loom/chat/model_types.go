package chat

import (
	"context"
	"io"
	"time"

	"storyloom/cmd/loom/ui"
	"storyloom/internal/config"
	"storyloom/internal/reveal"
	"storyloom/internal/story"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderNarrator
)

func (s Sender) String() string {
	if s == SenderNarrator {
		return "narrator"
	}
	return "user"
}

// MessageStatus tracks whether a message is still being typed out.
type MessageStatus int

const (
	StatusTyping MessageStatus = iota
	StatusCompleted
)

func (s MessageStatus) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "typing"
}

// Message represents a single chat message.
type Message struct {
	ID     uuid.UUID
	Text   string
	Sender Sender
	Status MessageStatus
	Time   time.Time
}

// activeReveal is the per-message typing state. The reveal callbacks write
// into it; Update reads it back after each fired step.
type activeReveal struct {
	task      *reveal.Task
	prefix    string
	completed bool
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Options configures a chat Model.
type Options struct {
	Config    *config.Config
	Scenario  *story.Scenario
	Narrator  story.Narrator
	Clipboard Clipboard
	// Terminal receives the OSC52 copy fallback. Defaults to stderr.
	Terminal io.Writer
	// Now overrides time.Now for message timestamps.
	Now func() time.Time
}

// Model is the bubbletea model for the narrative chat.
type Model struct {
	cfg      *config.Config
	styles   ui.Styles
	layout   ui.LayoutConfig
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	cache    *ui.RenderCache

	scenario  *story.Scenario
	narrator  story.Narrator
	clipboard Clipboard
	term      io.Writer
	now       func() time.Time

	sched    *TickScheduler
	revealer *reveal.Revealer
	reveals  map[uuid.UUID]*activeReveal

	messages       []Message
	pendingReplies int

	// selected is the index of the keyboard-selected message, -1 for none.
	selected int
	// lingering keeps user-message actions visible after deselection until
	// the hide tick with the matching generation arrives.
	lingering map[uuid.UUID]int
	hideGen   int

	copiedID  uuid.UUID
	copiedGen int
	notice    string

	showCards  bool
	showSkills bool

	width  int
	height int
	ready  bool

	ctx    context.Context
	cancel context.CancelFunc
}

// replyMsg carries the narrator's answer to a player message.
type replyMsg struct {
	text string
	err  error
}

// actionsHideMsg hides a deselected user message's actions.
type actionsHideMsg struct {
	id  uuid.UUID
	gen int
}

// copiedResetMsg clears the "Copied" state.
type copiedResetMsg struct {
	gen int
}

// copyResultMsg reports the outcome of a copy action.
type copyResultMsg struct {
	id     uuid.UUID
	method string
	err    error
}

// ConfigReloadedMsg is sent by the config watcher after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
