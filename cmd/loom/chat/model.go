// Package chat implements the interactive narrative chat: the player types,
// the narrator answers after a short delay, and each answer is typed out
// character by character.
package chat

import (
	"context"
	"os"
	"time"

	"storyloom/cmd/loom/ui"
	"storyloom/internal/config"
	"storyloom/internal/logging"
	"storyloom/internal/reveal"
	"storyloom/internal/story"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// New creates the chat model. Nil options fall back to defaults.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sc := opts.Scenario
	if sc == nil {
		var err error
		if sc, err = story.DefaultScenario(); err != nil {
			logging.Get(logging.CategoryChat).Error("default scenario: %v", err)
			sc = &story.Scenario{}
		}
	}
	narrator := opts.Narrator
	if narrator == nil {
		narrator = story.EchoNarrator{}
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = systemClipboard{}
	}
	term := opts.Terminal
	if term == nil {
		term = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	ta := textarea.New()
	ta.Placeholder = cfg.Chat.Placeholder
	ta.Focus()
	ta.Prompt = "› "
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(60, 20)
	vp.SetContent("")

	sched := NewTickScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		cfg:       cfg,
		styles:    styles,
		layout:    ui.NewLayoutConfig(80, 24, cfg.UI.ShowCards),
		textarea:  ta,
		viewport:  vp,
		spinner:   sp,
		renderer:  ui.NewMarkdownRenderer(styles.Theme, ui.CardsColumnWidth-4),
		cache:     ui.NewRenderCache(256),
		scenario:  sc,
		narrator:  narrator,
		clipboard: cb,
		term:      term,
		now:       now,
		sched:     sched,
		revealer:  reveal.New(sched),
		reveals:   make(map[uuid.UUID]*activeReveal),
		selected:  -1,
		lingering: make(map[uuid.UUID]int),
		showCards: cfg.UI.ShowCards,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	logging.Boot("chat started (interval=%s, reply delay=%s)", m.cfg.GetRevealInterval(), m.cfg.GetReplyDelay())
	return tea.Batch(
		textarea.Blink,
		tea.EnableBracketedPaste,
	)
}

// Messages returns a copy of the message history.
func (m Model) Messages() []Message {
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Animating reports how many messages are still being typed out.
func (m Model) Animating() int {
	return len(m.reveals)
}

// Shutdown cancels every live reveal and any pending narrator request. It is
// safe to call more than once.
func (m Model) Shutdown() {
	for id, ar := range m.reveals {
		ar.task.Cancel()
		delete(m.reveals, id)
	}
	m.cancel()
	logging.Chat("chat shut down")
}

func (m Model) indexOf(id uuid.UUID) int {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// appendMessage adds a message and returns its id. Narrator messages start
// typing; user messages are stored completed.
func (m *Model) appendMessage(sender Sender, text string) uuid.UUID {
	msg := Message{
		ID:     uuid.New(),
		Text:   text,
		Sender: sender,
		Status: StatusCompleted,
		Time:   m.now(),
	}
	if sender == SenderNarrator {
		msg.Status = StatusTyping
	}
	m.messages = append(m.messages, msg)
	if msg.Status == StatusTyping {
		m.startReveal(msg.ID, text)
	}
	return msg.ID
}

// startReveal (re)starts the typing animation for a message slot. A running
// animation in the same slot is cancelled first.
func (m *Model) startReveal(id uuid.UUID, text string) {
	if old, ok := m.reveals[id]; ok {
		old.task.Cancel()
		delete(m.reveals, id)
	}

	ar := &activeReveal{}
	task, err := m.revealer.Start(text, m.cfg.GetRevealInterval(),
		func(prefix string) { ar.prefix = prefix },
		func() { ar.completed = true },
	)
	if err != nil {
		logging.Get(logging.CategoryChat).Error("reveal for %s: %v", id, err)
		if i := m.indexOf(id); i >= 0 {
			m.messages[i].Status = StatusCompleted
		}
		return
	}
	ar.task = task
	m.reveals[id] = ar
	logging.ChatDebug("reveal started for %s (%d chars)", id, len([]rune(text)))
}

// reviseMessage replaces a message's text. A message still typing restarts
// its animation; a completed one is updated in place.
func (m *Model) reviseMessage(id uuid.UUID, text string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.messages[i].Text = text
	if m.messages[i].Status == StatusTyping {
		m.startReveal(id, text)
	}
	return true
}

// syncReveals flips finished animations to completed and forgets their handles.
func (m *Model) syncReveals() {
	for id, ar := range m.reveals {
		if !ar.completed {
			continue
		}
		if i := m.indexOf(id); i >= 0 {
			m.messages[i].Status = StatusCompleted
		}
		delete(m.reveals, id)
		logging.ChatDebug("reveal completed for %s", id)
	}
}

// replyCmd asks the narrator for an answer once the reply delay elapsed.
func (m Model) replyCmd(input string) tea.Cmd {
	ctx := m.ctx
	narrator := m.narrator
	return tea.Tick(m.cfg.GetReplyDelay(), func(time.Time) tea.Msg {
		text, err := narrator.Respond(ctx, input)
		return replyMsg{text: text, err: err}
	})
}

// applyConfig swaps in a reloaded configuration. Running animations keep
// their interval; new messages use the new one.
func (m *Model) applyConfig(cfg *config.Config) {
	themeChanged := cfg.UI.Theme != m.cfg.UI.Theme
	m.cfg = cfg
	m.textarea.Placeholder = cfg.Chat.Placeholder
	m.showCards = cfg.UI.ShowCards
	if themeChanged {
		m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
		m.spinner.Style = m.styles.Spinner
		m.cache.Clear()
	}
	m.resize(m.width, m.height)
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width, m.height = width, height
	m.layout = ui.NewLayoutConfig(width, height, m.showCards)

	m.viewport.Width = m.layout.ChatWidth()
	m.viewport.Height = m.layout.ChatHeight()
	m.textarea.SetWidth(m.layout.ChatWidth() - 4)
	m.renderer = ui.NewMarkdownRenderer(m.styles.Theme, ui.PanelContentWidth(ui.CardsColumnWidth))
	m.ready = true
	m.refresh()
}

// refresh re-renders the history and scrolls to the newest message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
