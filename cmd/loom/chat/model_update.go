package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storyloom/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// ReviseMsg replaces the text of an existing message.
type ReviseMsg struct {
	ID   uuid.UUID
	Text string
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			m.Shutdown()
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case revealTickMsg:
		if m.sched.Fire(msg.id) {
			m.syncReveals()
			m.refresh()
		}

	case replyMsg:
		if m.pendingReplies > 0 {
			m.pendingReplies--
		}
		switch {
		case errors.Is(msg.err, context.Canceled):
		case msg.err != nil:
			logging.Get(logging.CategoryChat).Error("narrator: %v", msg.err)
			m.notice = "The narrator is silent: " + msg.err.Error()
		default:
			m.appendMessage(SenderNarrator, msg.text)
		}
		m.refresh()

	case ReviseMsg:
		if m.reviseMessage(msg.ID, msg.Text) {
			m.refresh()
		}

	case actionsHideMsg:
		if gen, ok := m.lingering[msg.id]; ok && gen == msg.gen {
			delete(m.lingering, msg.id)
			m.refresh()
		}

	case copyResultMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
			m.copiedID = msg.id
			m.copiedGen++
			gen := m.copiedGen
			cmds = append(cmds, tea.Tick(m.cfg.GetCopiedResetDelay(), func(time.Time) tea.Msg {
				return copiedResetMsg{gen: gen}
			}))
			logging.Get(logging.CategoryClipboard).Info("copied message %s via %s", msg.id, msg.method)
		}
		m.refresh()

	case copiedResetMsg:
		if msg.gen == m.copiedGen {
			m.copiedID = uuid.Nil
			m.refresh()
		}

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.notice = "config reload failed: " + msg.Err.Error()
		} else if msg.Config != nil {
			m.applyConfig(msg.Config)
			m.notice = "config reloaded"
		}

	case spinner.TickMsg:
		if m.pendingReplies > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}

	default:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.sched.Drain())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showSkills {
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlO {
			m.showSkills = false
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if msg.Alt {
			m.textarea.InsertString("\n")
			return nil
		}
		if msg.Paste {
			break
		}
		return m.handleSubmit()

	case tea.KeyEsc:
		return m.setSelected(-1)

	case tea.KeyCtrlO:
		m.showSkills = true
		return nil

	case tea.KeyTab:
		m.showCards = !m.showCards
		m.resize(m.width, m.height)
		return nil

	case tea.KeyCtrlP:
		next := m.selected - 1
		if m.selected < 0 {
			next = len(m.messages) - 1
		}
		if next < 0 {
			return nil
		}
		return m.setSelected(next)

	case tea.KeyCtrlN:
		if m.selected < 0 {
			return nil
		}
		next := m.selected + 1
		if next >= len(m.messages) {
			next = -1
		}
		return m.setSelected(next)

	case tea.KeyCtrlY:
		return m.handleCopy()

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return cmd
}

// handleSubmit sends the trimmed input and schedules the narrator reply.
// Blank input is ignored.
func (m *Model) handleSubmit() tea.Cmd {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}
	m.textarea.Reset()
	m.notice = ""

	m.appendMessage(SenderUser, input)
	m.pendingReplies++
	logging.Chat("player: %q", input)
	m.refresh()

	return tea.Batch(m.replyCmd(input), m.spinner.Tick)
}

// setSelected moves the keyboard selection. Leaving a user message keeps its
// actions visible until the hide delay passes.
func (m *Model) setSelected(idx int) tea.Cmd {
	if idx == m.selected {
		return nil
	}

	var cmd tea.Cmd
	if prev := m.selected; prev >= 0 && prev < len(m.messages) && m.messages[prev].Sender == SenderUser {
		m.hideGen++
		id, gen := m.messages[prev].ID, m.hideGen
		m.lingering[id] = gen
		cmd = tea.Tick(m.cfg.GetActionsHideDelay(), func(time.Time) tea.Msg {
			return actionsHideMsg{id: id, gen: gen}
		})
	}

	m.selected = idx
	if idx >= 0 && idx < len(m.messages) {
		delete(m.lingering, m.messages[idx].ID)
	}
	m.refresh()
	return cmd
}

// actionsVisible reports whether message i currently shows its actions.
func (m Model) actionsVisible(i int) bool {
	msg := m.messages[i]
	if msg.Sender == SenderNarrator {
		return msg.Status == StatusCompleted
	}
	if i == m.selected {
		return true
	}
	_, ok := m.lingering[msg.ID]
	return ok
}

// copyTarget picks the selected message, or the latest completed narrator
// message when nothing is selected.
func (m Model) copyTarget() (int, bool) {
	if m.selected >= 0 && m.selected < len(m.messages) {
		return m.selected, m.actionsVisible(m.selected)
	}
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Sender == SenderNarrator && m.messages[i].Status == StatusCompleted {
			return i, true
		}
	}
	return -1, false
}

func (m *Model) handleCopy() tea.Cmd {
	i, ok := m.copyTarget()
	if !ok {
		if i >= 0 && m.messages[i].Status == StatusTyping {
			m.notice = "still typing"
		} else {
			m.notice = "nothing to copy"
		}
		m.refresh()
		return nil
	}
	msg := m.messages[i]
	logging.Get(logging.CategoryClipboard).Debug("copy requested for %s", msg.ID)
	return copyCmd(m.clipboard, m.term, msg.ID, msg.Text)
}

// footerHint is the hotkey line shown when there is no notice.
func (m Model) footerHint() string {
	cards := "show cards"
	if m.showCards {
		cards = "hide cards"
	}
	return fmt.Sprintf("enter send · ctrl+p/n select · ctrl+y copy · ctrl+o skills · tab %s · ctrl+c quit", cards)
}
