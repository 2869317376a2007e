package chat

import (
	"strconv"
	"strings"

	"storyloom/cmd/loom/ui"

	"github.com/charmbracelet/lipgloss"
)

const caret = "▌"

// renderHistory formats the message list for the viewport.
func (m Model) renderHistory() string {
	width := m.layout.ChatWidth()
	if len(m.messages) == 0 {
		return lipgloss.Place(width, m.layout.ChatHeight(), lipgloss.Center, lipgloss.Center,
			m.styles.Greeting.Render(m.cfg.Chat.Greeting))
	}

	var sb strings.Builder
	for i := range m.messages {
		sb.WriteString(m.renderMessage(i, width))
		sb.WriteString("\n")
	}
	if m.pendingReplies > 0 {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" " + m.cfg.Chat.Narrator + " is thinking..."))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderMessage(i, width int) string {
	msg := m.messages[i]

	var block string
	if msg.Sender == SenderUser {
		bubble := m.styles.UserBubble.MaxWidth(m.layout.UserBubbleWidth()).
			Render(lipgloss.NewStyle().Width(min(lipgloss.Width(msg.Text), m.layout.UserBubbleWidth()-4)).Render(msg.Text))
		if i == m.selected {
			bubble = m.styles.Selected.Render(bubble)
		}
		block = lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	} else {
		block = m.renderNarrator(msg, width)
		if i == m.selected {
			block = m.styles.Selected.Render(block)
		}
	}

	if m.actionsVisible(i) {
		align := lipgloss.Left
		if msg.Sender == SenderUser {
			align = lipgloss.Right
		}
		block = lipgloss.JoinVertical(lipgloss.Left, block, lipgloss.PlaceHorizontal(width, align, m.renderActions(msg)))
	}
	return block
}

// renderNarrator renders the typed prefix while animating, and the cached
// full text once completed.
func (m Model) renderNarrator(msg Message, width int) string {
	label := m.styles.Muted.Render(m.cfg.Chat.Narrator + " · " + msg.Time.Format("15:04"))
	body := m.styles.NarratorText.Width(width)

	if msg.Status == StatusTyping {
		prefix := ""
		if ar, ok := m.reveals[msg.ID]; ok {
			prefix = ar.prefix
		}
		return lipgloss.JoinVertical(lipgloss.Left, label, body.Render(prefix+m.styles.Caret.Render(caret)))
	}

	key := ui.ComputeKey(msg.ID.String(), msg.Text, strconv.Itoa(width), strconv.FormatBool(m.styles.Theme.IsDark))
	return m.cache.GetOrCompute(key, func() string {
		return lipgloss.JoinVertical(lipgloss.Left, label, body.Render(msg.Text))
	})
}

func (m Model) renderActions(msg Message) string {
	if msg.ID == m.copiedID {
		return m.styles.ActionDone.Render("✓ Copied")
	}
	return m.styles.Action.Render("⧉ Copy (ctrl+y)")
}

func (m Model) renderCards() string {
	w := ui.CardsColumnWidth
	cards := []string{}
	if c := m.styles.RenderProtagonistCard(m.scenario.Protagonist, w); c != "" {
		cards = append(cards, c)
	}
	if c := m.styles.RenderSceneCard(m.renderer, m.scenario.Place, m.scenario.Characters, w); c != "" {
		cards = append(cards, c)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) renderFooter() string {
	if m.notice != "" {
		style := m.styles.Warning
		if strings.Contains(m.notice, "failed") {
			style = m.styles.Error
		}
		return m.styles.Footer.Render(style.Render(m.notice))
	}
	return m.styles.Footer.Render(m.footerHint())
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.RenderHeader(m.cfg.UI.Title, m.cfg.UI.Tagline, m.scenario.Characters, m.cfg.UI.MaxAvatars, m.width)

	if m.showSkills && m.scenario.Protagonist != nil {
		dialogWidth := min(m.width-4, 80)
		dialog := m.styles.RenderSkillsDialog(m.renderer, m.scenario.Protagonist.Skills, dialogWidth)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.height-ui.HeaderHeight, lipgloss.Center, lipgloss.Center, dialog))
	}

	chatCol := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.styles.Input.Width(m.layout.ChatWidth()-2).Render(m.textarea.View()),
		m.renderFooter(),
	)

	body := chatCol
	if m.layout.ShowCards {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			chatCol,
			strings.Repeat(" ", ui.CardsDivider),
			m.renderCards(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(body))
}
